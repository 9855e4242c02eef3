package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"dating_match_service/internal/matching/domain"
)

// SwipeRepository definition swipe ledger store
type SwipeRepository interface {
	Create(ctx context.Context, s *domain.Swipe) error
	UpdateDecision(ctx context.Context, id int64, isLike bool) error
	FindByPair(ctx context.Context, initiatorID, targetID int64) (*domain.Swipe, error)
	FindPendingLikesFor(ctx context.Context, targetID int64) ([]domain.Swipe, error)
}

type swipeRepository struct {
	db *pgxpool.Pool
}

// NewSwipeRepository create a SwipeRepository
func NewSwipeRepository(db *pgxpool.Pool) SwipeRepository {
	return &swipeRepository{db: db}
}

// Create insert one swipe row and fill the generated fields
func (r *swipeRepository) Create(ctx context.Context, s *domain.Swipe) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO swipes (initiator_id, target_id, is_like)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.InitiatorID, s.TargetID, s.IsLike)
	return row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// UpdateDecision overwrite is_like of an existing swipe
func (r *swipeRepository) UpdateDecision(ctx context.Context, id int64, isLike bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE swipes SET is_like = $1, updated_at = now() WHERE id = $2`,
		isLike, id)
	return err
}

// FindByPair the swipe initiator already made on target, nil when none
func (r *swipeRepository) FindByPair(ctx context.Context, initiatorID, targetID int64) (*domain.Swipe, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, initiator_id, target_id, is_like, created_at, updated_at
		 FROM swipes
		 WHERE initiator_id = $1 AND target_id = $2`,
		initiatorID, targetID)

	var s domain.Swipe
	err := row.Scan(&s.ID, &s.InitiatorID, &s.TargetID, &s.IsLike, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// FindPendingLikesFor likes aimed at targetID that targetID has not answered yet
func (r *swipeRepository) FindPendingLikesFor(ctx context.Context, targetID int64) ([]domain.Swipe, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.initiator_id, s.target_id, s.is_like, s.created_at, s.updated_at
		 FROM swipes s
		 WHERE s.target_id = $1 AND s.is_like = TRUE
		   AND NOT EXISTS (
		     SELECT 1 FROM swipes back
		     WHERE back.initiator_id = s.target_id AND back.target_id = s.initiator_id
		   )
		 ORDER BY s.updated_at DESC`,
		targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []domain.Swipe
	for rows.Next() {
		var s domain.Swipe
		if err := rows.Scan(&s.ID, &s.InitiatorID, &s.TargetID, &s.IsLike, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, s)
	}
	return likes, rows.Err()
}
