package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"dating_match_service/internal/matching/domain"
	"dating_match_service/pkg"
)

// ErrMatchNotFound returned when no match row exists for the id
var ErrMatchNotFound = errors.New("no match found with given id")

const createIfAbsentRetries = 3

// MatchRepository definition match store.
// All pair lookups run through pkg.OrderPair so the caller never has
// to care which side of the pair it holds.
type MatchRepository interface {
	CreateIfAbsent(ctx context.Context, userA, userB int64) (match *domain.Match, created bool, err error)
	FindActiveByPair(ctx context.Context, userA, userB int64) (*domain.Match, error)
	FindByID(ctx context.Context, id int64) (*domain.Match, error)
	FindActiveByUser(ctx context.Context, userID int64) ([]domain.Match, error)
	UpdateStatus(ctx context.Context, id int64, status domain.MatchStatus) error
}

type matchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository create a MatchRepository
func NewMatchRepository(db *pgxpool.Pool) MatchRepository {
	return &matchRepository{db: db}
}

// CreateIfAbsent create the active match for the pair, or hand back the
// row another caller just created. Two users liking each other at the
// same instant both land here; the serializable transaction plus the
// partial unique index guarantee exactly one row wins, and the loser
// retries into a read of the winner's row.
func (r *matchRepository) CreateIfAbsent(ctx context.Context, userA, userB int64) (*domain.Match, bool, error) {
	a, b := pkg.OrderPair(userA, userB)

	var lastErr error
	for attempt := 0; attempt < createIfAbsentRetries; attempt++ {
		match, created, err := r.tryCreate(ctx, a, b)
		if err == nil {
			return match, created, nil
		}
		if !retryable(err) {
			return nil, false, err
		}
		lastErr = err
	}
	return nil, false, lastErr
}

func (r *matchRepository) tryCreate(ctx context.Context, a, b int64) (*domain.Match, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	existing, err := scanMatch(tx.QueryRow(ctx,
		`SELECT id, user_a_id, user_b_id, status, matched_at, updated_at
		 FROM matches
		 WHERE user_a_id = $1 AND user_b_id = $2 AND status = 'active'`,
		a, b))
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, err
	}

	match := &domain.Match{UserAID: a, UserBID: b, Status: domain.MatchActive}
	row := tx.QueryRow(ctx,
		`INSERT INTO matches (user_a_id, user_b_id, status)
		 VALUES ($1, $2, 'active')
		 RETURNING id, matched_at, updated_at`,
		a, b)
	if err := row.Scan(&match.ID, &match.MatchedAt, &match.UpdatedAt); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return match, true, nil
}

// retryable serialization failure or the unique index firing under a race
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "23505"
	}
	return false
}

// FindActiveByPair the active match for the pair, nil when none
func (r *matchRepository) FindActiveByPair(ctx context.Context, userA, userB int64) (*domain.Match, error) {
	a, b := pkg.OrderPair(userA, userB)
	match, err := scanMatch(r.db.QueryRow(ctx,
		`SELECT id, user_a_id, user_b_id, status, matched_at, updated_at
		 FROM matches
		 WHERE user_a_id = $1 AND user_b_id = $2 AND status = 'active'`,
		a, b))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}

func (r *matchRepository) FindByID(ctx context.Context, id int64) (*domain.Match, error) {
	match, err := scanMatch(r.db.QueryRow(ctx,
		`SELECT id, user_a_id, user_b_id, status, matched_at, updated_at
		 FROM matches WHERE id = $1`,
		id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

// FindActiveByUser all active matches the user is part of, newest first
func (r *matchRepository) FindActiveByUser(ctx context.Context, userID int64) ([]domain.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_a_id, user_b_id, status, matched_at, updated_at
		 FROM matches
		 WHERE (user_a_id = $1 OR user_b_id = $1) AND status = 'active'
		 ORDER BY matched_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		var status string
		if err := rows.Scan(&m.ID, &m.UserAID, &m.UserBID, &status, &m.MatchedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		parsed, err := domain.ParseMatchStatus(status)
		if err != nil {
			return nil, err
		}
		m.Status = parsed
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpdateStatus flip a match's status
func (r *matchRepository) UpdateStatus(ctx context.Context, id int64, status domain.MatchStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE matches SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	var status string
	if err := row.Scan(&m.ID, &m.UserAID, &m.UserBID, &status, &m.MatchedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseMatchStatus(status)
	if err != nil {
		return nil, err
	}
	m.Status = parsed
	return &m, nil
}
