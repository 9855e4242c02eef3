package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/pkg"
)

// ErrRoomNotFound returned when no room exists for the id
var ErrRoomNotFound = errors.New("no chat room found with given id")

// RoomRepository definition chat room directory store.
// Pair lookups run through pkg.OrderPair before touching the table.
type RoomRepository interface {
	GetOrCreate(ctx context.Context, userA, userB int64) (*domain.ChatRoom, error)
	FindByID(ctx context.Context, id int64) (*domain.ChatRoom, error)
	FindByUser(ctx context.Context, userID int64) ([]domain.ChatRoom, error)
	Deactivate(ctx context.Context, id int64) error
	DeactivateByPair(ctx context.Context, userA, userB int64) error
	Touch(ctx context.Context, id int64) error
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository create a RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// GetOrCreate the one room for the pair. An inactive room is
// reactivated with its history instead of creating a second row.
func (r *roomRepository) GetOrCreate(ctx context.Context, userA, userB int64) (*domain.ChatRoom, error) {
	a, b := pkg.OrderPair(userA, userB)

	var room domain.ChatRoom
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&room).Error
	if err == nil {
		if !room.IsActive {
			if err := r.db.WithContext(ctx).Model(&room).Update("is_active", true).Error; err != nil {
				return nil, err
			}
			room.IsActive = true
		}
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = domain.ChatRoom{UserAID: a, UserBID: b, IsActive: true}
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		// concurrent creator hit the pair index first, take its row
		var existing domain.ChatRoom
		if ferr := r.db.WithContext(ctx).
			Where("user_a_id = ? AND user_b_id = ?", a, b).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByID(ctx context.Context, id int64) (*domain.ChatRoom, error) {
	var room domain.ChatRoom
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindByUser active rooms of the user, most recently touched first
func (r *roomRepository) FindByUser(ctx context.Context, userID int64) ([]domain.ChatRoom, error) {
	var rooms []domain.ChatRoom
	err := r.db.WithContext(ctx).
		Where("(user_a_id = ? OR user_b_id = ?) AND is_active = ?", userID, userID, true).
		Order("updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// Deactivate hide the room from both users, keeping its history
func (r *roomRepository) Deactivate(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ?", id).
		Update("is_active", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *roomRepository) DeactivateByPair(ctx context.Context, userA, userB int64) error {
	a, b := pkg.OrderPair(userA, userB)
	return r.db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Update("is_active", false).Error
}

// Touch bump updated_at so the room floats up in the room list
func (r *roomRepository) Touch(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("now()")).Error
}
