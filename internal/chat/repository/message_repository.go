package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dating_match_service/internal/chat/domain"
)

// ErrMessageNotFound returned when no message exists for the query
var ErrMessageNotFound = errors.New("no message found with given criteria")

// visibleExpr anti-join against the per-user hide table
const visibleExpr = `NOT EXISTS (
	SELECT 1 FROM user_message_visibilities v
	WHERE v.message_id = messages.id AND v.user_id = ?
)`

// MessageRepository definition message store and cursor pager
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	FindByID(ctx context.Context, id int64) (*domain.Message, error)
	FindVisiblePage(ctx context.Context, roomID, viewerID int64, cursor *int64, limit int, dir domain.Direction) ([]domain.Message, error)
	MarkRead(ctx context.Context, roomID, readerID int64, at time.Time) ([]int64, error)
	CountUnread(ctx context.Context, roomID, readerID int64) (int64, error)
	HideForUser(ctx context.Context, messageID, userID int64) error
	Recall(ctx context.Context, id int64, at time.Time) error
	FindByImageURL(ctx context.Context, imageURL string) (*domain.Message, error)
	ClearImage(ctx context.Context, id int64) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository create a MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create insert one message row
func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	var m domain.Message
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindVisiblePage one cursor page of the viewer's visible messages.
// A nil cursor reads the newest page; NEXT walks to older ids
// descending, PREVIOUS to newer ids ascending. The caller over-fetches
// one row to learn whether more pages exist.
func (r *messageRepository) FindVisiblePage(ctx context.Context, roomID, viewerID int64, cursor *int64, limit int, dir domain.Direction) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where(visibleExpr, viewerID).
		Limit(limit)

	switch {
	case cursor == nil:
		q = q.Order("id DESC")
	case dir == domain.DirectionPrevious:
		q = q.Where("id > ?", *cursor).Order("id ASC")
	default:
		q = q.Where("id < ?", *cursor).Order("id DESC")
	}

	var messages []domain.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flag every unread message the others sent with the read
// time, returning the flagged ids
func (r *messageRepository) MarkRead(ctx context.Context, roomID, readerID int64, at time.Time) ([]int64, error) {
	var updated []domain.Message
	err := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(updated))
	for _, m := range updated {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// CountUnread unread messages the others sent, minus hidden ones
func (r *messageRepository) CountUnread(ctx context.Context, roomID, readerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Where(visibleExpr, readerID).
		Count(&count).Error
	return count, err
}

// HideForUser idempotent per-user hide, repeat calls are no-ops
func (r *messageRepository) HideForUser(ctx context.Context, messageID, userID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.UserMessageVisibility{UserID: userID, MessageID: messageID}).Error
}

// Recall flag the message recalled, keeping the row
func (r *messageRepository) Recall(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"recalled": true, "recalled_at": at}).Error
}

// FindByImageURL the message owning an uploaded object
func (r *messageRepository) FindByImageURL(ctx context.Context, imageURL string) (*domain.Message, error) {
	var m domain.Message
	err := r.db.WithContext(ctx).Where("image_url = ?", imageURL).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ClearImage drop the attachment reference after storage deletion
func (r *messageRepository) ClearImage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", id).
		Update("image_url", "").Error
}
