package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dating_match_service/internal/notification/domain"
	"dating_match_service/internal/notification/repository"
	"dating_match_service/pkg/database"
	"dating_match_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Notifier definition the dispatch contract the core calls.
// Both methods are fire-and-forget: failures are logged and
// never roll back the match/message that triggered them.
type Notifier interface {
	NotifyMatch(ctx context.Context, userID, matchID int64, counterpartName string)
	NotifyMessage(ctx context.Context, userID, messageID int64, senderName string)
}

// DispatchUseCase persists a feed entry and hands the push off to rabbitmq
type DispatchUseCase struct {
	feedRepo repository.FeedRepository
	rabbit   database.RabbitRepo
	queue    string

	now func() time.Time
}

// NewDispatchUseCase create a DispatchUseCase
func NewDispatchUseCase(feedRepo repository.FeedRepository, rabbit database.RabbitRepo, queue string) *DispatchUseCase {
	return &DispatchUseCase{
		feedRepo: feedRepo,
		rabbit:   rabbit,
		queue:    queue,
		now:      time.Now,
	}
}

// NotifyMatch queue a match notification for one user
func (uc *DispatchUseCase) NotifyMatch(ctx context.Context, userID, matchID int64, counterpartName string) {
	n := &domain.Notification{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   domain.TypeMatch,
		Title:  "New match",
		Body:   fmt.Sprintf("You and %s have matched! Start chatting now!", counterpartName),
		Data: map[string]interface{}{
			"match_id": matchID,
		},
		CreatedAt: uc.now().Unix(),
	}
	uc.dispatch(ctx, n)
}

// NotifyMessage queue a new-message notification for one user
func (uc *DispatchUseCase) NotifyMessage(ctx context.Context, userID, messageID int64, senderName string) {
	n := &domain.Notification{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   domain.TypeMessage,
		Title:  "New message",
		Body:   fmt.Sprintf("%s sent you a message", senderName),
		Data: map[string]interface{}{
			"message_id": messageID,
		},
		CreatedAt: uc.now().Unix(),
	}
	uc.dispatch(ctx, n)
}

func (uc *DispatchUseCase) dispatch(ctx context.Context, n *domain.Notification) {
	if uc.feedRepo != nil {
		if err := uc.feedRepo.Insert(ctx, n); err != nil {
			logger.Log.Error("notification feed insert failed",
				zap.Int64("userID", n.UserID),
				zap.String("type", string(n.Type)),
				zap.Error(err),
			)
		}
	}

	if uc.rabbit == nil {
		return
	}

	body, err := json.Marshal(n)
	if err != nil {
		logger.Log.Errorf("notification marshal failed:", err)
		return
	}

	if err := uc.rabbit.Publish("", uc.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		logger.Log.Error("notification publish failed",
			zap.Int64("userID", n.UserID),
			zap.String("queue", uc.queue),
			zap.Error(err),
		)
	}
}
