package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/internal/chat/repository"
	"dating_match_service/pkg/logger"
)

// PresenceUseCase tracks who is connected and tells their rooms.
// The set is ephemeral; a service restart simply starts empty.
type PresenceUseCase struct {
	presence repository.PresenceRepository
	roomRepo repository.RoomRepository
	pubsub   repository.PubSub

	now func() time.Time
}

// NewPresenceUseCase create a PresenceUseCase
func NewPresenceUseCase(presence repository.PresenceRepository,
	roomRepo repository.RoomRepository,
	pubsub repository.PubSub,
) *PresenceUseCase {
	return &PresenceUseCase{
		presence: presence,
		roomRepo: roomRepo,
		pubsub:   pubsub,
		now:      time.Now,
	}
}

// MarkOnline add the user to the online set and tell every room
func (uc *PresenceUseCase) MarkOnline(ctx context.Context, userID int64) error {
	if err := uc.presence.MarkOnline(ctx, userID); err != nil {
		return err
	}
	uc.broadcast(ctx, userID, true)
	return nil
}

// MarkOffline drop the user from the online set and tell every room
func (uc *PresenceUseCase) MarkOffline(ctx context.Context, userID int64) error {
	if err := uc.presence.MarkOffline(ctx, userID); err != nil {
		return err
	}
	uc.broadcast(ctx, userID, false)
	return nil
}

// IsOnline membership query on the online set
func (uc *PresenceUseCase) IsOnline(ctx context.Context, userID int64) (bool, error) {
	return uc.presence.IsOnline(ctx, userID)
}

func (uc *PresenceUseCase) broadcast(ctx context.Context, userID int64, online bool) {
	rooms, err := uc.roomRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Log.Warn("presence room lookup failed", zap.Int64("userID", userID), zap.Error(err))
		return
	}
	for _, room := range rooms {
		evt := domain.Event{
			Type:   domain.EventPresence,
			RoomID: room.ID,
			Payload: map[string]interface{}{
				"user_id": userID,
				"online":  online,
			},
			Timestamp: uc.now().Unix(),
		}
		if err := uc.pubsub.Publish(domain.RoomChannel(room.ID), evt); err != nil {
			logger.Log.Error("presence publish failed",
				zap.Int64("roomID", room.ID),
				zap.Error(err),
			)
		}
	}
}
