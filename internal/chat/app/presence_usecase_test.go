package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dating_match_service/internal/chat/domain"
)

func TestPresenceUseCase_MarkOnline_BroadcastsToRooms(t *testing.T) {
	ctx := context.Background()

	presence := new(MockPresenceRepository)
	roomRepo := new(MockRoomRepository)
	pubsub := new(MockPubSub)

	presence.On("MarkOnline", ctx, int64(1)).Return(nil)
	roomRepo.On("FindByUser", ctx, int64(1)).Return([]domain.ChatRoom{
		{ID: 5, UserAID: 1, UserBID: 2, IsActive: true},
		{ID: 6, UserAID: 1, UserBID: 3, IsActive: true},
	}, nil)
	pubsub.On("Publish", domain.RoomChannel(5), mock.Anything).Return(nil)
	pubsub.On("Publish", domain.RoomChannel(6), mock.Anything).Return(nil)

	uc := NewPresenceUseCase(presence, roomRepo, pubsub)
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	assert.NoError(t, uc.MarkOnline(ctx, 1))
	pubsub.AssertExpectations(t)
}

func TestPresenceUseCase_MarkOffline(t *testing.T) {
	ctx := context.Background()

	presence := new(MockPresenceRepository)
	roomRepo := new(MockRoomRepository)
	pubsub := new(MockPubSub)

	presence.On("MarkOffline", ctx, int64(1)).Return(nil)
	roomRepo.On("FindByUser", ctx, int64(1)).Return([]domain.ChatRoom{}, nil)

	uc := NewPresenceUseCase(presence, roomRepo, pubsub)
	assert.NoError(t, uc.MarkOffline(ctx, 1))
	presence.AssertExpectations(t)
}

func TestPresenceUseCase_IsOnline(t *testing.T) {
	ctx := context.Background()

	presence := new(MockPresenceRepository)
	presence.On("IsOnline", ctx, int64(9)).Return(false, nil)

	uc := NewPresenceUseCase(presence, nil, nil)
	online, err := uc.IsOnline(ctx, 9)

	assert.NoError(t, err)
	assert.False(t, online)
}
