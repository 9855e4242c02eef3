package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dating_match_service/internal/chat/domain"
	userdomain "dating_match_service/internal/user/domain"
	"dating_match_service/pkg/apperr"
)

func TestRoomUseCase_GetOrCreateRoom_SameRoomBothOrders(t *testing.T) {
	ctx := context.Background()
	roomRepo := new(MockRoomRepository)

	room := &domain.ChatRoom{ID: 5, UserAID: 1, UserBID: 2, IsActive: true}
	roomRepo.On("GetOrCreate", ctx, int64(1), int64(2)).Return(room, nil)
	roomRepo.On("GetOrCreate", ctx, int64(2), int64(1)).Return(room, nil)

	uc := NewRoomUseCase(roomRepo, nil, nil, nil)
	first, err := uc.GetOrCreateRoom(ctx, 1, 2)
	assert.NoError(t, err)
	second, err := uc.GetOrCreateRoom(ctx, 2, 1)
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestRoomUseCase_Deactivate_NotMember(t *testing.T) {
	ctx := context.Background()
	roomRepo := new(MockRoomRepository)

	roomRepo.On("FindByID", ctx, int64(5)).
		Return(&domain.ChatRoom{ID: 5, UserAID: 1, UserBID: 2, IsActive: true}, nil)

	uc := NewRoomUseCase(roomRepo, nil, nil, nil)
	err := uc.Deactivate(ctx, 5, 9)

	assert.True(t, apperr.Is(err, "NOT_ROOM_MEMBER"))
	roomRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestRoomUseCase_Rooms(t *testing.T) {
	ctx := context.Background()
	roomRepo := new(MockRoomRepository)
	msgRepo := new(MockMessageRepository)
	presence := new(MockPresenceRepository)
	userRepo := new(MockUserRepository)

	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	roomRepo.On("FindByUser", ctx, int64(1)).Return([]domain.ChatRoom{
		{ID: 5, UserAID: 1, UserBID: 2, IsActive: true, UpdatedAt: updated},
	}, nil)
	userRepo.On("FindByID", ctx, int64(2)).Return(&userdomain.User{ID: 2, Username: "bob"}, nil)
	msgRepo.On("CountUnread", ctx, int64(5), int64(1)).Return(int64(3), nil)
	presence.On("IsOnline", ctx, int64(2)).Return(true, nil)

	uc := NewRoomUseCase(roomRepo, msgRepo, presence, userRepo)
	views, err := uc.Rooms(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "bob", views[0].Username)
	assert.True(t, views[0].IsOnline)
	assert.Equal(t, int64(3), views[0].UnreadCount)
}
