package app

import (
	"context"

	"go.uber.org/zap"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/internal/chat/repository"
	userrepo "dating_match_service/internal/user/repository"
	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/logger"
)

// RoomUseCase application service for the chat room directory.
// It also backs the matching side's room resolution, so a new match
// and a room listing both land on the same pair row.
type RoomUseCase struct {
	roomRepo repository.RoomRepository
	msgRepo  repository.MessageRepository
	presence repository.PresenceRepository
	userRepo userrepo.UserRepository
}

// NewRoomUseCase create a RoomUseCase
func NewRoomUseCase(roomRepo repository.RoomRepository,
	msgRepo repository.MessageRepository,
	presence repository.PresenceRepository,
	userRepo userrepo.UserRepository,
) *RoomUseCase {
	return &RoomUseCase{
		roomRepo: roomRepo,
		msgRepo:  msgRepo,
		presence: presence,
		userRepo: userRepo,
	}
}

// GetOrCreateRoom the one room for the pair, reactivated if needed
func (uc *RoomUseCase) GetOrCreateRoom(ctx context.Context, userA, userB int64) (*domain.ChatRoom, error) {
	return uc.roomRepo.GetOrCreate(ctx, userA, userB)
}

// GetOrCreateRoomID room id resolution for the matching side
func (uc *RoomUseCase) GetOrCreateRoomID(ctx context.Context, userA, userB int64) (int64, error) {
	room, err := uc.roomRepo.GetOrCreate(ctx, userA, userB)
	if err != nil {
		return 0, err
	}
	return room.ID, nil
}

// DeactivateRoomByPair room retirement for the matching side
func (uc *RoomUseCase) DeactivateRoomByPair(ctx context.Context, userA, userB int64) error {
	return uc.roomRepo.DeactivateByPair(ctx, userA, userB)
}

// Deactivate hide the room on a participant's request
func (uc *RoomUseCase) Deactivate(ctx context.Context, roomID, requesterID int64) error {
	room, err := uc.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return apperr.NotFound("ROOM_NOT_FOUND", "chat room does not exist")
		}
		return err
	}
	if !room.HasUser(requesterID) {
		return apperr.Forbidden("NOT_ROOM_MEMBER", "you are not part of this chat room")
	}
	return uc.roomRepo.Deactivate(ctx, roomID)
}

// Rooms the user's active rooms joined with counterpart profile,
// presence and unread count, most recently touched first
func (uc *RoomUseCase) Rooms(ctx context.Context, userID int64) ([]domain.RoomView, error) {
	rooms, err := uc.roomRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.RoomView, 0, len(rooms))
	for _, room := range rooms {
		view, err := uc.buildView(ctx, &room, userID)
		if err != nil {
			logger.Log.Warn("room view build failed",
				zap.Int64("roomID", room.ID),
				zap.Error(err),
			)
			continue
		}
		views = append(views, *view)
	}
	return views, nil
}

// Room one room view, participant only
func (uc *RoomUseCase) Room(ctx context.Context, roomID, requesterID int64) (*domain.RoomView, error) {
	room, err := uc.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperr.NotFound("ROOM_NOT_FOUND", "chat room does not exist")
		}
		return nil, err
	}
	if !room.HasUser(requesterID) {
		return nil, apperr.Forbidden("NOT_ROOM_MEMBER", "you are not part of this chat room")
	}
	return uc.buildView(ctx, room, requesterID)
}

func (uc *RoomUseCase) buildView(ctx context.Context, room *domain.ChatRoom, viewerID int64) (*domain.RoomView, error) {
	counterpartID := room.Counterpart(viewerID)
	counterpart, err := uc.userRepo.FindByID(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	unread, err := uc.msgRepo.CountUnread(ctx, room.ID, viewerID)
	if err != nil {
		return nil, err
	}

	online := false
	if uc.presence != nil {
		online, err = uc.presence.IsOnline(ctx, counterpartID)
		if err != nil {
			logger.Log.Warn("presence lookup failed", zap.Int64("userID", counterpartID), zap.Error(err))
			online = false
		}
	}

	return &domain.RoomView{
		RoomID:      room.ID,
		UserID:      counterpartID,
		Username:    counterpart.Username,
		IsOnline:    online,
		UnreadCount: unread,
		UpdatedAt:   room.UpdatedAt,
	}, nil
}
