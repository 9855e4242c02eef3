package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dating_match_service/internal/matching/domain"
	"dating_match_service/internal/matching/repository"
	notifyapp "dating_match_service/internal/notification/app"
	userrepo "dating_match_service/internal/user/repository"
	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/logger"
)

// RoomDirectory the chat side of a match. Matching only needs to
// resolve or retire the room backing a pair, never its content.
type RoomDirectory interface {
	GetOrCreateRoomID(ctx context.Context, userA, userB int64) (int64, error)
	DeactivateRoomByPair(ctx context.Context, userA, userB int64) error
}

// SwipeUseCase application service for the swipe ledger and match engine
type SwipeUseCase interface {
	Swipe(ctx context.Context, initiatorID, targetID int64, isLike bool) (*domain.SwipeResult, error)
	Matches(ctx context.Context, userID int64) ([]domain.MatchView, error)
	ReceivedLikes(ctx context.Context, userID int64) ([]domain.ReceivedLike, error)
	Unmatch(ctx context.Context, matchID, userID int64) error
}

type swipeUseCase struct {
	swipeRepo    repository.SwipeRepository
	matchRepo    repository.MatchRepository
	userRepo     userrepo.UserRepository
	rooms        RoomDirectory
	notifier     notifyapp.Notifier
	events       repository.EventPublisher
	updateWindow time.Duration

	now func() time.Time
}

// NewSwipeUseCase create a SwipeUseCase
func NewSwipeUseCase(swipeRepo repository.SwipeRepository,
	matchRepo repository.MatchRepository,
	userRepo userrepo.UserRepository,
	rooms RoomDirectory,
	notifier notifyapp.Notifier,
	events repository.EventPublisher,
	updateWindow time.Duration,
) SwipeUseCase {
	return &swipeUseCase{
		swipeRepo:    swipeRepo,
		matchRepo:    matchRepo,
		userRepo:     userRepo,
		rooms:        rooms,
		notifier:     notifier,
		events:       events,
		updateWindow: updateWindow,
		now:          time.Now,
	}
}

// Swipe record one decision. Inside the update window a repeat swipe
// overwrites the earlier decision; outside it the ledger is final.
// A mutual like creates the match and resolves its chat room.
func (uc *swipeUseCase) Swipe(ctx context.Context, initiatorID, targetID int64, isLike bool) (*domain.SwipeResult, error) {
	if initiatorID == targetID {
		return nil, apperr.BadRequest("SELF_SWIPE", "cannot swipe on yourself")
	}

	target, err := uc.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if err == userrepo.ErrUserNotFound {
			return nil, apperr.NotFound("USER_NOT_FOUND", "target user does not exist")
		}
		return nil, err
	}

	active, err := uc.matchRepo.FindActiveByPair(ctx, initiatorID, targetID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperr.Conflict("ALREADY_MATCHED", "you are already matched with this user")
	}

	swipe, err := uc.swipeRepo.FindByPair(ctx, initiatorID, targetID)
	if err != nil {
		return nil, err
	}
	if swipe != nil {
		if !swipe.CanUpdate(uc.now(), uc.updateWindow) {
			return nil, apperr.BadRequest("SWIPE_LOCKED", "swipe decision can no longer be changed")
		}
		if err := uc.swipeRepo.UpdateDecision(ctx, swipe.ID, isLike); err != nil {
			return nil, err
		}
		swipe.IsLike = isLike
		swipe.UpdatedAt = uc.now()
	} else {
		swipe = &domain.Swipe{InitiatorID: initiatorID, TargetID: targetID, IsLike: isLike}
		if err := uc.swipeRepo.Create(ctx, swipe); err != nil {
			return nil, err
		}
	}

	result := &domain.SwipeResult{SwipeID: swipe.ID, Message: "swipe recorded"}
	if !isLike {
		uc.publishEvent(ctx, swipe, nil)
		return result, nil
	}

	reciprocal, err := uc.swipeRepo.FindByPair(ctx, targetID, initiatorID)
	if err != nil {
		return nil, err
	}
	if reciprocal == nil || !reciprocal.IsLike {
		uc.publishEvent(ctx, swipe, nil)
		return result, nil
	}

	match, created, err := uc.matchRepo.CreateIfAbsent(ctx, initiatorID, targetID)
	if err != nil {
		return nil, err
	}

	roomID, err := uc.rooms.GetOrCreateRoomID(ctx, match.UserAID, match.UserBID)
	if err != nil {
		return nil, err
	}

	if created {
		uc.notifyBoth(ctx, match, initiatorID, target.Username)
	}
	uc.publishEvent(ctx, swipe, &match.ID)

	result.IsMatch = true
	result.MatchID = &match.ID
	result.ChatRoomID = &roomID
	result.MatchedUserID = &targetID
	result.MatchedName = target.Username
	result.Message = "it's a match"
	return result, nil
}

// Matches active matches of the user joined with counterpart profiles
func (uc *swipeUseCase) Matches(ctx context.Context, userID int64) ([]domain.MatchView, error) {
	matches, err := uc.matchRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.MatchView, 0, len(matches))
	for _, m := range matches {
		counterpartID := m.Counterpart(userID)
		counterpart, err := uc.userRepo.FindByID(ctx, counterpartID)
		if err != nil {
			logger.Log.Warn("match counterpart lookup failed",
				zap.Int64("matchID", m.ID),
				zap.Int64("userID", counterpartID),
				zap.Error(err),
			)
			continue
		}
		roomID, err := uc.rooms.GetOrCreateRoomID(ctx, m.UserAID, m.UserBID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.MatchView{
			MatchID:    m.ID,
			UserID:     counterpartID,
			Username:   counterpart.Username,
			ChatRoomID: roomID,
			MatchedAt:  m.MatchedAt,
		})
	}
	return views, nil
}

// ReceivedLikes pending likes waiting for the user's answer
func (uc *swipeUseCase) ReceivedLikes(ctx context.Context, userID int64) ([]domain.ReceivedLike, error) {
	likes, err := uc.swipeRepo.FindPendingLikesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ReceivedLike, 0, len(likes))
	for _, s := range likes {
		initiator, err := uc.userRepo.FindByID(ctx, s.InitiatorID)
		if err != nil {
			logger.Log.Warn("like initiator lookup failed",
				zap.Int64("userID", s.InitiatorID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, domain.ReceivedLike{
			UserID:   initiator.ID,
			Username: initiator.Username,
			LikedAt:  s.UpdatedAt,
		})
	}
	return out, nil
}

// Unmatch end an active match and retire its chat room.
// A later mutual like starts over with a brand new match row.
func (uc *swipeUseCase) Unmatch(ctx context.Context, matchID, userID int64) error {
	match, err := uc.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		if err == repository.ErrMatchNotFound {
			return apperr.NotFound("MATCH_NOT_FOUND", "match does not exist")
		}
		return err
	}
	if !match.HasUser(userID) {
		return apperr.Forbidden("NOT_MATCH_MEMBER", "you are not part of this match")
	}
	if match.Status != domain.MatchActive {
		return apperr.BadRequest("MATCH_NOT_ACTIVE", "match is already ended")
	}

	if err := uc.matchRepo.UpdateStatus(ctx, matchID, domain.MatchUnmatched); err != nil {
		return err
	}
	if err := uc.rooms.DeactivateRoomByPair(ctx, match.UserAID, match.UserBID); err != nil {
		logger.Log.Error("room deactivate failed",
			zap.Int64("matchID", matchID),
			zap.Error(err),
		)
	}
	return nil
}

func (uc *swipeUseCase) notifyBoth(ctx context.Context, match *domain.Match, initiatorID int64, targetName string) {
	if uc.notifier == nil {
		return
	}
	initiator, err := uc.userRepo.FindByID(ctx, initiatorID)
	initiatorName := ""
	if err != nil {
		logger.Log.Warn("initiator lookup for notify failed", zap.Int64("userID", initiatorID), zap.Error(err))
	} else {
		initiatorName = initiator.Username
	}
	uc.notifier.NotifyMatch(ctx, initiatorID, match.ID, targetName)
	uc.notifier.NotifyMatch(ctx, match.Counterpart(initiatorID), match.ID, initiatorName)
}

func (uc *swipeUseCase) publishEvent(ctx context.Context, swipe *domain.Swipe, matchID *int64) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishSwipe(ctx, repository.NewSwipeEvent(swipe, matchID)); err != nil {
		logger.Log.Error("swipe event publish failed",
			zap.Int64("swipeID", swipe.ID),
			zap.Error(err),
		)
	}
}
