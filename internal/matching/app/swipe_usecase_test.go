package app

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dating_match_service/internal/matching/domain"
	"dating_match_service/internal/matching/repository"
	userdomain "dating_match_service/internal/user/domain"
	userrepo "dating_match_service/internal/user/repository"
	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = logger.NewNop()
	os.Exit(m.Run())
}

func newSwipeUseCaseForTest(swipeRepo *MockSwipeRepository,
	matchRepo *MockMatchRepository,
	userRepo *MockUserRepository,
	rooms *MockRoomDirectory,
	notifier *MockNotifier,
	events *MockEventPublisher,
	now time.Time,
) *swipeUseCase {
	return &swipeUseCase{
		swipeRepo:    swipeRepo,
		matchRepo:    matchRepo,
		userRepo:     userRepo,
		rooms:        rooms,
		notifier:     notifier,
		events:       events,
		updateWindow: time.Hour,
		now:          func() time.Time { return now },
	}
}

func TestSwipeUseCase_Swipe_PassRecorded(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swipeRepo := new(MockSwipeRepository)
	matchRepo := new(MockMatchRepository)
	userRepo := new(MockUserRepository)
	events := new(MockEventPublisher)

	userRepo.On("FindByID", ctx, int64(2)).Return(&userdomain.User{ID: 2, Username: "bob"}, nil)
	matchRepo.On("FindActiveByPair", ctx, int64(1), int64(2)).Return(nil, nil)
	swipeRepo.On("FindByPair", ctx, int64(1), int64(2)).Return(nil, nil)
	swipeRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Swipe).ID = 10
	}).Return(nil)
	events.On("PublishSwipe", ctx, mock.Anything).Return(nil)

	uc := newSwipeUseCaseForTest(swipeRepo, matchRepo, userRepo, nil, nil, events, now)
	result, err := uc.Swipe(ctx, 1, 2, false)

	assert.NoError(t, err)
	assert.False(t, result.IsMatch)
	assert.Equal(t, int64(10), result.SwipeID)
	swipeRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestSwipeUseCase_Swipe_MutualLikeCreatesMatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swipeRepo := new(MockSwipeRepository)
	matchRepo := new(MockMatchRepository)
	userRepo := new(MockUserRepository)
	rooms := new(MockRoomDirectory)
	notifier := new(MockNotifier)
	events := new(MockEventPublisher)

	userRepo.On("FindByID", ctx, int64(7)).Return(&userdomain.User{ID: 7, Username: "bob"}, nil)
	userRepo.On("FindByID", ctx, int64(3)).Return(&userdomain.User{ID: 3, Username: "alice"}, nil)
	matchRepo.On("FindActiveByPair", ctx, int64(3), int64(7)).Return(nil, nil)
	swipeRepo.On("FindByPair", ctx, int64(3), int64(7)).Return(nil, nil)
	swipeRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Swipe).ID = 11
	}).Return(nil)
	swipeRepo.On("FindByPair", ctx, int64(7), int64(3)).
		Return(&domain.Swipe{ID: 5, InitiatorID: 7, TargetID: 3, IsLike: true}, nil)
	match := &domain.Match{ID: 99, UserAID: 3, UserBID: 7, Status: domain.MatchActive, MatchedAt: now}
	matchRepo.On("CreateIfAbsent", ctx, int64(3), int64(7)).Return(match, true, nil)
	rooms.On("GetOrCreateRoomID", ctx, int64(3), int64(7)).Return(int64(42), nil)
	notifier.On("NotifyMatch", ctx, int64(3), int64(99), "bob").Return()
	notifier.On("NotifyMatch", ctx, int64(7), int64(99), "alice").Return()
	events.On("PublishSwipe", ctx, mock.Anything).Return(nil)

	uc := newSwipeUseCaseForTest(swipeRepo, matchRepo, userRepo, rooms, notifier, events, now)
	result, err := uc.Swipe(ctx, 3, 7, true)

	assert.NoError(t, err)
	assert.True(t, result.IsMatch)
	assert.Equal(t, int64(99), *result.MatchID)
	assert.Equal(t, int64(42), *result.ChatRoomID)
	assert.Equal(t, "bob", result.MatchedName)
	notifier.AssertExpectations(t)
	matchRepo.AssertExpectations(t)
}

func TestSwipeUseCase_Swipe_RaceLoserGetsWinnersMatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swipeRepo := new(MockSwipeRepository)
	matchRepo := new(MockMatchRepository)
	userRepo := new(MockUserRepository)
	rooms := new(MockRoomDirectory)
	notifier := new(MockNotifier)
	events := new(MockEventPublisher)

	userRepo.On("FindByID", ctx, int64(7)).Return(&userdomain.User{ID: 7, Username: "bob"}, nil)
	matchRepo.On("FindActiveByPair", ctx, int64(3), int64(7)).Return(nil, nil)
	swipeRepo.On("FindByPair", ctx, int64(3), int64(7)).Return(nil, nil)
	swipeRepo.On("Create", ctx, mock.Anything).Return(nil)
	swipeRepo.On("FindByPair", ctx, int64(7), int64(3)).
		Return(&domain.Swipe{ID: 5, InitiatorID: 7, TargetID: 3, IsLike: true}, nil)
	match := &domain.Match{ID: 99, UserAID: 3, UserBID: 7, Status: domain.MatchActive, MatchedAt: now}
	matchRepo.On("CreateIfAbsent", ctx, int64(3), int64(7)).Return(match, false, nil)
	rooms.On("GetOrCreateRoomID", ctx, int64(3), int64(7)).Return(int64(42), nil)
	events.On("PublishSwipe", ctx, mock.Anything).Return(nil)

	uc := newSwipeUseCaseForTest(swipeRepo, matchRepo, userRepo, rooms, notifier, events, now)
	result, err := uc.Swipe(ctx, 3, 7, true)

	assert.NoError(t, err)
	assert.True(t, result.IsMatch)
	assert.Equal(t, int64(99), *result.MatchID)
	// the race loser must not fire a second pair of notifications
	notifier.AssertNotCalled(t, "NotifyMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSwipeUseCase_Swipe_SelfSwipe(t *testing.T) {
	uc := newSwipeUseCaseForTest(nil, nil, nil, nil, nil, nil, time.Now())

	_, err := uc.Swipe(context.Background(), 4, 4, true)

	assert.Error(t, err)
	assert.True(t, apperr.Is(err, "SELF_SWIPE"))
}

func TestSwipeUseCase_Swipe_TargetMissing(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", ctx, int64(404)).Return(nil, userrepo.ErrUserNotFound)

	uc := newSwipeUseCaseForTest(nil, nil, userRepo, nil, nil, nil, time.Now())
	_, err := uc.Swipe(ctx, 1, 404, true)

	assert.True(t, apperr.Is(err, "USER_NOT_FOUND"))
}

func TestSwipeUseCase_Swipe_AlreadyMatched(t *testing.T) {
	ctx := context.Background()
	matchRepo := new(MockMatchRepository)
	userRepo := new(MockUserRepository)

	userRepo.On("FindByID", ctx, int64(2)).Return(&userdomain.User{ID: 2, Username: "bob"}, nil)
	matchRepo.On("FindActiveByPair", ctx, int64(1), int64(2)).
		Return(&domain.Match{ID: 1, UserAID: 1, UserBID: 2, Status: domain.MatchActive}, nil)

	uc := newSwipeUseCaseForTest(nil, matchRepo, userRepo, nil, nil, nil, time.Now())
	_, err := uc.Swipe(ctx, 1, 2, true)

	assert.True(t, apperr.Is(err, "ALREADY_MATCHED"))
}

func TestSwipeUseCase_Swipe_RepeatInsideWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swipeRepo := new(MockSwipeRepository)
	matchRepo := new(MockMatchRepository)
	userRepo := new(MockUserRepository)
	events := new(MockEventPublisher)

	userRepo.On("FindByID", ctx, int64(2)).Return(&userdomain.User{ID: 2, Username: "bob"}, nil)
	matchRepo.On("FindActiveByPair", ctx, int64(1), int64(2)).Return(nil, nil)
	existing := &domain.Swipe{ID: 8, InitiatorID: 1, TargetID: 2, IsLike: true,
		CreatedAt: now.Add(-59 * time.Minute)}
	swipeRepo.On("FindByPair", ctx, int64(1), int64(2)).Return(existing, nil)
	swipeRepo.On("UpdateDecision", ctx, int64(8), false).Return(nil)
	events.On("PublishSwipe", ctx, mock.Anything).Return(nil)

	uc := newSwipeUseCaseForTest(swipeRepo, matchRepo, userRepo, nil, nil, events, now)
	result, err := uc.Swipe(ctx, 1, 2, false)

	assert.NoError(t, err)
	assert.False(t, result.IsMatch)
	swipeRepo.AssertExpectations(t)
}

func TestSwipeUseCase_Swipe_RepeatOutsideWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swipeRepo := new(MockSwipeRepository)
	matchRepo := new(MockMatchRepository)
	userRepo := new(MockUserRepository)

	userRepo.On("FindByID", ctx, int64(2)).Return(&userdomain.User{ID: 2, Username: "bob"}, nil)
	matchRepo.On("FindActiveByPair", ctx, int64(1), int64(2)).Return(nil, nil)
	existing := &domain.Swipe{ID: 8, InitiatorID: 1, TargetID: 2, IsLike: true,
		CreatedAt: now.Add(-61 * time.Minute)}
	swipeRepo.On("FindByPair", ctx, int64(1), int64(2)).Return(existing, nil)

	uc := newSwipeUseCaseForTest(swipeRepo, matchRepo, userRepo, nil, nil, nil, now)
	_, err := uc.Swipe(ctx, 1, 2, false)

	assert.True(t, apperr.Is(err, "SWIPE_LOCKED"))
	swipeRepo.AssertNotCalled(t, "UpdateDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestSwipeUseCase_Unmatch(t *testing.T) {
	ctx := context.Background()

	matchRepo := new(MockMatchRepository)
	rooms := new(MockRoomDirectory)

	match := &domain.Match{ID: 99, UserAID: 3, UserBID: 7, Status: domain.MatchActive}
	matchRepo.On("FindByID", ctx, int64(99)).Return(match, nil)
	matchRepo.On("UpdateStatus", ctx, int64(99), domain.MatchUnmatched).Return(nil)
	rooms.On("DeactivateRoomByPair", ctx, int64(3), int64(7)).Return(nil)

	uc := newSwipeUseCaseForTest(nil, matchRepo, nil, rooms, nil, nil, time.Now())
	err := uc.Unmatch(ctx, 99, 7)

	assert.NoError(t, err)
	matchRepo.AssertExpectations(t)
	rooms.AssertExpectations(t)
}

func TestSwipeUseCase_Unmatch_NotMember(t *testing.T) {
	ctx := context.Background()

	matchRepo := new(MockMatchRepository)
	match := &domain.Match{ID: 99, UserAID: 3, UserBID: 7, Status: domain.MatchActive}
	matchRepo.On("FindByID", ctx, int64(99)).Return(match, nil)

	uc := newSwipeUseCaseForTest(nil, matchRepo, nil, nil, nil, nil, time.Now())
	err := uc.Unmatch(ctx, 99, 5)

	assert.True(t, apperr.Is(err, "NOT_MATCH_MEMBER"))
}

func TestSwipeUseCase_Unmatch_NotFound(t *testing.T) {
	ctx := context.Background()

	matchRepo := new(MockMatchRepository)
	matchRepo.On("FindByID", ctx, int64(1)).Return(nil, repository.ErrMatchNotFound)

	uc := newSwipeUseCaseForTest(nil, matchRepo, nil, nil, nil, nil, time.Now())
	err := uc.Unmatch(ctx, 1, 5)

	assert.True(t, apperr.Is(err, "MATCH_NOT_FOUND"))
}

func TestSwipeUseCase_ReceivedLikes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swipeRepo := new(MockSwipeRepository)
	userRepo := new(MockUserRepository)

	swipeRepo.On("FindPendingLikesFor", ctx, int64(9)).Return([]domain.Swipe{
		{ID: 1, InitiatorID: 4, TargetID: 9, IsLike: true, UpdatedAt: now},
	}, nil)
	userRepo.On("FindByID", ctx, int64(4)).Return(&userdomain.User{ID: 4, Username: "carol"}, nil)

	uc := newSwipeUseCaseForTest(swipeRepo, nil, userRepo, nil, nil, nil, now)
	likes, err := uc.ReceivedLikes(ctx, 9)

	assert.NoError(t, err)
	assert.Len(t, likes, 1)
	assert.Equal(t, "carol", likes[0].Username)
}
