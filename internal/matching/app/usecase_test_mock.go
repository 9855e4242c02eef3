package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dating_match_service/internal/matching/domain"
	"dating_match_service/internal/matching/repository"
	userdomain "dating_match_service/internal/user/domain"
)

// MockSwipeRepository Mock SwipeRepository
type MockSwipeRepository struct {
	mock.Mock
}

// Create mock create swipe
func (m *MockSwipeRepository) Create(ctx context.Context, s *domain.Swipe) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// UpdateDecision mock overwrite is_like
func (m *MockSwipeRepository) UpdateDecision(ctx context.Context, id int64, isLike bool) error {
	args := m.Called(ctx, id, isLike)
	return args.Error(0)
}

// FindByPair mock find swipe by pair
func (m *MockSwipeRepository) FindByPair(ctx context.Context, initiatorID, targetID int64) (*domain.Swipe, error) {
	args := m.Called(ctx, initiatorID, targetID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Swipe), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindPendingLikesFor mock pending likes
func (m *MockSwipeRepository) FindPendingLikesFor(ctx context.Context, targetID int64) ([]domain.Swipe, error) {
	args := m.Called(ctx, targetID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Swipe), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMatchRepository Mock MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

// CreateIfAbsent mock create or reuse match
func (m *MockMatchRepository) CreateIfAbsent(ctx context.Context, userA, userB int64) (*domain.Match, bool, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Match), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// FindActiveByPair mock find active match by pair
func (m *MockMatchRepository) FindActiveByPair(ctx context.Context, userA, userB int64) (*domain.Match, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Match), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID mock find match by id
func (m *MockMatchRepository) FindByID(ctx context.Context, id int64) (*domain.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Match), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindActiveByUser mock list active matches
func (m *MockMatchRepository) FindActiveByUser(ctx context.Context, userID int64) ([]domain.Match, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Match), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus mock update match status
func (m *MockMatchRepository) UpdateStatus(ctx context.Context, id int64, status domain.MatchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByID mock find user by id
func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*userdomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*userdomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByEmail mock find user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).(*userdomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRoomDirectory Mock RoomDirectory
type MockRoomDirectory struct {
	mock.Mock
}

// GetOrCreateRoomID mock resolve room for pair
func (m *MockRoomDirectory) GetOrCreateRoomID(ctx context.Context, userA, userB int64) (int64, error) {
	args := m.Called(ctx, userA, userB)
	return args.Get(0).(int64), args.Error(1)
}

// DeactivateRoomByPair mock retire room for pair
func (m *MockRoomDirectory) DeactivateRoomByPair(ctx context.Context, userA, userB int64) error {
	args := m.Called(ctx, userA, userB)
	return args.Error(0)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// NotifyMatch mock match notification
func (m *MockNotifier) NotifyMatch(ctx context.Context, userID, matchID int64, counterpartName string) {
	m.Called(ctx, userID, matchID, counterpartName)
}

// NotifyMessage mock message notification
func (m *MockNotifier) NotifyMessage(ctx context.Context, userID, messageID int64, senderName string) {
	m.Called(ctx, userID, messageID, senderName)
}

// MockEventPublisher Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// PublishSwipe mock push swipe event
func (m *MockEventPublisher) PublishSwipe(ctx context.Context, evt repository.SwipeEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
