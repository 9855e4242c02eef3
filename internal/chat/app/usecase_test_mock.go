package app

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"dating_match_service/internal/chat/domain"
	userdomain "dating_match_service/internal/user/domain"
)

// MockRoomRepository Mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// GetOrCreate mock get or create room
func (m *MockRoomRepository) GetOrCreate(ctx context.Context, userA, userB int64) (*domain.ChatRoom, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID mock find room by id
func (m *MockRoomRepository) FindByID(ctx context.Context, id int64) (*domain.ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByUser mock list rooms by user
func (m *MockRoomRepository) FindByUser(ctx context.Context, userID int64) ([]domain.ChatRoom, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

// Deactivate mock deactivate room
func (m *MockRoomRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeactivateByPair mock deactivate room by pair
func (m *MockRoomRepository) DeactivateByPair(ctx context.Context, userA, userB int64) error {
	args := m.Called(ctx, userA, userB)
	return args.Error(0)
}

// Touch mock bump updated_at
func (m *MockRoomRepository) Touch(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create mock insert message
func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID mock find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindVisiblePage mock cursor page
func (m *MockMessageRepository) FindVisiblePage(ctx context.Context, roomID, viewerID int64, cursor *int64, limit int, dir domain.Direction) ([]domain.Message, error) {
	args := m.Called(ctx, roomID, viewerID, cursor, limit, dir)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock bulk read flag
func (m *MockMessageRepository) MarkRead(ctx context.Context, roomID, readerID int64, at time.Time) ([]int64, error) {
	args := m.Called(ctx, roomID, readerID, at)
	if args.Get(0) != nil {
		return args.Get(0).([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountUnread mock unread count
func (m *MockMessageRepository) CountUnread(ctx context.Context, roomID, readerID int64) (int64, error) {
	args := m.Called(ctx, roomID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// HideForUser mock per-user hide
func (m *MockMessageRepository) HideForUser(ctx context.Context, messageID, userID int64) error {
	args := m.Called(ctx, messageID, userID)
	return args.Error(0)
}

// Recall mock recall flag
func (m *MockMessageRepository) Recall(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// FindByImageURL mock find owning message
func (m *MockMessageRepository) FindByImageURL(ctx context.Context, imageURL string) (*domain.Message, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ClearImage mock drop attachment reference
func (m *MockMessageRepository) ClearImage(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPubSub Mock PubSub
type MockPubSub struct {
	mock.Mock
}

// Publish mock publish event
func (m *MockPubSub) Publish(channel string, event domain.Event) error {
	args := m.Called(channel, event)
	return args.Error(0)
}

// Subscribe mock subscribe channel
func (m *MockPubSub) Subscribe(ctx context.Context, channel string, handler func(evt domain.Event)) error {
	args := m.Called(ctx, channel, handler)
	return args.Error(0)
}

// MockPresenceRepository Mock PresenceRepository
type MockPresenceRepository struct {
	mock.Mock
}

// MarkOnline mock add to online set
func (m *MockPresenceRepository) MarkOnline(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MarkOffline mock remove from online set
func (m *MockPresenceRepository) MarkOffline(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// IsOnline mock membership query
func (m *MockPresenceRepository) IsOnline(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockFileStorage Mock FileStorage
type MockFileStorage struct {
	mock.Mock
}

// Store mock store object
func (m *MockFileStorage) Store(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

// Delete mock delete object
func (m *MockFileStorage) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
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
