package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/pkg/database"
	"dating_match_service/pkg/logger"
	testtool "dating_match_service/pkg/test_tool"
)

var (
	testDB     *gorm.DB
	testPubSub *RedisPubSub
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	logger.Log = logger.NewNop()

	postgresContainer, pgHost, pgPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "chat_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	})
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:latest",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	if err != nil {
		log.Fatalf("failed to start redis container: %v", err)
	}

	testDB, err = database.NewGormConnection(database.Connection{
		ConnectStr:    fmt.Sprintf("postgres://test:test@%s:%s/chat_test", pgHost, pgPort),
		RetryCount:    10,
		RetryInterval: 2,
	})
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	if err := testDB.AutoMigrate(&domain.ChatRoom{}, &domain.Message{}, &domain.UserMessageVisibility{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	redisClient, err := database.NewRedisSingleClient(fmt.Sprintf("%s:%s", redisHost, redisPort), 0)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	testPubSub = NewRedisPubSub(redisClient)

	code := m.Run()

	postgresContainer.Terminate(ctx)
	redisContainer.Terminate(ctx)
	os.Exit(code)
}

func TestRoomRepository_GetOrCreate_Reactivates(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository(testDB)

	room, err := repo.GetOrCreate(ctx, 12, 11)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), room.UserAID)
	assert.Equal(t, int64(12), room.UserBID)
	assert.True(t, room.IsActive)

	// same room in either argument order
	same, err := repo.GetOrCreate(ctx, 11, 12)
	assert.NoError(t, err)
	assert.Equal(t, room.ID, same.ID)

	assert.NoError(t, repo.Deactivate(ctx, room.ID))
	back, err := repo.GetOrCreate(ctx, 12, 11)
	assert.NoError(t, err)
	assert.Equal(t, room.ID, back.ID)
	assert.True(t, back.IsActive)
}

func TestMessageRepository_PaginationWalk(t *testing.T) {
	ctx := context.Background()
	roomRepo := NewRoomRepository(testDB)
	msgRepo := NewMessageRepository(testDB)

	room, err := roomRepo.GetOrCreate(ctx, 21, 22)
	assert.NoError(t, err)

	var inserted []int64
	for i := 0; i < 25; i++ {
		m := &domain.Message{RoomID: room.ID, SenderID: 21, Type: domain.TypeText, Content: fmt.Sprintf("m%d", i)}
		assert.NoError(t, msgRepo.Create(ctx, m))
		inserted = append(inserted, m.ID)
	}

	// walk NEXT pages from the newest, every message seen exactly once
	// in descending id order
	seen := map[int64]bool{}
	var cursor *int64
	var lastID int64
	for {
		limit := 10
		page, err := msgRepo.FindVisiblePage(ctx, room.ID, 22, cursor, limit+1, domain.DirectionNext)
		assert.NoError(t, err)
		more := len(page) > limit
		if more {
			page = page[:limit]
		}
		for _, m := range page {
			assert.False(t, seen[m.ID])
			if lastID != 0 {
				assert.Less(t, m.ID, lastID)
			}
			seen[m.ID] = true
			lastID = m.ID
		}
		if !more {
			break
		}
		oldest := page[len(page)-1].ID
		cursor = &oldest
	}
	assert.Len(t, seen, len(inserted))
}

func TestMessageRepository_VisibilityIsolation(t *testing.T) {
	ctx := context.Background()
	roomRepo := NewRoomRepository(testDB)
	msgRepo := NewMessageRepository(testDB)

	room, err := roomRepo.GetOrCreate(ctx, 31, 32)
	assert.NoError(t, err)

	m := &domain.Message{RoomID: room.ID, SenderID: 31, Type: domain.TypeText, Content: "secret"}
	assert.NoError(t, msgRepo.Create(ctx, m))

	assert.NoError(t, msgRepo.HideForUser(ctx, m.ID, 32))
	// repeated hide is a no-op
	assert.NoError(t, msgRepo.HideForUser(ctx, m.ID, 32))

	hiddenPage, err := msgRepo.FindVisiblePage(ctx, room.ID, 32, nil, 10, domain.DirectionNext)
	assert.NoError(t, err)
	for _, msg := range hiddenPage {
		assert.NotEqual(t, m.ID, msg.ID)
	}

	visiblePage, err := msgRepo.FindVisiblePage(ctx, room.ID, 31, nil, 10, domain.DirectionNext)
	assert.NoError(t, err)
	found := false
	for _, msg := range visiblePage {
		if msg.ID == m.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMessageRepository_MarkReadAndUnreadCount(t *testing.T) {
	ctx := context.Background()
	roomRepo := NewRoomRepository(testDB)
	msgRepo := NewMessageRepository(testDB)

	room, err := roomRepo.GetOrCreate(ctx, 41, 42)
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.NoError(t, msgRepo.Create(ctx, &domain.Message{
			RoomID: room.ID, SenderID: 41, Type: domain.TypeText, Content: "hi",
		}))
	}

	count, err := msgRepo.CountUnread(ctx, room.ID, 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// the sender's own messages are not their unread
	count, err = msgRepo.CountUnread(ctx, room.ID, 41)
	assert.NoError(t, err)
	assert.Zero(t, count)

	readAt := time.Now().UTC()
	ids, err := msgRepo.MarkRead(ctx, room.ID, 42, readAt)
	assert.NoError(t, err)
	assert.Len(t, ids, 3)

	// the read timestamp lands on every flagged row
	for _, id := range ids {
		m, err := msgRepo.FindByID(ctx, id)
		assert.NoError(t, err)
		assert.True(t, m.IsRead)
		if assert.NotNil(t, m.ReadAt) {
			assert.WithinDuration(t, readAt, *m.ReadAt, time.Second)
		}
	}

	count, err = msgRepo.CountUnread(ctx, room.ID, 42)
	assert.NoError(t, err)
	assert.Zero(t, count)

	again, err := msgRepo.MarkRead(ctx, room.ID, 42, time.Now().UTC())
	assert.NoError(t, err)
	assert.Empty(t, again)
}

func TestRedisPubSub_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan domain.Event, 1)
	err := testPubSub.Subscribe(ctx, domain.RoomChannel(999), func(evt domain.Event) {
		received <- evt
	})
	assert.NoError(t, err)

	// give the subscriber a moment to attach
	time.Sleep(200 * time.Millisecond)

	sent := domain.Event{
		Type:      domain.EventTyping,
		RoomID:    999,
		Payload:   map[string]interface{}{"user_id": float64(7)},
		Timestamp: time.Now().Unix(),
	}
	assert.NoError(t, testPubSub.Publish(domain.RoomChannel(999), sent))

	select {
	case evt := <-received:
		assert.Equal(t, domain.EventTyping, evt.Type)
		assert.Equal(t, int64(999), evt.RoomID)
	case <-time.After(3 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisPubSub_SubscribeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	received := make(chan domain.Event, 1)
	err := testPubSub.Subscribe(ctx, domain.RoomChannel(998), func(evt domain.Event) {
		received <- evt
	})
	assert.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	cancel()
	time.Sleep(200 * time.Millisecond)

	// nothing reaches the handler once the subscription is torn down
	assert.NoError(t, testPubSub.Publish(domain.RoomChannel(998), domain.Event{
		Type:      domain.EventTyping,
		RoomID:    998,
		Timestamp: time.Now().Unix(),
	}))
	select {
	case <-received:
		t.Fatal("handler invoked after cancel")
	case <-time.After(500 * time.Millisecond):
	}
}
