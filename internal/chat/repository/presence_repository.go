package repository

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// onlineUsersKey the shared online-user set. Entries live only as long
// as a websocket connection; nothing here is a durable record.
const onlineUsersKey = "chat:online_users"

// PresenceRepository definition online-user set
type PresenceRepository interface {
	MarkOnline(ctx context.Context, userID int64) error
	MarkOffline(ctx context.Context, userID int64) error
	IsOnline(ctx context.Context, userID int64) (bool, error)
}

type presenceRepository struct {
	client *redis.Client
}

// NewPresenceRepository create a PresenceRepository
func NewPresenceRepository(client *redis.Client) PresenceRepository {
	return &presenceRepository{client: client}
}

func (r *presenceRepository) MarkOnline(ctx context.Context, userID int64) error {
	return r.client.SAdd(ctx, onlineUsersKey, strconv.FormatInt(userID, 10)).Err()
}

func (r *presenceRepository) MarkOffline(ctx context.Context, userID int64) error {
	return r.client.SRem(ctx, onlineUsersKey, strconv.FormatInt(userID, 10)).Err()
}

func (r *presenceRepository) IsOnline(ctx context.Context, userID int64) (bool, error) {
	return r.client.SIsMember(ctx, onlineUsersKey, strconv.FormatInt(userID, 10)).Result()
}
