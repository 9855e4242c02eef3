package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/pkg/logger"
)

// PubSub definition realtime event bus
type PubSub interface {
	Publish(channel string, event domain.Event) error
	Subscribe(ctx context.Context, channel string, handler func(evt domain.Event)) error
}

// RedisPubSub redis backed event bus
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish serialize the event and push it to the channel
func (r *RedisPubSub) Publish(channel string, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe listen on the channel until ctx is cancelled, handing each
// decoded event to handler
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(evt domain.Event)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				var evt domain.Event
				if err := json.Unmarshal([]byte(m.Payload), &evt); err != nil {
					logger.Log.Errorf("event unmarshal failed:", err)
					continue
				}
				handler(evt)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
				return
			}
		}
	}()
	return nil
}
