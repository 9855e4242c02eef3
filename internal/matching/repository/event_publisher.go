package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"dating_match_service/internal/matching/domain"
)

// SwipeEvent the record pushed onto the swipe-events topic for the
// downstream recommendation pipeline
type SwipeEvent struct {
	Event       string `json:"event"`
	SwipeID     int64  `json:"swipe_id"`
	InitiatorID int64  `json:"initiator_id"`
	TargetID    int64  `json:"target_id"`
	IsLike      bool   `json:"is_like"`
	MatchID     *int64 `json:"match_id,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// NewSwipeEvent build the event for a recorded swipe
func NewSwipeEvent(s *domain.Swipe, matchID *int64) SwipeEvent {
	event := "SWIPE"
	if matchID != nil {
		event = "MATCH"
	}
	return SwipeEvent{
		Event:       event,
		SwipeID:     s.ID,
		InitiatorID: s.InitiatorID,
		TargetID:    s.TargetID,
		IsLike:      s.IsLike,
		MatchID:     matchID,
		Timestamp:   s.UpdatedAt.Unix(),
	}
}

// EventPublisher definition swipe event stream
type EventPublisher interface {
	PublishSwipe(ctx context.Context, evt SwipeEvent) error
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher create an EventPublisher backed by kafka
func NewKafkaEventPublisher(writer *kafka.Writer) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

// PublishSwipe write one event, keyed by initiator so one user's
// swipes stay ordered within a partition
func (p *kafkaEventPublisher) PublishSwipe(ctx context.Context, evt SwipeEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.InitiatorID, 10)),
		Value: body,
	})
}
