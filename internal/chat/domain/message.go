package domain

import (
	"fmt"
	"time"
)

// MessageType closed message kind enum
type MessageType string

const (
	// TypeText plain text message
	TypeText MessageType = "TEXT"
	// TypeEmoji emoji-only message, validated like text
	TypeEmoji MessageType = "EMOJI"
	// TypeImage image attachment message
	TypeImage MessageType = "IMAGE"
	// TypeAudio audio attachment message
	TypeAudio MessageType = "AUDIO"
	// TypeVideo video attachment message
	TypeVideo MessageType = "VIDEO"
	// TypeFile generic file attachment message
	TypeFile MessageType = "FILE"
	// TypeSystem server generated message, never accepted from clients
	TypeSystem MessageType = "SYSTEM"
)

// ParseMessageType reject any value outside the enum
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case TypeText, TypeEmoji, TypeImage, TypeAudio, TypeVideo, TypeFile, TypeSystem:
		return MessageType(s), nil
	}
	return "", fmt.Errorf("unknown message type %q", s)
}

// NeedsContent text-like types carry content and no attachment
func (t MessageType) NeedsContent() bool {
	return t == TypeText || t == TypeEmoji
}

// NeedsAttachment attachment types carry an image url
func (t MessageType) NeedsAttachment() bool {
	return t == TypeImage || t == TypeAudio || t == TypeVideo || t == TypeFile
}

// Message one chat message. IDs are bigserial, so per-room order is
// insertion order and the id doubles as the page cursor.
type Message struct {
	ID         int64       `gorm:"primaryKey" json:"id"`
	RoomID     int64       `gorm:"column:room_id;index" json:"room_id"`
	SenderID   int64       `gorm:"column:sender_id" json:"sender_id"`
	Type       MessageType `gorm:"column:message_type" json:"type"`
	Content    string      `gorm:"column:content" json:"content,omitempty"`
	ImageURL   string      `gorm:"column:image_url" json:"image_url,omitempty"`
	IsRead     bool        `gorm:"column:is_read" json:"is_read"`
	ReadAt     *time.Time  `gorm:"column:read_at" json:"read_at,omitempty"`
	Recalled   bool        `gorm:"column:recalled" json:"recalled"`
	RecalledAt *time.Time  `gorm:"column:recalled_at" json:"recalled_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName gorm table name
func (Message) TableName() string {
	return "messages"
}

// UserMessageVisibility marks one message hidden for one user.
// Pages anti-join against this table; rows are never removed.
type UserMessageVisibility struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_visibility_user_message"`
	MessageID int64     `gorm:"column:message_id;uniqueIndex:idx_visibility_user_message"`
	CreatedAt time.Time
}

// TableName gorm table name
func (UserMessageVisibility) TableName() string {
	return "user_message_visibilities"
}

// Direction closed paging direction enum
type Direction string

const (
	// DirectionNext older messages, descending ids
	DirectionNext Direction = "NEXT"
	// DirectionPrevious newer messages, ascending ids
	DirectionPrevious Direction = "PREVIOUS"
)

// ParseDirection reject any value outside the enum, empty means NEXT
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return DirectionNext, nil
	case DirectionNext, DirectionPrevious:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// MessagePage one page of visible messages plus both cursors.
// NextCursor is the oldest id in the page, PreviousCursor the newest;
// an empty page carries nil cursors and false flags.
type MessagePage struct {
	Messages       []Message `json:"messages"`
	NextCursor     *int64    `json:"next_cursor"`
	PreviousCursor *int64    `json:"previous_cursor"`
	HasNext        bool      `json:"has_next"`
	HasPrevious    bool      `json:"has_previous"`
}
