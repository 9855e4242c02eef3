package domain

import "time"

// ChatRoom one 1-on-1 room backing a match.
// UserAID is always the lower id so a pair maps to exactly one row.
// An unmatched pair leaves the room inactive; a re-match reactivates
// the same row and its history.
type ChatRoom struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserAID   int64     `gorm:"column:user_a_id;uniqueIndex:idx_chat_rooms_pair" json:"user_a_id"`
	UserBID   int64     `gorm:"column:user_b_id;uniqueIndex:idx_chat_rooms_pair" json:"user_b_id"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName gorm table name
func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// HasUser report whether id is one of the two participants
func (r *ChatRoom) HasUser(id int64) bool {
	return r.UserAID == id || r.UserBID == id
}

// Counterpart the other participant's id
func (r *ChatRoom) Counterpart(id int64) int64 {
	if r.UserAID == id {
		return r.UserBID
	}
	return r.UserAID
}

// RoomView a room joined with the counterpart's profile and unread state
type RoomView struct {
	RoomID      int64     `json:"room_id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	IsOnline    bool      `json:"is_online"`
	UnreadCount int64     `json:"unread_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}
