package domain

import (
	"fmt"
	"time"
)

// MatchStatus closed match state enum
type MatchStatus string

const (
	// MatchActive both users still see the match and its room
	MatchActive MatchStatus = "active"
	// MatchUnmatched one side ended the match; the row stays for history
	MatchUnmatched MatchStatus = "unmatched"
)

// ParseMatchStatus reject any value outside the enum
func ParseMatchStatus(s string) (MatchStatus, error) {
	switch MatchStatus(s) {
	case MatchActive, MatchUnmatched:
		return MatchStatus(s), nil
	}
	return "", fmt.Errorf("unknown match status %q", s)
}

// Match a mutual like between two users.
// UserAID is always the lower id; every read and write goes through
// that canonical ordering so one pair can never produce two rows.
type Match struct {
	ID        int64
	UserAID   int64
	UserBID   int64
	Status    MatchStatus
	MatchedAt time.Time
	UpdatedAt time.Time
}

// HasUser report whether id is one of the two participants
func (m *Match) HasUser(id int64) bool {
	return m.UserAID == id || m.UserBID == id
}

// Counterpart the other participant's id
func (m *Match) Counterpart(id int64) int64 {
	if m.UserAID == id {
		return m.UserBID
	}
	return m.UserAID
}

// MatchView a match joined with the counterpart's profile
type MatchView struct {
	MatchID    int64     `json:"match_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	ChatRoomID int64     `json:"chat_room_id"`
	MatchedAt  time.Time `json:"matched_at"`
}
