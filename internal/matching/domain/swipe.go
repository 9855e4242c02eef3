package domain

import "time"

// Swipe one recorded decision of initiator about target.
// The pair (initiator_id, target_id) is unique; a re-swipe inside the
// update window overwrites is_like instead of inserting a second row.
type Swipe struct {
	ID          int64
	InitiatorID int64
	TargetID    int64
	IsLike      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanUpdate report whether the decision may still be changed. The
// window is exclusive, a swipe exactly window old is already locked.
func (s *Swipe) CanUpdate(now time.Time, window time.Duration) bool {
	return now.Sub(s.CreatedAt) < window
}

// SwipeResult what the caller gets back after a swipe is recorded
type SwipeResult struct {
	SwipeID       int64  `json:"swipe_id"`
	IsMatch       bool   `json:"is_match"`
	MatchID       *int64 `json:"match_id,omitempty"`
	ChatRoomID    *int64 `json:"chat_room_id,omitempty"`
	MatchedUserID *int64 `json:"matched_user_id,omitempty"`
	MatchedName   string `json:"matched_username,omitempty"`
	Message       string `json:"message"`
}

// ReceivedLike a pending like waiting for the user's answer
type ReceivedLike struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	LikedAt  time.Time `json:"liked_at"`
}
