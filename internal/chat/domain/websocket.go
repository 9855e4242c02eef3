package domain

import "fmt"

// EventType realtime event kind pushed through redis pub/sub
type EventType string

const (
	// EventMessage a new message landed in the room
	EventMessage EventType = "MESSAGE"
	// EventTyping the counterpart is typing
	EventTyping EventType = "TYPING"
	// EventReadReceipt the counterpart read messages
	EventReadReceipt EventType = "READ_RECEIPT"
	// EventMessageRecalled a message was recalled
	EventMessageRecalled EventType = "MESSAGE_RECALLED"
	// EventPresence a participant went online or offline
	EventPresence EventType = "PRESENCE"
)

// Event one fan-out payload. Publish is fire-and-forget; a lost event
// never fails the write that produced it.
type Event struct {
	Type      EventType              `json:"type"`
	RoomID    int64                  `json:"room_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// RoomChannel redis channel shared by both room participants
func RoomChannel(roomID int64) string {
	return fmt.Sprintf("chat:room:%d", roomID)
}

// UserChannel redis channel private to one user
func UserChannel(userID int64) string {
	return fmt.Sprintf("chat:user:%d", userID)
}

// Action websocket request action
type Action string

const (
	// EnterRoom websocket action enter_room
	EnterRoom Action = "enter_room"
	// LeaveRoom websocket action leave_room
	LeaveRoom Action = "leave_room"
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// Typing websocket action typing
	Typing Action = "typing"
	// ReadMessage websocket action read_message
	ReadMessage Action = "read_message"
	// RecallMessage websocket action recall_message
	RecallMessage Action = "recall_message"
)

// WSRequest websocket Request
type WSRequest struct {
	Action    string `json:"action"`
	RoomID    int64  `json:"room_id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url"`
	MessageID int64  `json:"message_id"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
