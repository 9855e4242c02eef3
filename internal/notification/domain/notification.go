package domain

// NotificationType definition notification kind
type NotificationType string

const (
	// TypeMatch sent to both users when a match is created
	TypeMatch NotificationType = "MATCH"
	// TypeMessage sent to the counterpart when a message arrives
	TypeMessage NotificationType = "MESSAGE"
)

// Notification one entry of a user's notification feed
type Notification struct {
	ID        string                 `bson:"_id,omitempty" json:"id"`
	UserID    int64                  `bson:"user_id" json:"user_id"`
	Type      NotificationType       `bson:"type" json:"type"`
	Title     string                 `bson:"title" json:"title"`
	Body      string                 `bson:"body" json:"body"`
	Data      map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	IsRead    bool                   `bson:"is_read" json:"is_read"`
	CreatedAt int64                  `bson:"created_at" json:"created_at"`
}
