package domain

import "time"

// User identity record, owned by the external user module.
// The core only reads it; nothing here ever writes back.
type User struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

// UserQuery dynamic query user condition
type UserQuery struct {
	ID    *int64
	Email *string
}
