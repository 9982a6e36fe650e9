package events

import "time"

// Event types
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEventsStream is the Redis stream user lifecycle events are appended to.
const UserEventsStream = "user.events"

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Gender   string `json:"gender"`
}

// UserUpdatedEvent lists only the fields the update touched.
type UserUpdatedEvent struct {
	UserID        int64    `json:"userId"`
	ChangedFields []string `json:"changedFields"`
}

type UserDeletedEvent struct {
	UserID int64 `json:"userId"`
}
