package events

import "time"

// Event types
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEventsStream is the Redis stream user lifecycle events are published to.
// Downstream services (loan handling, penalties) consume it.
const UserEventsStream = "user.events"

// Event is the envelope every published event is wrapped in.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"isAdmin"`
}

type UserUpdatedEvent struct {
	UserID       string `json:"userId"`
	Nickname     string `json:"nickname"`
	Name         string `json:"name"`
	PenaltyPoint int    `json:"penaltyPoint"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}
