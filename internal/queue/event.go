// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published when an account is successfully created.
// It contains enough information for downstream consumers to log or notify
// without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}
