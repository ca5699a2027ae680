package models

import "time"

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the caller resolved from a bearer credential.
type Identity struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}
