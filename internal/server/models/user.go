// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	// TokenVersion is a monotonic counter. Incrementing it invalidates every
	// outstanding access token for this user without a blocklist.
	TokenVersion int64
	CreatedAt    time.Time
}
