// Package users declares the server-side repository contract for user
// accounts.
package users

import (
	"context"

	"github.com/2witstudios/pagespace/internal/server/models"
)

// Repository defines operations over user rows.
type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email. Absent users yield a not-found error.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by id. Absent users yield a not-found error.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, userID string, hash string) error

	// IncrementTokenVersion bumps the user's token version and returns the
	// new value. Every previously issued access token becomes invalid.
	IncrementTokenVersion(ctx context.Context, userID string) (int64, error)
}
