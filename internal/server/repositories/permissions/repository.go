// Package permissions declares the repository contract for explicit access
// grants and group membership lookups used by the permission resolver.
package permissions

import (
	"context"

	"github.com/2witstudios/pagespace/internal/server/models"
)

type Repository interface {
	// Create inserts an explicit grant.
	Create(ctx context.Context, perm *models.Permission) (*models.Permission, error)

	// Delete removes a grant by id. Deleting an absent grant is not an error.
	Delete(ctx context.Context, id string) error

	// ListForPage returns every grant attached directly to the page.
	ListForPage(ctx context.Context, pageID string) ([]models.Permission, error)

	// ListGroupIDsForUser returns the ids of all groups the user belongs to.
	ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error)
}
