// Package drives declares the repository contract for drives, the owned
// top-level containers of page trees.
package drives

import (
	"context"

	"github.com/2witstudios/pagespace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, drive *models.Drive) (*models.Drive, error)
	GetByID(ctx context.Context, id string) (*models.Drive, error)
}
