// Package attachments declares the repository contract for page attachment
// metadata. The binary payloads live in object storage.
package attachments

import (
	"context"

	"github.com/2witstudios/pagespace/internal/server/models"
)

type Repository interface {
	// Create inserts attachment metadata for an uploaded object.
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)

	// GetByID returns the attachment or a not-found error.
	GetByID(ctx context.Context, id string) (*models.Attachment, error)

	// ListKeysByPage returns the storage keys of every attachment on the
	// page, so permanent deletion can remove the objects after the
	// transaction commits.
	ListKeysByPage(ctx context.Context, pageID string) ([]string, error)
}
