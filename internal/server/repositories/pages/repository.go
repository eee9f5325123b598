// Package pages declares the repository contract for page rows and the
// structural queries the trash lifecycle runs level by level.
package pages

import (
	"context"
	"time"

	"github.com/2witstudios/pagespace/internal/server/models"
)

// Repository defines operations over page rows. Structural mutations are
// single-row or single-level on purpose: the trash lifecycle walks the store
// inside one transaction instead of materializing whole subtrees.
type Repository interface {
	// Create inserts a page with position = max(sibling positions)+1.
	Create(ctx context.Context, page *models.Page) (*models.Page, error)

	// GetByID returns the page or a not-found error.
	GetByID(ctx context.Context, id string) (*models.Page, error)

	// GetByIDForUpdate is GetByID with a row lock, so concurrent restore and
	// delete calls against overlapping subtrees serialize on the target.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Page, error)

	// ListChildIDs returns the ids of all direct children.
	ListChildIDs(ctx context.Context, parentID string) ([]string, error)

	// ListChildIDsByTrashed returns the ids of direct children filtered by
	// trash state.
	ListChildIDsByTrashed(ctx context.Context, parentID string, trashed bool) ([]string, error)

	// ListTrashedByDrive returns all trashed pages of a drive in position
	// order, for the trash-view forest.
	ListTrashedByDrive(ctx context.Context, driveID string) ([]models.Page, error)

	// MarkTrashed flags one page as trashed and records its current parent
	// in original_parent_id.
	MarkTrashed(ctx context.Context, id string, at time.Time) error

	// MarkRestored clears is_trashed, trashed_at, and original_parent_id.
	MarkRestored(ctx context.Context, id string) error

	// ReattachOrphans points every page whose original_parent_id equals
	// targetID back at the target and consumes the backlink. Returns the
	// number of reattached pages.
	ReattachOrphans(ctx context.Context, targetID string) (int64, error)

	// ClearBacklinks nulls original_parent_id on every page referencing
	// targetID, so permanent deletion leaves no backlink to a gone row.
	ClearBacklinks(ctx context.Context, targetID string) error

	// UpdateParent reparents a page. A nil parentID moves it to drive root.
	UpdateParent(ctx context.Context, id string, parentID *string) error

	// DeleteDependents removes all rows scoped to the page id in dependent
	// tables (permissions, favorites, tags, chat/channel messages, AI chats,
	// attachments).
	DeleteDependents(ctx context.Context, id string) error

	// Delete removes the page row itself. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id string) error
}
