package models

import "time"

// Page types as stored in the pages.type column.
const (
	PageTypeDocument = "document"
	PageTypeFolder   = "folder"
	PageTypeChannel  = "channel"
	PageTypeAIChat   = "ai_chat"
)

// Page is a node in a per-drive tree.
//
// ParentID is nil for drive-root pages. OriginalParentID is set only while
// the page is trashed and records the pre-trash parent so that restoring an
// ancestor can reattach separately-trashed children. A non-trashed page never
// hangs under a trashed parent; the trash and restore cascades maintain that
// procedurally.
type Page struct {
	ID               string
	DriveID          string
	ParentID         *string
	OriginalParentID *string
	Title            string
	Type             string
	Position         int
	IsTrashed        bool
	TrashedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
