package models

import "time"

// Drive is an owned container for a page tree. The owner is the sole
// root-level authority: ownership resolves to the maximum access level on
// every page of the drive.
type Drive struct {
	ID        string
	OwnerID   string
	Name      string
	Slug      string
	CreatedAt time.Time
}
