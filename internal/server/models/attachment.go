package models

import "time"

// Attachment describes server-side metadata for a binary payload associated
// with a page. The content itself lives in object storage under StorageKey;
// permanent deletion of the page removes the object as well.
type Attachment struct {
	ID         string
	PageID     string
	FileName   string
	StorageKey string
	SizeBytes  int64
	CreatedAt  time.Time
}
