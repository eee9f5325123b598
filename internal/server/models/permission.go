package models

import "time"

// Permission subject kinds as stored in permissions.subject_type.
const (
	SubjectUser  = "user"
	SubjectGroup = "group"
)

// Permission is an explicit grant of an access level to a user or group on a
// page. An explicit grant at a descendant may only raise the level inherited
// from an ancestor, never lower it.
type Permission struct {
	ID          string
	PageID      string
	SubjectType string
	SubjectID   string
	Level       AccessLevel
	CreatedAt   time.Time
}

// GroupMembership joins a user to a group. Grants held by the group apply to
// all of its members.
type GroupMembership struct {
	GroupID   string
	UserID    string
	CreatedAt time.Time
}
