package models

// AccessLevel is a position in a fixed precedence order determining what a
// user may do to a page. Higher levels include lower ones.
type AccessLevel string

const (
	AccessNone    AccessLevel = "none"
	AccessView    AccessLevel = "view"
	AccessComment AccessLevel = "comment"
	AccessEdit    AccessLevel = "edit"
	AccessOwner   AccessLevel = "owner"
)

// accessOrder is the load-bearing precedence order. Comparisons go through
// Index so the "maximum across inherited/explicit/group" rule is a single
// well-defined operation.
var accessOrder = []AccessLevel{AccessNone, AccessView, AccessComment, AccessEdit, AccessOwner}

// Index returns the level's position in the precedence order, or -1 for an
// unknown level.
func (l AccessLevel) Index() int {
	for i, level := range accessOrder {
		if l == level {
			return i
		}
	}
	return -1
}

func (l AccessLevel) Valid() bool {
	return l.Index() >= 0
}

// AtLeast reports whether l grants everything required does.
func (l AccessLevel) AtLeast(required AccessLevel) bool {
	return l.Index() >= required.Index()
}

// MaxAccessLevel returns the higher of the two levels.
func MaxAccessLevel(a, b AccessLevel) AccessLevel {
	if b.Index() > a.Index() {
		return b
	}
	return a
}
