package httpapi

import (
	"time"

	"github.com/2witstudios/pagespace/internal/server/models"
	"github.com/2witstudios/pagespace/internal/server/tree"
)

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type driveJSON struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
}

type pageJSON struct {
	ID        string     `json:"id"`
	DriveID   string     `json:"driveId"`
	ParentID  *string    `json:"parentId"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Position  int        `json:"position"`
	IsTrashed bool       `json:"isTrashed"`
	TrashedAt *time.Time `json:"trashedAt,omitempty"`
}

type nodeJSON struct {
	pageJSON
	Children []nodeJSON `json:"children"`
}

type attachmentJSON struct {
	ID        string `json:"id"`
	PageID    string `json:"pageId"`
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes"`
}

func toPageJSON(p models.Page) pageJSON {
	return pageJSON{
		ID:        p.ID,
		DriveID:   p.DriveID,
		ParentID:  p.ParentID,
		Title:     p.Title,
		Type:      p.Type,
		Position:  p.Position,
		IsTrashed: p.IsTrashed,
		TrashedAt: p.TrashedAt,
	}
}

func toNodeJSON(n *tree.Node) nodeJSON {
	out := nodeJSON{pageJSON: toPageJSON(n.Page), Children: make([]nodeJSON, 0, len(n.Children))}
	for _, child := range n.Children {
		out.Children = append(out.Children, toNodeJSON(child))
	}
	return out
}

func toForestJSON(forest []*tree.Node) []nodeJSON {
	out := make([]nodeJSON, 0, len(forest))
	for _, n := range forest {
		out = append(out, toNodeJSON(n))
	}
	return out
}

func toAttachmentJSON(a *models.Attachment) attachmentJSON {
	return attachmentJSON{ID: a.ID, PageID: a.PageID, FileName: a.FileName, SizeBytes: a.SizeBytes}
}
