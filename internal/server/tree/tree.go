// Package tree converts flat page records into a parent→children forest.
// It is pure and has no dependencies beyond the models package.
package tree

import "github.com/2witstudios/pagespace/internal/server/models"

// Node wraps a page with its resolved children.
type Node struct {
	models.Page
	Children []*Node
}

// Build links a flat collection of pages into a forest. A page whose parent
// is absent from the input becomes a root, which is how partial inputs (for
// example only trashed pages) surface disjoint subtrees.
//
// Children keep the input order; callers are responsible for querying in
// position order.
func Build(pages []models.Page) []*Node {
	nodes := make(map[string]*Node, len(pages))
	for i := range pages {
		nodes[pages[i].ID] = &Node{Page: pages[i]}
	}

	roots := make([]*Node, 0)
	for i := range pages {
		node := nodes[pages[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}
