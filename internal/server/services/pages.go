package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/server/models"
	"github.com/2witstudios/pagespace/internal/server/repositories/repomanager"
)

// PageService covers page creation, reparenting, and ancestry lookups. The
// trash lifecycle lives in TrashService.
type PageService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewPageService(db *sql.DB, m repomanager.RepositoryManager) *PageService {
	return &PageService{db: db, repos: m}
}

// Create inserts a page at the end of its sibling list (position = max+1).
// A non-nil parent must be a live page in the same drive.
func (s *PageService) Create(ctx context.Context, driveID string, parentID *string, title, pageType string) (*models.Page, error) {
	repo := s.repos.Pages(s.db)

	if parentID != nil {
		parent, err := repo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.DriveID != driveID || parent.IsTrashed {
			return nil, common.ErrorNotFound
		}
	}

	page := &models.Page{DriveID: driveID, ParentID: parentID, Title: title, Type: pageType}
	return repo.Create(ctx, page)
}

// Move reparents a live page. The new parent must be a live page in the same
// drive, and must not be the page itself or one of its descendants. The
// ancestor walk runs inside the same transaction that locks the page, so a
// concurrent move cannot sneak a cycle in.
func (s *PageService) Move(ctx context.Context, pageID string, newParentID *string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Pages(tx)

		page, err := repo.GetByIDForUpdate(ctx, pageID)
		if err != nil {
			return err
		}
		if page.IsTrashed {
			return common.ErrorAlreadyTrashed
		}

		if newParentID != nil {
			if *newParentID == pageID {
				return common.ErrorConflict
			}
			parent, err := repo.GetByID(ctx, *newParentID)
			if err != nil {
				return err
			}
			if parent.DriveID != page.DriveID || parent.IsTrashed {
				return common.ErrorNotFound
			}

			// Walk up from the new parent; hitting the page means the
			// target is inside its own subtree.
			current := parent
			for current.ParentID != nil {
				if *current.ParentID == pageID {
					return common.ErrorConflict
				}
				current, err = repo.GetByID(ctx, *current.ParentID)
				if err != nil {
					if errors.Is(err, common.ErrorNotFound) {
						break
					}
					return err
				}
			}
		}

		return repo.UpdateParent(ctx, pageID, newParentID)
	})
	if err != nil && dbx.IsConflict(err) {
		return common.ErrorConflict
	}
	return err
}

// Breadcrumbs returns the page's ancestor chain ordered root→leaf,
// including the page itself.
func (s *PageService) Breadcrumbs(ctx context.Context, pageID string) ([]models.Page, error) {
	repo := s.repos.Pages(s.db)

	chain := make([]models.Page, 0)
	page, err := repo.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	chain = append(chain, *page)

	for page.ParentID != nil {
		page, err = repo.GetByID(ctx, *page.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				break
			}
			return nil, err
		}
		chain = append(chain, *page)
	}

	// walked leaf→root, flip
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
