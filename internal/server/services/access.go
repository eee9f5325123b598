package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/server/models"
	"github.com/2witstudios/pagespace/internal/server/repositories/repomanager"
)

// AccessService computes a user's effective access level on a page by
// walking ownership, explicit grants, group grants, and tree inheritance.
type AccessService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewAccessService(db *sql.DB, m repomanager.RepositoryManager) *AccessService {
	return &AccessService{db: db, repos: m}
}

// ResolveAccessLevel returns the user's effective level on the page.
//
// Resolution order:
//  1. The drive owner holds AccessOwner unconditionally.
//  2. Explicit grants to the user, or to any group the user belongs to,
//     on the page or any of its ancestors; the maximum wins. A descendant
//     grant can only raise an inherited level, never lower it.
//
// ok is false when the user has no grant on any ancestor at all: no
// relationship, distinct from an explicit "none" grant. A trashed ancestor
// does not mask inheritance: trash is a parallel flag, and restore itself
// must be authorizable against trashed targets.
func (s *AccessService) ResolveAccessLevel(ctx context.Context, userID, pageID string) (models.AccessLevel, bool, error) {
	pagesRepo := s.repos.Pages(s.db)

	page, err := pagesRepo.GetByID(ctx, pageID)
	if err != nil {
		return "", false, err
	}

	drive, err := s.repos.Drives(s.db).GetByID(ctx, page.DriveID)
	if err != nil {
		return "", false, err
	}
	if drive.OwnerID == userID {
		return models.AccessOwner, true, nil
	}

	permsRepo := s.repos.Permissions(s.db)
	groupIDs, err := permsRepo.ListGroupIDsForUser(ctx, userID)
	if err != nil {
		return "", false, err
	}
	memberOf := make(map[string]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		memberOf[id] = struct{}{}
	}

	var best models.AccessLevel
	found := false

	current := page
	for {
		grants, err := permsRepo.ListForPage(ctx, current.ID)
		if err != nil {
			return "", false, err
		}
		for _, grant := range grants {
			applies := (grant.SubjectType == models.SubjectUser && grant.SubjectID == userID)
			if !applies && grant.SubjectType == models.SubjectGroup {
				_, applies = memberOf[grant.SubjectID]
			}
			if applies {
				found = true
				best = models.MaxAccessLevel(best, grant.Level)
			}
		}

		if current.ParentID == nil {
			break
		}
		parent, err := pagesRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				break
			}
			return "", false, err
		}
		current = parent
	}

	if !found {
		return "", false, nil
	}
	return best, true, nil
}

// RequireAtLeast authorizes the user against a required level. It returns
// nil when authorized, ErrorForbidden when the resolved level is absent or
// insufficient, and passes repository errors (including not-found for the
// page itself) through unchanged.
func (s *AccessService) RequireAtLeast(ctx context.Context, userID, pageID string, required models.AccessLevel) error {
	level, ok, err := s.ResolveAccessLevel(ctx, userID, pageID)
	if err != nil {
		return err
	}
	if !ok || !level.AtLeast(required) {
		return common.ErrorForbidden
	}
	return nil
}

// RequireDriveOwner authorizes drive-scoped operations that have no page to
// anchor on, like creating root pages or viewing the drive trash.
func (s *AccessService) RequireDriveOwner(ctx context.Context, userID, driveID string) error {
	drive, err := s.repos.Drives(s.db).GetByID(ctx, driveID)
	if err != nil {
		return err
	}
	if drive.OwnerID != userID {
		return common.ErrorForbidden
	}
	return nil
}

// Grant records an explicit grant on a page. Only a holder of owner level on
// the page may grant.
func (s *AccessService) Grant(ctx context.Context, grantorID string, perm *models.Permission) (*models.Permission, error) {
	if err := s.RequireAtLeast(ctx, grantorID, perm.PageID, models.AccessOwner); err != nil {
		return nil, err
	}
	return s.repos.Permissions(s.db).Create(ctx, perm)
}

// Revoke removes a grant from a page, with the same authority as Grant.
func (s *AccessService) Revoke(ctx context.Context, grantorID, pageID, permissionID string) error {
	if err := s.RequireAtLeast(ctx, grantorID, pageID, models.AccessOwner); err != nil {
		return err
	}
	return s.repos.Permissions(s.db).Delete(ctx, permissionID)
}
