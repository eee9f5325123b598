package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/logging"
	"github.com/2witstudios/pagespace/internal/server/repositories/repomanager"
	"github.com/2witstudios/pagespace/internal/server/tree"
)

// ObjectRemover deletes attachment objects from storage. Object storage sits
// outside the database transaction, so removal is best-effort after commit.
type ObjectRemover interface {
	RemoveObjects(ctx context.Context, keys []string) error
}

// TrashService owns the page state machine LIVE → TRASHED → DELETED. Every
// structural mutation runs inside a single transaction: either the whole
// subtree transition becomes visible or none of it does. Subtrees are walked
// level by level over ids rather than materialized, keeping the lock
// footprint to the rows actually touched.
type TrashService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	storage ObjectRemover
	logger  logging.Logger
}

func NewTrashService(db *sql.DB, m repomanager.RepositoryManager, storage ObjectRemover, logger logging.Logger) *TrashService {
	return &TrashService{db: db, repos: m, storage: storage, logger: logger}
}

// Trash soft-deletes a live page and all of its live descendants. Each node
// records its current parent in original_parent_id so a later restore of an
// ancestor can reattach separately-handled children. A page already in the
// trash is rejected before any mutation.
func (s *TrashService) Trash(ctx context.Context, pageID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Pages(tx)

		page, err := repo.GetByIDForUpdate(ctx, pageID)
		if err != nil {
			return err
		}
		if page.IsTrashed {
			return common.ErrorAlreadyTrashed
		}

		now := time.Now()
		queue := []string{page.ID}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			if err := repo.MarkTrashed(ctx, id, now); err != nil {
				return err
			}
			children, err := repo.ListChildIDsByTrashed(ctx, id, false)
			if err != nil {
				return err
			}
			queue = append(queue, children...)
		}
		return nil
	})
	return s.mapTxError(err)
}

// Restore reverses a soft delete. For each node, depth-first from the
// target: clear the trash flags, enqueue its trashed children, then reattach
// every page whose original_parent_id points at the node, recovering
// children orphaned by an earlier independent delete of their ancestor.
// Reattached pages keep their own trash state; only the backlink is
// consumed. A target that is not trashed is rejected before any mutation.
func (s *TrashService) Restore(ctx context.Context, pageID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Pages(tx)

		page, err := repo.GetByIDForUpdate(ctx, pageID)
		if err != nil {
			return err
		}
		if !page.IsTrashed {
			return common.ErrorNotTrashed
		}

		stack := []string{page.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if err := repo.MarkRestored(ctx, id); err != nil {
				return err
			}
			children, err := repo.ListChildIDsByTrashed(ctx, id, true)
			if err != nil {
				return err
			}
			stack = append(stack, children...)

			if _, err := repo.ReattachOrphans(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	return s.mapTxError(err)
}

// PermanentDelete removes a trashed page, its whole subtree, and every
// dependent row, children first so no reference to an already-deleted parent
// survives. Attachment objects are removed from storage after the
// transaction commits; storage failures are logged, never surfaced, since
// the rows are authoritative. Deleting an id that no longer exists is reported
// as not-found, not as an internal error.
func (s *TrashService) PermanentDelete(ctx context.Context, pageID string) error {
	var keys []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Pages(tx)
		attRepo := s.repos.Attachments(tx)

		page, err := repo.GetByIDForUpdate(ctx, pageID)
		if err != nil {
			return err
		}
		if !page.IsTrashed {
			return common.ErrorNotTrashed
		}

		// Collect subtree ids level by level, then delete deepest level
		// first: post-order without materializing page rows.
		levels := [][]string{{page.ID}}
		for {
			frontier := levels[len(levels)-1]
			next := make([]string, 0)
			for _, id := range frontier {
				children, err := repo.ListChildIDs(ctx, id)
				if err != nil {
					return err
				}
				next = append(next, children...)
			}
			if len(next) == 0 {
				break
			}
			levels = append(levels, next)
		}

		for i := len(levels) - 1; i >= 0; i-- {
			for _, id := range levels[i] {
				pageKeys, err := attRepo.ListKeysByPage(ctx, id)
				if err != nil {
					return err
				}
				keys = append(keys, pageKeys...)

				if err := repo.DeleteDependents(ctx, id); err != nil {
					return err
				}
				if err := repo.Delete(ctx, id); err != nil {
					return err
				}
				// Pages outside the subtree may still hold a backlink to this
				// id. original_parent_id is only meaningful while its target
				// exists, so consume those references in the same transaction.
				if err := repo.ClearBacklinks(ctx, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return s.mapTxError(err)
	}

	if len(keys) > 0 && s.storage != nil {
		if err := s.storage.RemoveObjects(ctx, keys); err != nil {
			s.logger.Warn(ctx, "failed to remove attachment objects", "count", len(keys), "error", err.Error())
		}
	}
	return nil
}

// ListDriveTrash returns the forest of trashed pages in a drive, for the
// trash view. Only the drive owner may see it; anyone else gets not-found,
// the same as an absent drive.
func (s *TrashService) ListDriveTrash(ctx context.Context, userID, driveID string) ([]*tree.Node, error) {
	drive, err := s.repos.Drives(s.db).GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if drive.OwnerID != userID {
		return nil, common.ErrorNotFound
	}

	trashed, err := s.repos.Pages(s.db).ListTrashedByDrive(ctx, driveID)
	if err != nil {
		return nil, err
	}
	return tree.Build(trashed), nil
}

// mapTxError converts store-level conflicts into the service taxonomy and
// passes everything else through.
func (s *TrashService) mapTxError(err error) error {
	if err == nil {
		return nil
	}
	if dbx.IsConflict(err) {
		return common.ErrorConflict
	}
	return err
}
