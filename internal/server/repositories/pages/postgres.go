package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/server/models"
)

const pageColumns = `id, drive_id, parent_id, original_parent_id, title, type, position, is_trashed, trashed_at, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPage(row interface{ Scan(...any) error }, p *models.Page) error {
	return row.Scan(&p.ID, &p.DriveID, &p.ParentID, &p.OriginalParentID, &p.Title, &p.Type,
		&p.Position, &p.IsTrashed, &p.TrashedAt, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepository) Create(ctx context.Context, page *models.Page) (*models.Page, error) {
	// IS NOT DISTINCT FROM makes the sibling lookup treat NULL parents
	// (drive roots) as one group.
	query := `
		INSERT INTO pages (drive_id, parent_id, title, type, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM pages
			 WHERE drive_id = $1 AND parent_id IS NOT DISTINCT FROM $2))
		RETURNING id, position, is_trashed, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, page.DriveID, page.ParentID, page.Title, page.Type).
		Scan(&page.ID, &page.Position, &page.IsTrashed, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return page, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id string) (*models.Page, error) {
	page := &models.Page{}
	if err := scanPage(r.db.QueryRowContext(ctx, query, id), page); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return page, nil
}

func (r *PostgresRepository) ListChildIDs(ctx context.Context, parentID string) ([]string, error) {
	query := `
		SELECT id FROM pages
		WHERE parent_id = $1
		ORDER BY position
	`
	return r.listIDs(ctx, query, parentID)
}

func (r *PostgresRepository) ListChildIDsByTrashed(ctx context.Context, parentID string, trashed bool) ([]string, error) {
	query := `
		SELECT id FROM pages
		WHERE parent_id = $1 AND is_trashed = $2
		ORDER BY position
	`
	return r.listIDs(ctx, query, parentID, trashed)
}

func (r *PostgresRepository) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) ListTrashedByDrive(ctx context.Context, driveID string) ([]models.Page, error) {
	query := `
		SELECT ` + pageColumns + ` FROM pages
		WHERE drive_id = $1 AND is_trashed = TRUE
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, driveID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Page, 0)
	for rows.Next() {
		var p models.Page
		if err := scanPage(rows, &p); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) MarkTrashed(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE pages
		SET is_trashed = TRUE, trashed_at = $2, original_parent_id = parent_id, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkRestored(ctx context.Context, id string) error {
	query := `
		UPDATE pages
		SET is_trashed = FALSE, trashed_at = NULL, original_parent_id = NULL, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ReattachOrphans(ctx context.Context, targetID string) (int64, error) {
	query := `
		UPDATE pages
		SET parent_id = $1, original_parent_id = NULL, updated_at = now()
		WHERE original_parent_id = $1 AND id <> $1
	`
	res, err := r.db.ExecContext(ctx, query, targetID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ClearBacklinks(ctx context.Context, targetID string) error {
	query := `
		UPDATE pages
		SET original_parent_id = NULL, updated_at = now()
		WHERE original_parent_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, targetID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	query := `
		UPDATE pages
		SET parent_id = $2, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, parentID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// dependentTables lists every table holding rows scoped to a page id, in the
// order they are cleaned up before the page row itself is removed.
var dependentTables = []string{
	"permissions",
	"favorites",
	"page_tags",
	"chat_messages",
	"channel_messages",
	"ai_chats",
	"attachments",
}

func (r *PostgresRepository) DeleteDependents(ctx context.Context, id string) error {
	for _, table := range dependentTables {
		query := `DELETE FROM ` + table + ` WHERE page_id = $1`
		if _, err := r.db.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM pages WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
