package drives

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, drive *models.Drive) (*models.Drive, error) {
	query := `
		INSERT INTO drives (owner_id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, drive.OwnerID, drive.Name, drive.Slug).
		Scan(&drive.ID, &drive.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return drive, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Drive, error) {
	query := `
		SELECT id, owner_id, name, slug, created_at FROM drives
		WHERE id = $1
	`
	drive := &models.Drive{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&drive.ID, &drive.OwnerID, &drive.Name, &drive.Slug, &drive.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return drive, nil
}
