package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/2witstudios/pagespace/internal/server/models"
	"github.com/2witstudios/pagespace/internal/server/repositories/repomanager"
)

// DriveService creates and looks up drives, the owned roots of page trees.
type DriveService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewDriveService(db *sql.DB, m repomanager.RepositoryManager) *DriveService {
	return &DriveService{db: db, repos: m}
}

// Create inserts a drive owned by ownerID. The slug is derived from the name
// and only has to be stable, not unique; lookups go by id.
func (s *DriveService) Create(ctx context.Context, ownerID, name string) (*models.Drive, error) {
	drive := &models.Drive{OwnerID: ownerID, Name: name, Slug: slugify(name)}
	return s.repos.Drives(s.db).Create(ctx, drive)
}

// Get returns the drive by id.
func (s *DriveService) Get(ctx context.Context, id string) (*models.Drive, error) {
	return s.repos.Drives(s.db).GetByID(ctx, id)
}

func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "drive"
	}
	return slug
}
