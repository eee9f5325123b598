package services

import (
	"context"
	"database/sql"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/server/models"
	"github.com/2witstudios/pagespace/internal/server/repositories/repomanager"
)

// Presigner mints temporary URLs against the object storage backend.
type Presigner interface {
	PresignedPutURL(ctx context.Context) (key string, url string, err error)
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

// FileService manages attachment metadata and hands out presigned URLs for
// the payloads, which never pass through this server.
type FileService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	storage Presigner
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, storage Presigner) *FileService {
	return &FileService{db: db, repos: m, storage: storage}
}

// RegisterUpload allocates a storage key for a new attachment on a live
// page, records the metadata row, and returns a presigned PUT URL the client
// uploads the payload to.
func (s *FileService) RegisterUpload(ctx context.Context, pageID, fileName string, sizeBytes int64) (*models.Attachment, string, error) {
	page, err := s.repos.Pages(s.db).GetByID(ctx, pageID)
	if err != nil {
		return nil, "", err
	}
	if page.IsTrashed {
		return nil, "", common.ErrorAlreadyTrashed
	}

	key, url, err := s.storage.PresignedPutURL(ctx)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	att, err := s.repos.Attachments(s.db).Create(ctx, &models.Attachment{
		PageID:     pageID,
		FileName:   fileName,
		StorageKey: key,
		SizeBytes:  sizeBytes,
	})
	if err != nil {
		return nil, "", err
	}
	return att, url, nil
}

// Get returns attachment metadata by id.
func (s *FileService) Get(ctx context.Context, id string) (*models.Attachment, error) {
	return s.repos.Attachments(s.db).GetByID(ctx, id)
}

// DownloadURL returns a presigned GET URL for the attachment's object.
func (s *FileService) DownloadURL(ctx context.Context, att *models.Attachment) (string, error) {
	url, err := s.storage.PresignedGetURL(ctx, att.StorageKey)
	if err != nil {
		return "", common.ErrorInternal
	}
	return url, nil
}
