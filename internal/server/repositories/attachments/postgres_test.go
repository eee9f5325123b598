package attachments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+attachments\b.*RETURNING\s+id,\s*created_at`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("p1", "report.pdf", "attachments/2026/8/29/k1", int64(2048)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("a1", now))

	got, err := repo.Create(context.Background(), &models.Attachment{
		PageID: "p1", FileName: "report.pdf", StorageKey: "attachments/2026/8/29/k1", SizeBytes: 2048,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "a1" {
		t.Fatalf("unexpected attachment: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+attachments`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListKeysByPage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+storage_key\s+FROM\s+attachments\s+WHERE\s+page_id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("k1").AddRow("k2"))

	keys, err := repo.ListKeysByPage(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Fatalf("keys = %v", keys)
	}
}

func TestListKeysByPage_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+storage_key\s+FROM\s+attachments`).
		WithArgs("p2").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}))

	keys, err := repo.ListKeysByPage(context.Background(), "p2")
	if err != nil || len(keys) != 0 {
		t.Fatalf("got (%v, %v), want empty", keys, err)
	}
}
