package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/2witstudios/pagespace/internal/common"
	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/logging"
	"github.com/2witstudios/pagespace/internal/server/models"
	attachmentsrepo "github.com/2witstudios/pagespace/internal/server/repositories/attachments"
	drivesrepo "github.com/2witstudios/pagespace/internal/server/repositories/drives"
	pagesrepo "github.com/2witstudios/pagespace/internal/server/repositories/pages"
	permissionsrepo "github.com/2witstudios/pagespace/internal/server/repositories/permissions"
	refreshtokensrepo "github.com/2witstudios/pagespace/internal/server/repositories/refreshtokens"
	usersrepo "github.com/2witstudios/pagespace/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func strptr(s string) *string { return &s }

// fakePageStore keeps page rows in memory and mirrors the SQL semantics of
// the postgres repository closely enough for service-level tests: MarkTrashed
// records the current parent, ReattachOrphans consumes the backlink, Delete
// tolerates absent ids.
type fakePageStore struct {
	pages map[string]*models.Page

	deleteOrder     []string
	dependentsOrder []string
	mutations       int
}

func newFakePageStore() *fakePageStore {
	return &fakePageStore{pages: map[string]*models.Page{}}
}

func (f *fakePageStore) add(p *models.Page) *models.Page {
	cp := *p
	f.pages[cp.ID] = &cp
	return &cp
}

func (f *fakePageStore) sortedIDs() []string {
	ids := make([]string, 0, len(f.pages))
	for id := range f.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakePageStore) Create(ctx context.Context, page *models.Page) (*models.Page, error) {
	page.ID = "p" + time.Now().Format("150405.000000000")
	max := -1
	for _, p := range f.pages {
		sameParent := (p.ParentID == nil && page.ParentID == nil) ||
			(p.ParentID != nil && page.ParentID != nil && *p.ParentID == *page.ParentID)
		if p.DriveID == page.DriveID && sameParent && p.Position > max {
			max = p.Position
		}
	}
	page.Position = max + 1
	f.add(page)
	return page, nil
}

func (f *fakePageStore) GetByID(ctx context.Context, id string) (*models.Page, error) {
	p, ok := f.pages[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePageStore) GetByIDForUpdate(ctx context.Context, id string) (*models.Page, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePageStore) ListChildIDs(ctx context.Context, parentID string) ([]string, error) {
	var ids []string
	for _, id := range f.sortedIDs() {
		p := f.pages[id]
		if p.ParentID != nil && *p.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakePageStore) ListChildIDsByTrashed(ctx context.Context, parentID string, trashed bool) ([]string, error) {
	var ids []string
	for _, id := range f.sortedIDs() {
		p := f.pages[id]
		if p.ParentID != nil && *p.ParentID == parentID && p.IsTrashed == trashed {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakePageStore) ListTrashedByDrive(ctx context.Context, driveID string) ([]models.Page, error) {
	var out []models.Page
	for _, id := range f.sortedIDs() {
		p := f.pages[id]
		if p.DriveID == driveID && p.IsTrashed {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakePageStore) MarkTrashed(ctx context.Context, id string, at time.Time) error {
	p, ok := f.pages[id]
	if !ok {
		return nil
	}
	p.IsTrashed = true
	t := at
	p.TrashedAt = &t
	if p.ParentID != nil {
		pid := *p.ParentID
		p.OriginalParentID = &pid
	} else {
		p.OriginalParentID = nil
	}
	f.mutations++
	return nil
}

func (f *fakePageStore) MarkRestored(ctx context.Context, id string) error {
	p, ok := f.pages[id]
	if !ok {
		return nil
	}
	p.IsTrashed = false
	p.TrashedAt = nil
	p.OriginalParentID = nil
	f.mutations++
	return nil
}

func (f *fakePageStore) ReattachOrphans(ctx context.Context, targetID string) (int64, error) {
	var n int64
	for _, id := range f.sortedIDs() {
		p := f.pages[id]
		if id != targetID && p.OriginalParentID != nil && *p.OriginalParentID == targetID {
			pid := targetID
			p.ParentID = &pid
			p.OriginalParentID = nil
			n++
		}
	}
	if n > 0 {
		f.mutations++
	}
	return n, nil
}

func (f *fakePageStore) ClearBacklinks(ctx context.Context, targetID string) error {
	for _, id := range f.sortedIDs() {
		p := f.pages[id]
		if p.OriginalParentID != nil && *p.OriginalParentID == targetID {
			p.OriginalParentID = nil
			f.mutations++
		}
	}
	return nil
}

func (f *fakePageStore) UpdateParent(ctx context.Context, id string, parentID *string) error {
	p, ok := f.pages[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.ParentID = parentID
	f.mutations++
	return nil
}

func (f *fakePageStore) DeleteDependents(ctx context.Context, id string) error {
	f.dependentsOrder = append(f.dependentsOrder, id)
	return nil
}

func (f *fakePageStore) Delete(ctx context.Context, id string) error {
	delete(f.pages, id)
	f.deleteOrder = append(f.deleteOrder, id)
	f.mutations++
	return nil
}

type fakeDrivesRepo struct {
	drives map[string]*models.Drive
}

func (f *fakeDrivesRepo) Create(ctx context.Context, d *models.Drive) (*models.Drive, error) {
	f.drives[d.ID] = d
	return d, nil
}

func (f *fakeDrivesRepo) GetByID(ctx context.Context, id string) (*models.Drive, error) {
	d, ok := f.drives[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

type fakePermsRepo struct {
	grants map[string][]models.Permission
	groups map[string][]string

	listErr error
}

func (f *fakePermsRepo) Create(ctx context.Context, p *models.Permission) (*models.Permission, error) {
	f.grants[p.PageID] = append(f.grants[p.PageID], *p)
	return p, nil
}

func (f *fakePermsRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakePermsRepo) ListForPage(ctx context.Context, pageID string) ([]models.Permission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.grants[pageID], nil
}

func (f *fakePermsRepo) ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error) {
	return f.groups[userID], nil
}

type fakeAttachmentsRepo struct {
	keysByPage map[string][]string
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	return a, nil
}

func (f *fakeAttachmentsRepo) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeAttachmentsRepo) ListKeysByPage(ctx context.Context, pageID string) ([]string, error) {
	return f.keysByPage[pageID], nil
}

type fakeUsersRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User

	hashUpdates  map[string]string
	versionBumps map[string]int
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = "u-" + u.Email
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, userID string, hash string) error {
	f.hashUpdates[userID] = hash
	return nil
}

func (f *fakeUsersRepo) IncrementTokenVersion(ctx context.Context, userID string) (int64, error) {
	f.versionBumps[userID]++
	u, ok := f.byID[userID]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

type fakeRefreshRepo struct {
	tokens map[string]*models.RefreshToken

	createErr error
	deleteErr error

	deletedAllFor []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	f.deletedAllFor = append(f.deletedAllFor, userID)
	for token, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

// fakeRepoManager vends the in-memory fakes regardless of the DBTX, so
// transactional code paths still exercise dbx.WithTx against sqlmock.
type fakeRepoManager struct {
	users       *fakeUsersRepo
	drives      *fakeDrivesRepo
	pages       *fakePageStore
	perms       *fakePermsRepo
	refresh     *fakeRefreshRepo
	attachments *fakeAttachmentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: &fakeUsersRepo{
			byID: map[string]*models.User{}, byEmail: map[string]*models.User{},
			hashUpdates: map[string]string{}, versionBumps: map[string]int{},
		},
		drives:      &fakeDrivesRepo{drives: map[string]*models.Drive{}},
		pages:       newFakePageStore(),
		perms:       &fakePermsRepo{grants: map[string][]models.Permission{}, groups: map[string][]string{}},
		refresh:     &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}},
		attachments: &fakeAttachmentsRepo{keysByPage: map[string][]string{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.users }

func (m *fakeRepoManager) Drives(db dbx.DBTX) drivesrepo.Repository { return m.drives }

func (m *fakeRepoManager) Pages(db dbx.DBTX) pagesrepo.Repository { return m.pages }

func (m *fakeRepoManager) Permissions(db dbx.DBTX) permissionsrepo.Repository { return m.perms }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}

func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository {
	return m.attachments
}

type fakeLogger struct {
	warns []string
}

func (l *fakeLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *fakeLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (l *fakeLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.warns = append(l.warns, msg)
}
func (l *fakeLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l *fakeLogger) With(args ...any) logging.Logger                    { return l }

type fakeObjectRemover struct {
	removed [][]string
	err     error
}

func (f *fakeObjectRemover) RemoveObjects(ctx context.Context, keys []string) error {
	f.removed = append(f.removed, keys)
	return f.err
}
