package repomanager

import (
	"context"
	"database/sql"

	"github.com/2witstudios/pagespace/internal/dbx"
	"github.com/2witstudios/pagespace/internal/server/repositories/attachments"
	"github.com/2witstudios/pagespace/internal/server/repositories/drives"
	"github.com/2witstudios/pagespace/internal/server/repositories/pages"
	"github.com/2witstudios/pagespace/internal/server/repositories/permissions"
	"github.com/2witstudios/pagespace/internal/server/repositories/refreshtokens"
	"github.com/2witstudios/pagespace/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructor works inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Drives(db dbx.DBTX) drives.Repository
	Pages(db dbx.DBTX) pages.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
