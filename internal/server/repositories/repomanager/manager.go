package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlodewijk/modcat/internal/dbx"
	"github.com/mlodewijk/modcat/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DB handle
// (either *sql.DB or an open transaction) and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
