// Package repomanager vends repository implementations bound to a database
// handle, plus the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/openmuse/openmuse/internal/dbx"
	"github.com/openmuse/openmuse/internal/server/repositories/credentials"
	"github.com/openmuse/openmuse/internal/server/repositories/users"
)

// RepositoryManager abstracts the persistence backend so services can be
// wired against interfaces and tests can substitute fakes.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
