package repomanager

import (
	"context"
	"database/sql"

	"github.com/rosvit/journal-backend/internal/dbx"
	"github.com/rosvit/journal-backend/internal/server/repositories/entries"
	"github.com/rosvit/journal-backend/internal/server/repositories/eventtypes"
	"github.com/rosvit/journal-backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	EventTypes(db dbx.DBTX) eventtypes.Repository
	Entries(db dbx.DBTX) entries.Repository
}
