package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/labdrive/internal/dbx"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/comments"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/signatures"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Comments(db dbx.DBTX) comments.Repository
	Signatures(db dbx.DBTX) signatures.Repository
}
