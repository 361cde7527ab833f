package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/administrators"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/devices"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Administrators(db dbx.DBTX) administrators.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Devices(db dbx.DBTX) devices.Repository
}
