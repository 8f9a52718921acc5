// Package repomanager vends backend-specific repository implementations and
// owns schema migration for each supported storage engine.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/repositories/activities"
	"github.com/sunshin3/invoicepro/internal/server/repositories/admins"
	"github.com/sunshin3/invoicepro/internal/server/repositories/invoices"
	"github.com/sunshin3/invoicepro/internal/server/repositories/sessions"
	"github.com/sunshin3/invoicepro/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	// SnapshotTxOptions returns the transaction options a multi-statement
	// read needs on this backend to see one consistent database state.
	SnapshotTxOptions() *sql.TxOptions
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Admins(db dbx.DBTX) admins.Repository
	Activities(db dbx.DBTX) activities.Repository
	Invoices(db dbx.DBTX) invoices.Repository
}

// New returns the repository manager for a configured backend name.
func New(backend string) (RepositoryManager, error) {
	switch backend {
	case "sqlite":
		return NewSQLiteRepositoryManager()
	case "postgres":
		return NewPostgresRepositoryManager()
	default:
		return nil, fmt.Errorf("unknown database driver %q", backend)
	}
}

// DriverName maps a configured backend name to the registered database/sql
// driver.
func DriverName(backend string) (string, error) {
	switch backend {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unknown database driver %q", backend)
	}
}
