package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/migrations"
	"github.com/sunshin3/invoicepro/internal/server/repositories/activities"
	"github.com/sunshin3/invoicepro/internal/server/repositories/admins"
	"github.com/sunshin3/invoicepro/internal/server/repositories/invoices"
	"github.com/sunshin3/invoicepro/internal/server/repositories/sessions"
	"github.com/sunshin3/invoicepro/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. This is the
// default backend: a single embedded database file per installation.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() (RepositoryManager, error) {
	return &SQLiteRepositoryManager{}, nil
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Activities(db dbx.DBTX) activities.Repository {
	return activities.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Invoices(db dbx.DBTX) invoices.Repository {
	return invoices.NewSQLiteRepository(db)
}

// SnapshotTxOptions returns nil: a SQLite transaction reads from a single
// snapshot already, and the driver rejects nonstandard isolation levels.
func (m *SQLiteRepositoryManager) SnapshotTxOptions() *sql.TxOptions {
	return nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Sqlite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}
