package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/migrations"
	"github.com/sunshin3/invoicepro/internal/server/repositories/activities"
	"github.com/sunshin3/invoicepro/internal/server/repositories/admins"
	"github.com/sunshin3/invoicepro/internal/server/repositories/invoices"
	"github.com/sunshin3/invoicepro/internal/server/repositories/sessions"
	"github.com/sunshin3/invoicepro/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories for
// multi-seat deployments that share one database.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Activities(db dbx.DBTX) activities.Repository {
	return activities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Invoices(db dbx.DBTX) invoices.Repository {
	return invoices.NewPostgresRepository(db)
}

// SnapshotTxOptions pins the transaction to one snapshot. At the default
// read committed level every statement would see a fresh database state,
// so counts taken across statements could disagree.
func (m *PostgresRepositoryManager) SnapshotTxOptions() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "postgres")
}
