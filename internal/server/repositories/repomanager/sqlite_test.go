package repomanager

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestSQLiteRunMigrations_CreatesSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewSQLiteRepositoryManager()
	require.NoError(t, err)

	require.NoError(t, m.RunMigrations(context.Background(), db))

	for _, table := range []string{"users", "admins", "sessions", "admin_activities", "invoices"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestSnapshotTxOptions_PerBackend(t *testing.T) {
	s, err := NewSQLiteRepositoryManager()
	require.NoError(t, err)
	assert.Nil(t, s.SnapshotTxOptions())

	p, err := NewPostgresRepositoryManager()
	require.NoError(t, err)
	opts := p.SnapshotTxOptions()
	require.NotNil(t, opts)
	assert.Equal(t, sql.LevelRepeatableRead, opts.Isolation)
	assert.True(t, opts.ReadOnly)
}

func TestSQLiteManager_VendsRepositories(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewSQLiteRepositoryManager()
	require.NoError(t, err)

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Sessions(db))
	assert.NotNil(t, m.Admins(db))
	assert.NotNil(t, m.Activities(db))
	assert.NotNil(t, m.Invoices(db))
}
