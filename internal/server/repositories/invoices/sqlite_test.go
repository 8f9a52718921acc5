package invoices

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE invoices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER,
  total NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'draft',
  created_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestCount(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = db.Exec(`INSERT INTO invoices(user_id, total, status, created_at) VALUES
	  (1, 100, 'sent', CURRENT_TIMESTAMP),
	  (1, 50, 'draft', CURRENT_TIMESTAMP),
	  (2, 75, 'paid', CURRENT_TIMESTAMP)
	`)
	require.NoError(t, err)

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	byUser, err := r.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byUser)
}
