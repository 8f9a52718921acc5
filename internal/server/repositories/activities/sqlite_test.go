package activities

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunshin3/invoicepro/internal/server/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE admin_activities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  admin_email TEXT NOT NULL,
  action TEXT NOT NULL,
  details TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestInsert_AndRecentNewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, action := range []string{"create_admin", "delete_user", "regenerate_code"} {
		_, err := r.Insert(ctx, &models.Activity{
			AdminEmail: "root@example.com",
			Action:     action,
			Details:    "target " + action,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	got, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "regenerate_code", got[0].Action)
	assert.Equal(t, "delete_user", got[1].Action)
	assert.Equal(t, "create_admin", got[2].Action)
	assert.Equal(t, "root@example.com", got[0].AdminEmail)
}

func TestRecent_HonorsLimit(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := r.Insert(ctx, &models.Activity{
			AdminEmail: "root@example.com",
			Action:     "login",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	got, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecent_EmptyTrail(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
