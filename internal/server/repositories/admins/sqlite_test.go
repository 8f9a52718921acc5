package admins

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/server/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE admins (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT UNIQUE NOT NULL,
  code_hash TEXT,
  role TEXT NOT NULL DEFAULT 'admin',
  created_at TIMESTAMP NOT NULL,
  last_login_at TIMESTAMP
);
`)
	require.NoError(t, err)

	return db
}

func newAdmin(email, role string) *models.Admin {
	return &models.Admin{
		Email:     email,
		CodeHash:  sql.NullString{String: "$2a$10$fakefakefake", Valid: true},
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreate_AndGetByEmail(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a, err := r.Create(ctx, newAdmin("root@example.com", models.RoleSuperAdmin))
	require.NoError(t, err)
	assert.Greater(t, a.ID, int64(0))

	got, err := r.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsSuperAdmin())
	assert.True(t, got.CodeHash.Valid)
	assert.Nil(t, got.LastLoginAt)

	_, err = r.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, common.ErrAdminNotFound)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, newAdmin("a@example.com", models.RoleAdmin))
	require.NoError(t, err)

	_, err = r.Create(ctx, newAdmin("a@example.com", models.RoleAdmin))
	require.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestUpdateCodeHash_SetAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a, err := r.Create(ctx, newAdmin("a@example.com", models.RoleAdmin))
	require.NoError(t, err)

	// spending the code clears the hash
	require.NoError(t, r.UpdateCodeHash(ctx, a.ID, sql.NullString{}))

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.CodeHash.Valid)

	require.NoError(t, r.UpdateCodeHash(ctx, a.ID, sql.NullString{String: "newhash", Valid: true}))

	got, err = r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.CodeHash.String)

	require.ErrorIs(t, r.UpdateCodeHash(ctx, 9999, sql.NullString{}), common.ErrAdminNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a, err := r.Create(ctx, newAdmin("a@example.com", models.RoleAdmin))
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, r.UpdateLastLogin(ctx, a.ID, at))

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.Equal(t, at.Unix(), got.LastLoginAt.Unix())
}

func TestList_OldestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	first := newAdmin("first@example.com", models.RoleSuperAdmin)
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := r.Create(ctx, first)
	require.NoError(t, err)

	_, err = r.Create(ctx, newAdmin("second@example.com", models.RoleAdmin))
	require.NoError(t, err)

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first@example.com", got[0].Email)
	assert.Equal(t, "second@example.com", got[1].Email)
}

func TestDelete_SuccessAndNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a, err := r.Create(ctx, newAdmin("a@example.com", models.RoleAdmin))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, a.ID))
	require.ErrorIs(t, r.Delete(ctx, a.ID), common.ErrAdminNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
