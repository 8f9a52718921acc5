package users

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
CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  company_name TEXT NOT NULL DEFAULT '',
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  subscription_type TEXT NOT NULL DEFAULT 'trial',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func newUser(email string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		Email:            email,
		PasswordHash:     "$2a$10$fakefakefakefakefakefake",
		CompanyName:      "Acme",
		FirstName:        "Jane",
		LastName:         "Doe",
		SubscriptionTier: models.TierTrial,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestCreate_AssignsIDAndRejectsDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	created, err := r.Create(ctx, newUser("jane@example.com"))
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	_, err = r.Create(ctx, newUser("jane@example.com"))
	require.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestGetByEmail_RoundTripAndNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u := newUser("jane@example.com")
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	got, err := r.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, models.TierTrial, got.SubscriptionTier)
	assert.True(t, got.IsActive)
	assert.Equal(t, u.CreatedAt.Unix(), got.CreatedAt.Unix())

	_, err = r.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	older := newUser("first@example.com")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := r.Create(ctx, older)
	require.NoError(t, err)

	_, err = r.Create(ctx, newUser("second@example.com"))
	require.NoError(t, err)

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second@example.com", got[0].Email)
	assert.Equal(t, "first@example.com", got[1].Email)
}

func TestUpdate_PersistsFieldsAndNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u := newUser("jane@example.com")
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	u.CompanyName = "Acme Ltd"
	u.SubscriptionTier = models.TierPro
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	require.NoError(t, r.Update(ctx, u))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.CompanyName)
	assert.Equal(t, models.TierPro, got.SubscriptionTier)
	assert.False(t, got.IsActive)

	missing := newUser("ghost@example.com")
	missing.ID = 9999
	require.ErrorIs(t, r.Update(ctx, missing), common.ErrNotFound)
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, newUser("a@example.com"))
	require.NoError(t, err)
	b, err := r.Create(ctx, newUser("b@example.com"))
	require.NoError(t, err)

	b.Email = "a@example.com"
	require.ErrorIs(t, r.Update(ctx, b), common.ErrDuplicateEmail)
}

func TestUpdatePassword(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u, err := r.Create(ctx, newUser("jane@example.com"))
	require.NoError(t, err)

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "newhash"))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)

	require.ErrorIs(t, r.UpdatePassword(ctx, 9999, "x"), common.ErrNotFound)
}

func TestDelete_SuccessAndNotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u, err := r.Create(ctx, newUser("jane@example.com"))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, u.ID))
	require.ErrorIs(t, r.Delete(ctx, u.ID), common.ErrNotFound)
}

func TestCounts(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, newUser("a@example.com"))
	require.NoError(t, err)

	pro := newUser("b@example.com")
	pro.SubscriptionTier = models.TierPro
	_, err = r.Create(ctx, pro)
	require.NoError(t, err)

	total, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	trial, err := r.CountByTier(ctx, models.TierTrial)
	require.NoError(t, err)
	assert.Equal(t, int64(1), trial)

	basic, err := r.CountByTier(ctx, models.TierBasic)
	require.NoError(t, err)
	assert.Equal(t, int64(0), basic)
}
