package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sunshin3/invoicepro/internal/server/config"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"

	_ "modernc.org/sqlite"
)

type testEnv struct {
	db          *sql.DB
	cfg         *config.Config
	credentials *CredentialService
	sessions    *SessionService
	admins      *AdminService
	audit       *AuditService
	dashboard   *DashboardService
}

// setupEnv wires the full service stack over a fresh in-memory database with
// the real schema applied.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	// a named shared-cache DB so the pool's connections all see one store
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(context.Background(), db))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.SessionTTL = time.Hour
	cfg.BootstrapAdminEmail = "root@example.com"

	credentials := NewCredentialService(db, m, cfg)
	sessions := NewSessionService(db, m, cfg)
	admins := NewAdminService(db, m, sessions, credentials, cfg)

	return &testEnv{
		db:          db,
		cfg:         cfg,
		credentials: credentials,
		sessions:    sessions,
		admins:      admins,
		audit:       NewAuditService(db, m),
		dashboard:   NewDashboardService(db, m),
	}
}

// registerUser creates a user through the service and fails the test on
// error.
func registerUser(t *testing.T, env *testEnv, email, password string) int64 {
	t.Helper()
	u, err := env.credentials.Register(context.Background(), RegisterParams{
		Email:       email,
		Password:    password,
		CompanyName: "Acme",
		FirstName:   "Jane",
		LastName:    "Doe",
	})
	require.NoError(t, err)
	return u.ID
}

// bootstrapSuperAdmin runs Bootstrap and returns the super-admin with its
// one-time code.
func bootstrapSuperAdmin(t *testing.T, env *testEnv) string {
	t.Helper()
	code, err := env.admins.Bootstrap(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, code)
	return code
}
