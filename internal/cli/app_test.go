package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sunshin3/invoicepro/internal/server/config"
)

func setupApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	app, err := NewApp(cfg)
	require.NoError(t, err)
	app.db.SetMaxOpenConns(1)
	return app
}

func TestRun_UnknownCommand(t *testing.T) {
	app := setupApp(t)
	defer app.db.Close()

	err := app.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRun_NoCommand(t *testing.T) {
	app := setupApp(t)
	defer app.db.Close()

	require.Error(t, app.Run(context.Background(), nil))
}

func TestCreateUser_PromptsAndRegisters(t *testing.T) {
	app := setupApp(t)
	defer app.db.Close()
	ctx := context.Background()

	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) {
		return []byte("longenough"), nil
	}

	require.NoError(t, app.createUser(ctx, []string{"jane@example.com"}))

	user, err := app.credentials.Authenticate(ctx, "jane@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestCreateUser_MismatchedPasswords(t *testing.T) {
	app := setupApp(t)
	defer app.db.Close()

	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	calls := 0
	readPassword = func(fd int) ([]byte, error) {
		calls++
		return []byte(fmt.Sprintf("password-%d", calls)), nil
	}

	err := app.createUser(context.Background(), []string{"jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestResetAdminCode_RoundTrip(t *testing.T) {
	app := setupApp(t)
	defer app.db.Close()
	ctx := context.Background()

	code, err := app.admins.Bootstrap(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, code)

	require.NoError(t, app.resetAdminCode(ctx, []string{app.config.BootstrapAdminEmail}))

	// the bootstrap code was replaced
	_, _, err = app.admins.Login(ctx, app.config.BootstrapAdminEmail, code)
	require.Error(t, err)

	require.Error(t, app.resetAdminCode(ctx, []string{"nobody@example.com"}))
}

func TestPurgeSessions(t *testing.T) {
	app := setupApp(t)
	defer app.db.Close()

	require.NoError(t, app.purgeSessions(context.Background()))
}
