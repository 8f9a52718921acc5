// Package cli is the operator maintenance tool. It works on the same store
// as the server: create users, reset admin login codes, inspect admins, and
// sweep expired sessions without going through the HTTP API.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/logging"
	"github.com/sunshin3/invoicepro/internal/server/config"
	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
	"github.com/sunshin3/invoicepro/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	credentials *services.CredentialService
	sessions    *services.SessionService
	admins      *services.AdminService
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	driver, err := repomanager.DriverName(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	m, err := repomanager.New(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	credentials := services.NewCredentialService(db, m, cfg)
	sessions := services.NewSessionService(db, m, cfg)
	admins := services.NewAdminService(db, m, sessions, credentials, cfg)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		credentials: credentials,
		sessions:    sessions,
		admins:      admins,
	}, nil
}

// Run dispatches a single subcommand and exits.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.db.Close()

	if len(args) == 0 {
		a.usage()
		return errors.New("no command given")
	}

	switch args[0] {
	case "create-user":
		return a.createUser(ctx, args[1:])
	case "list-admins":
		return a.listAdmins(ctx)
	case "reset-admin-code":
		return a.resetAdminCode(ctx, args[1:])
	case "purge-sessions":
		return a.purgeSessions(ctx)
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(os.Stderr, `usage: invoicepro-cli <command> [args]

commands:
  create-user <email>        create a user account (password prompted)
  list-admins                print all admin accounts
  reset-admin-code <email>   generate a fresh login code for an admin
  purge-sessions             delete expired sessions`)
}

func (a *App) createUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("create-user: expected exactly one email argument")
	}

	password, err := promptPassword("Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Repeat password: ")
	if err != nil {
		common.WipeByteArray(password)
		return err
	}
	defer common.WipeByteArray(password)
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}

	user, err := a.credentials.Register(ctx, services.RegisterParams{
		Email:    args[0],
		Password: string(password),
	})
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (id %d)\n", user.Email, user.ID)
	return nil
}

func (a *App) listAdmins(ctx context.Context) error {
	admins, err := a.admins.List(ctx)
	if err != nil {
		return err
	}

	for _, admin := range admins {
		last := "never"
		if admin.LastLoginAt != nil {
			last = admin.LastLoginAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%d\t%s\t%s\tlast login: %s\n", admin.ID, admin.Email, admin.Role, last)
	}
	return nil
}

// resetAdminCode issues a new code directly, bypassing the super-admin
// check: whoever runs this has the database anyway.
func (a *App) resetAdminCode(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("reset-admin-code: expected exactly one email argument")
	}

	admins, err := a.admins.List(ctx)
	if err != nil {
		return err
	}

	email := services.NormalizeEmail(args[0])
	var target *models.Admin
	for i := range admins {
		if admins[i].Email == email {
			target = &admins[i]
			break
		}
	}
	if target == nil {
		return common.ErrAdminNotFound
	}

	operator := &models.Admin{Email: "cli", Role: models.RoleSuperAdmin}
	code, err := a.admins.RegenerateCode(ctx, operator, target.ID)
	if err != nil {
		return err
	}
	fmt.Printf("new one-time login code for %s: %s\n", email, code)
	return nil
}

func (a *App) purgeSessions(ctx context.Context) error {
	n, err := a.sessions.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("purged %d expired sessions\n", n)
	return nil
}
