// Package server initializes and runs the application server. It opens the
// configured storage backend, applies migrations, ensures the bootstrap
// super-admin exists, and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/filex"
	"github.com/sunshin3/invoicepro/internal/logging"
	"github.com/sunshin3/invoicepro/internal/server/config"
	"github.com/sunshin3/invoicepro/internal/server/httpapi"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
	"github.com/sunshin3/invoicepro/internal/server/services"
)

// purgeInterval is how often expired sessions are swept from storage.
// Validation already treats expired rows as absent, the sweep just keeps
// the table small.
const purgeInterval = time.Hour

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	api      *httpapi.Server
}

// openStore opens the configured database and pairs it with the matching
// repository manager.
func openStore(cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	if cfg.DatabaseDriver == "sqlite" {
		if dir := filepath.Dir(cfg.DatabaseDSN); dir != "." {
			if _, err := filex.EnsureSubdDir(dir); err != nil {
				return nil, nil, fmt.Errorf("data dir: %w", err)
			}
		}
	}

	driver, err := repomanager.DriverName(cfg.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open(driver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	m, err := repomanager.New(cfg.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}
	return db, m, nil
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, m, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	credentials := services.NewCredentialService(db, m, cfg)
	sessions := services.NewSessionService(db, m, cfg)
	admins := services.NewAdminService(db, m, sessions, credentials, cfg)
	audit := services.NewAuditService(db, m)
	dashboard := services.NewDashboardService(db, m)

	code, err := admins.Bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap error: %w", err)
	}
	if code != "" {
		// shown exactly once; only the hash survives in storage
		fmt.Fprintf(os.Stdout, "super-admin %s created, one-time login code: %s\n",
			cfg.BootstrapAdminEmail, code)
		logger.Info(ctx, "bootstrap super-admin created", "email", cfg.BootstrapAdminEmail)
	}

	api := httpapi.NewServer(cfg.EndpointAddrHTTP, logger.With("module", "httpapi"),
		credentials, sessions, admins, audit, dashboard)

	return &App{config: cfg, logger: logger, db: db, sessions: sessions, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.api.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startSessionSweeper(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.sessions.PurgeExpired(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session purge failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired sessions", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSessionSweeper(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err.Error())
	}
}
