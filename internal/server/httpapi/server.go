// Package httpapi exposes the application services as a JSON-over-HTTP API
// on a loopback address. The desktop shell is the intended client; every
// response uses the {"success": bool, ...} envelope it expects.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sunshin3/invoicepro/internal/logging"
	"github.com/sunshin3/invoicepro/internal/server/services"
)

type Server struct {
	addr        string
	logger      logging.Logger
	credentials *services.CredentialService
	sessions    *services.SessionService
	admins      *services.AdminService
	audit       *services.AuditService
	dashboard   *services.DashboardService

	httpServer *http.Server
}

func NewServer(addr string, logger logging.Logger,
	credentials *services.CredentialService,
	sessions *services.SessionService,
	admins *services.AdminService,
	audit *services.AuditService,
	dashboard *services.DashboardService,
) *Server {
	return &Server{
		addr:        addr,
		logger:      logger,
		credentials: credentials,
		sessions:    sessions,
		admins:      admins,
		audit:       audit,
		dashboard:   dashboard,
	}
}

// Routes builds the full router, middleware included.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.loggingMiddleware, s.recoverMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/user-register", s.handleUserRegister).Methods(http.MethodPost)
	api.HandleFunc("/user-login", s.handleUserLogin).Methods(http.MethodPost)
	api.HandleFunc("/user-logout", s.handleUserLogout).Methods(http.MethodPost)
	api.HandleFunc("/get-current-user", s.withUser(s.handleGetCurrentUser)).Methods(http.MethodGet)
	api.HandleFunc("/get-current-session", s.withUser(s.handleGetCurrentSession)).Methods(http.MethodGet)
	api.HandleFunc("/clear-session", s.handleUserLogout).Methods(http.MethodPost)
	api.HandleFunc("/change-password", s.withUser(s.handleChangePassword)).Methods(http.MethodPost)

	api.HandleFunc("/check-admin-email", s.handleCheckAdminEmail).Methods(http.MethodPost)
	api.HandleFunc("/admin-login", s.handleAdminLogin).Methods(http.MethodPost)

	api.HandleFunc("/get-all-users", s.withAdmin(s.handleGetAllUsers)).Methods(http.MethodGet)
	api.HandleFunc("/get-user/{id:[0-9]+}", s.withAdmin(s.handleGetUser)).Methods(http.MethodGet)
	api.HandleFunc("/update-user/{id:[0-9]+}", s.withAdmin(s.handleUpdateUser)).Methods(http.MethodPost)
	api.HandleFunc("/delete-user/{id:[0-9]+}", s.withAdmin(s.handleDeleteUser)).Methods(http.MethodPost)

	api.HandleFunc("/get-dashboard-stats", s.withAdmin(s.handleDashboardStats)).Methods(http.MethodGet)
	api.HandleFunc("/get-admin-activities", s.withAdmin(s.handleAdminActivities)).Methods(http.MethodGet)

	api.HandleFunc("/get-all-admins", s.withAdmin(s.handleGetAllAdmins)).Methods(http.MethodGet)
	api.HandleFunc("/create-admin", s.withAdmin(s.handleCreateAdmin)).Methods(http.MethodPost)
	api.HandleFunc("/regenerate-admin-code/{id:[0-9]+}", s.withAdmin(s.handleRegenerateAdminCode)).Methods(http.MethodPost)
	api.HandleFunc("/delete-admin/{id:[0-9]+}", s.withAdmin(s.handleDeleteAdmin)).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "http api listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
