package httpapi

import (
	"net/http"
	"strings"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/server/models"
)

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

type userHandler func(w http.ResponseWriter, r *http.Request, session *models.Session, user *models.User)

type adminHandler func(w http.ResponseWriter, r *http.Request, session *models.Session, admin *models.Admin)

// withUser resolves the bearer token to a live user session before calling
// the handler.
func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.respondError(w, r, common.ErrSessionNotFound, nil)
			return
		}
		session, user, err := s.sessions.Validate(r.Context(), token)
		if err != nil {
			s.respondError(w, r, err, nil)
			return
		}
		next(w, r, session, user)
	}
}

// withAdmin resolves the bearer token to a live admin session before calling
// the handler.
func (s *Server) withAdmin(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.respondError(w, r, common.ErrSessionNotFound, nil)
			return
		}
		session, admin, err := s.sessions.ValidateAdmin(r.Context(), token)
		if err != nil {
			s.respondError(w, r, err, nil)
			return
		}
		next(w, r, session, admin)
	}
}
