package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sunshin3/invoicepro/internal/common"
)

// envelope is the response shape the desktop shell expects: a success flag
// plus whatever the endpoint adds.
type envelope map[string]any

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondOK merges extra fields into a success envelope.
func (s *Server) respondOK(w http.ResponseWriter, extra envelope) {
	payload := envelope{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// errStatus maps a service error to an HTTP status and the client-facing
// message. Credential and session failures share uniform wording so the API
// leaks nothing about which part was wrong.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrInvalidCode):
		return http.StatusUnauthorized, "invalid code"
	case errors.Is(err, common.ErrSessionNotFound),
		errors.Is(err, common.ErrSessionExpired):
		return http.StatusUnauthorized, "session invalid or expired"
	case errors.Is(err, common.ErrAccountInactive):
		return http.StatusForbidden, "account is deactivated"
	case errors.Is(err, common.ErrPermissionDenied):
		return http.StatusForbidden, "permission denied"
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrAdminNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// respondError writes the failure envelope, logging internal errors with
// their real cause.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, extra envelope) {
	status, msg := errStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	}

	payload := envelope{"success": false, "error": msg}
	for k, v := range extra {
		payload[k] = v
	}
	s.writeJSON(w, status, payload)
}

// decodeJSON reads the request body into dst, mapping malformed input to a
// validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrValidation
	}
	return nil
}
