// Package common defines shared constants and sentinel errors used across
// the application. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation errors (malformed input).
	ErrValidation     = errors.New("validation error")
	ErrDuplicateEmail = errors.New("email already registered")

	// Credential errors. ErrInvalidCredentials covers both unknown email
	// and wrong password so that callers cannot probe account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")

	// Session lifecycle errors.
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Admin authentication errors.
	ErrAdminNotFound    = errors.New("admin not found")
	ErrInvalidCode      = errors.New("invalid code")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStorageUnavailable is fatal: the process exits rather than
	// retrying when the store cannot be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
