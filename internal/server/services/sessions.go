package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/config"
	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
)

// tokenSizeBytes random bytes per session token, hex-encoded to 64 chars.
const tokenSizeBytes = 32

// mintAttempts bounds retries on a token collision. Collisions on 256-bit
// tokens are effectively impossible, the bound just avoids an infinite loop
// on a broken store.
const mintAttempts = 3

// SessionService issues and validates opaque bearer session tokens for both
// users and admins. Tokens carry no embedded claims; the row in storage is
// the only authority.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
}

// NewSessionService constructs a SessionService using repositories and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{db: db, repomanager: m, ttl: cfg.SessionTTL}
}

// mint inserts a fresh session row on the given DBTX, retrying with a new
// token if the generated one collides.
func (s *SessionService) mint(ctx context.Context, db dbx.DBTX, userID, adminID sql.NullInt64) (*models.Session, error) {
	repo := s.repomanager.Sessions(db)

	for i := 0; i < mintAttempts; i++ {
		token, err := common.MakeRandHexString(tokenSizeBytes)
		if err != nil {
			return nil, fmt.Errorf("error generating token: %w", err)
		}

		now := time.Now().UTC()
		session, err := repo.Create(ctx, &models.Session{
			UserID:    userID,
			AdminID:   adminID,
			Token:     token,
			ExpiresAt: now.Add(s.ttl),
			CreatedAt: now,
		})
		if err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				continue
			}
			return nil, fmt.Errorf("error creating session: %w", err)
		}
		return session, nil
	}
	return nil, fmt.Errorf("error creating session: token collisions exhausted retries")
}

// Issue creates a session for a user and returns it with the bearer token
// set.
func (s *SessionService) Issue(ctx context.Context, userID int64) (*models.Session, error) {
	return s.mint(ctx, s.db, sql.NullInt64{Int64: userID, Valid: true}, sql.NullInt64{})
}

// IssueAdmin creates a session for an admin.
func (s *SessionService) IssueAdmin(ctx context.Context, adminID int64) (*models.Session, error) {
	return s.mint(ctx, s.db, sql.NullInt64{}, sql.NullInt64{Int64: adminID, Valid: true})
}

// lookup resolves a token to a live session, deleting the row if it has
// expired.
func (s *SessionService) lookup(ctx context.Context, token string) (*models.Session, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		_ = repo.DeleteByToken(ctx, token)
		return nil, common.ErrSessionExpired
	}
	return session, nil
}

// Validate resolves a user session token. An admin token is not valid here.
// A session whose user has been deactivated is revoked on sight.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, *models.User, error) {
	session, err := s.lookup(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !session.UserID.Valid {
		return nil, nil, common.ErrSessionNotFound
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID.Int64)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = s.repomanager.Sessions(s.db).DeleteByToken(ctx, token)
			return nil, nil, common.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.IsActive {
		_ = s.repomanager.Sessions(s.db).DeleteByToken(ctx, token)
		return nil, nil, common.ErrAccountInactive
	}
	return session, user, nil
}

// ValidateAdmin resolves an admin session token. A user token is not valid
// here.
func (s *SessionService) ValidateAdmin(ctx context.Context, token string) (*models.Session, *models.Admin, error) {
	session, err := s.lookup(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !session.AdminID.Valid {
		return nil, nil, common.ErrSessionNotFound
	}

	admin, err := s.repomanager.Admins(s.db).GetByID(ctx, session.AdminID.Int64)
	if err != nil {
		if errors.Is(err, common.ErrAdminNotFound) {
			_ = s.repomanager.Sessions(s.db).DeleteByToken(ctx, token)
			return nil, nil, common.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("error loading admin: %w", err)
	}
	return session, admin, nil
}

// Revoke deletes a session by token. Revoking an unknown or already revoked
// token is a no-op, not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.repomanager.Sessions(s.db).DeleteByToken(ctx, token)
}

// RevokeAllForUser deletes every session of the given user.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID int64) error {
	return s.repomanager.Sessions(s.db).DeleteByUserID(ctx, userID)
}

// RevokeAllForAdmin deletes every session of the given admin.
func (s *SessionService) RevokeAllForAdmin(ctx context.Context, adminID int64) error {
	return s.repomanager.Sessions(s.db).DeleteByAdminID(ctx, adminID)
}

// PurgeExpired deletes all sessions that have passed their expiry and
// returns how many were removed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx, time.Now().UTC())
}
