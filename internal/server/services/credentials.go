// Package services contains server-side business logic. This file implements
// CredentialService, which owns user accounts: registration, password login,
// profile updates, and password changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/config"
	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyHash is a valid bcrypt hash compared against when the account does
// not exist, so a miss costs the same as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// RegisterParams carries the fields accepted at registration.
type RegisterParams struct {
	Email       string
	Password    string
	CompanyName string
	FirstName   string
	LastName    string
}

// UserPatch is a partial update of a user account. Nil fields are left
// unchanged.
type UserPatch struct {
	Email            *string
	CompanyName      *string
	FirstName        *string
	LastName         *string
	SubscriptionTier *string
	IsActive         *bool
}

// CredentialService handles end-user accounts and password verification.
type CredentialService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	minPasswordLen int
	bcryptCost     int
}

// NewCredentialService constructs a CredentialService using repositories and
// server config.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *CredentialService {
	return &CredentialService{
		db:             db,
		repomanager:    m,
		minPasswordLen: cfg.MinPasswordLen,
		bcryptCost:     cfg.BcryptCost,
	}
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// stored values go through this, so "Jane@X.com " and "jane@x.com" are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account on the trial tier. The email must be
// well-formed and unused; the password must meet the configured minimum
// length.
func (s *CredentialService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	email := NormalizeEmail(p.Email)
	if !emailRx.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(p.Password) < s.minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, s.minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:            email,
		PasswordHash:     string(hash),
		CompanyName:      strings.TrimSpace(p.CompanyName),
		FirstName:        strings.TrimSpace(p.FirstName),
		LastName:         strings.TrimSpace(p.LastName),
		SubscriptionTier: models.TierTrial,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password both yield ErrInvalidCredentials; a deactivated account yields
// ErrAccountInactive regardless of the password.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn a compare anyway
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive {
		return nil, common.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns a user by id.
func (s *CredentialService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// List returns all user accounts, newest first.
func (s *CredentialService) List(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// ChangePassword verifies the current password and replaces it with a new
// one. All other sessions of the user stay valid.
func (s *CredentialService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return common.ErrInvalidCredentials
	}
	if len(next) < s.minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, s.minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return repo.UpdatePassword(ctx, id, string(hash))
}

// applyPatchTx loads a user inside a transaction, applies the patch, and
// persists the result.
func (s *CredentialService) applyPatchTx(ctx context.Context, tx dbx.DBTX, id int64, patch UserPatch) (*models.User, error) {
	repo := s.repomanager.Users(tx)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if !emailRx.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
		}
		user.Email = email
	}
	if patch.CompanyName != nil {
		user.CompanyName = strings.TrimSpace(*patch.CompanyName)
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.SubscriptionTier != nil {
		if !models.ValidTier(*patch.SubscriptionTier) {
			return nil, fmt.Errorf("%w: unknown subscription tier %q", common.ErrValidation, *patch.SubscriptionTier)
		}
		user.SubscriptionTier = *patch.SubscriptionTier
	}

	if patch.IsActive != nil {
		// existing sessions stay stored; validation reports the account
		// as inactive and revokes them on first use
		user.IsActive = *patch.IsActive
	}

	user.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// deleteUserTx removes a user inside a transaction. Sessions go with the
// account via the FK cascade; an extra explicit delete keeps backends
// without cascades honest.
func (s *CredentialService) deleteUserTx(ctx context.Context, tx dbx.DBTX, id int64) error {
	if err := s.repomanager.Sessions(tx).DeleteByUserID(ctx, id); err != nil {
		return err
	}
	return s.repomanager.Users(tx).Delete(ctx, id)
}
