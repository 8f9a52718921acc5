package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/config"
	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
)

// Audit action names recorded by AdminService.
const (
	ActionAdminLogin     = "admin_login"
	ActionCreateAdmin    = "create_admin"
	ActionDeleteAdmin    = "delete_admin"
	ActionRegenerateCode = "regenerate_code"
	ActionUpdateUser     = "update_user"
	ActionDeleteUser     = "delete_user"
	ActionSetUserActive  = "set_user_active"
)

// AdminService owns administrative accounts and the admin-facing user
// mutations. Every mutation writes its audit record inside the same
// transaction, so a logged action has happened and an unlogged one has not.
type AdminService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	sessions       *SessionService
	credentials    *CredentialService
	bcryptCost     int
	codeDigits     int
	bootstrapEmail string
}

// NewAdminService constructs an AdminService using repositories and server
// config.
func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, credentials *CredentialService, cfg *config.Config) *AdminService {
	return &AdminService{
		db:             db,
		repomanager:    m,
		sessions:       sessions,
		credentials:    credentials,
		bcryptCost:     cfg.BcryptCost,
		codeDigits:     cfg.AdminCodeDigits,
		bootstrapEmail: cfg.BootstrapAdminEmail,
	}
}

// record appends an audit row on the given DBTX, stamping the current time.
func (s *AdminService) record(ctx context.Context, db dbx.DBTX, adminEmail, action, details string) error {
	_, err := s.repomanager.Activities(db).Insert(ctx, &models.Activity{
		AdminEmail: adminEmail,
		Action:     action,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	})
	return err
}

// newCode generates a fresh numeric login code and its bcrypt hash.
func (s *AdminService) newCode() (string, sql.NullString, error) {
	code, err := common.MakeNumericCode(s.codeDigits)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("error generating code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("error hashing code: %w", err)
	}
	return code, sql.NullString{String: string(hash), Valid: true}, nil
}

// CheckEmail reports whether an admin account exists for the email. The
// desktop shell uses this to decide whether to show the code prompt.
func (s *AdminService) CheckEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.repomanager.Admins(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrAdminNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading admin: %w", err)
	}
	return true, nil
}

// Login authenticates an admin with a one-time numeric code. On success the
// code is spent, the login is audited, and a fresh admin session is minted,
// all in one transaction. Unknown accounts fail with ErrAdminNotFound and
// spent or mismatched codes with ErrInvalidCode; admin existence is already
// an open question to the client via CheckEmail.
func (s *AdminService) Login(ctx context.Context, email, code string) (*models.Admin, *models.Session, error) {
	email = NormalizeEmail(email)

	var admin *models.Admin
	var session *models.Session

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)

		a, err := repo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrAdminNotFound) {
				return common.ErrAdminNotFound
			}
			return fmt.Errorf("error loading admin: %w", err)
		}

		// a spent code counts as invalid, not as a missing account
		if !a.CodeHash.Valid {
			return common.ErrInvalidCode
		}
		if err := bcrypt.CompareHashAndPassword([]byte(a.CodeHash.String), []byte(code)); err != nil {
			return common.ErrInvalidCode
		}

		// code is single-use
		if err := repo.UpdateCodeHash(ctx, a.ID, sql.NullString{}); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := repo.UpdateLastLogin(ctx, a.ID, now); err != nil {
			return err
		}
		if err := s.record(ctx, tx, a.Email, ActionAdminLogin, ""); err != nil {
			return err
		}

		session, err = s.sessions.mint(ctx, tx, sql.NullInt64{}, sql.NullInt64{Int64: a.ID, Valid: true})
		if err != nil {
			return err
		}

		a.CodeHash = sql.NullString{}
		a.LastLoginAt = &now
		admin = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return admin, session, nil
}

// Create adds a new admin account and returns it together with its initial
// login code. Only a super-admin may create admins, and only the "admin"
// role can be granted: the single super-admin comes from Bootstrap. The
// plaintext code is returned exactly once and never stored.
func (s *AdminService) Create(ctx context.Context, actor *models.Admin, email, role string) (*models.Admin, string, error) {
	if !actor.IsSuperAdmin() {
		return nil, "", common.ErrPermissionDenied
	}

	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin {
		return nil, "", fmt.Errorf("%w: role %q cannot be granted", common.ErrValidation, role)
	}
	email = NormalizeEmail(email)
	if !emailRx.MatchString(email) {
		return nil, "", fmt.Errorf("%w: invalid email", common.ErrValidation)
	}

	code, hash, err := s.newCode()
	if err != nil {
		return nil, "", err
	}

	var admin *models.Admin
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		a, err := s.repomanager.Admins(tx).Create(ctx, &models.Admin{
			Email:     email,
			CodeHash:  hash,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		admin = a
		return s.record(ctx, tx, actor.Email, ActionCreateAdmin, fmt.Sprintf("created admin %s", email))
	})
	if err != nil {
		return nil, "", err
	}
	return admin, code, nil
}

// RegenerateCode replaces an admin's login code and returns the new
// plaintext code. Only a super-admin may regenerate codes.
func (s *AdminService) RegenerateCode(ctx context.Context, actor *models.Admin, adminID int64) (string, error) {
	if !actor.IsSuperAdmin() {
		return "", common.ErrPermissionDenied
	}

	code, hash, err := s.newCode()
	if err != nil {
		return "", err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)

		target, err := repo.GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if err := repo.UpdateCodeHash(ctx, adminID, hash); err != nil {
			return err
		}
		return s.record(ctx, tx, actor.Email, ActionRegenerateCode, fmt.Sprintf("regenerated code for %s", target.Email))
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Delete removes an admin account and its sessions. Only a super-admin may
// delete admins, and a super-admin account itself cannot be deleted.
func (s *AdminService) Delete(ctx context.Context, actor *models.Admin, adminID int64) error {
	if !actor.IsSuperAdmin() {
		return common.ErrPermissionDenied
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)

		target, err := repo.GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if target.IsSuperAdmin() {
			return common.ErrPermissionDenied
		}

		if err := s.repomanager.Sessions(tx).DeleteByAdminID(ctx, adminID); err != nil {
			return err
		}
		if err := repo.Delete(ctx, adminID); err != nil {
			return err
		}
		return s.record(ctx, tx, actor.Email, ActionDeleteAdmin, fmt.Sprintf("deleted admin %s", target.Email))
	})
}

// List returns all admin accounts, oldest first.
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	return s.repomanager.Admins(s.db).List(ctx)
}

// Bootstrap ensures the configured super-admin account exists. On first run
// it is created with a fresh login code, which is returned so it can be
// shown once; on later runs Bootstrap returns an empty code and does
// nothing.
func (s *AdminService) Bootstrap(ctx context.Context) (string, error) {
	_, err := s.repomanager.Admins(s.db).GetByEmail(ctx, s.bootstrapEmail)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, common.ErrAdminNotFound) {
		return "", fmt.Errorf("error loading admin: %w", err)
	}

	code, hash, err := s.newCode()
	if err != nil {
		return "", err
	}

	_, err = s.repomanager.Admins(s.db).Create(ctx, &models.Admin{
		Email:     s.bootstrapEmail,
		CodeHash:  hash,
		Role:      models.RoleSuperAdmin,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// lost a startup race, the account exists now
		if errors.Is(err, common.ErrDuplicateEmail) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

// UpdateUser applies a patch to a user account on behalf of an admin and
// audits the change in the same transaction.
func (s *AdminService) UpdateUser(ctx context.Context, actor *models.Admin, id int64, patch UserPatch) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.credentials.applyPatchTx(ctx, tx, id, patch)
		if err != nil {
			return err
		}
		user = u
		return s.record(ctx, tx, actor.Email, ActionUpdateUser, fmt.Sprintf("updated user %s", u.Email))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user account and its sessions on behalf of an admin.
func (s *AdminService) DeleteUser(ctx context.Context, actor *models.Admin, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		target, err := s.repomanager.Users(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.credentials.deleteUserTx(ctx, tx, id); err != nil {
			return err
		}
		return s.record(ctx, tx, actor.Email, ActionDeleteUser, fmt.Sprintf("deleted user %s", target.Email))
	})
}

// SetUserActive toggles a user account on behalf of an admin. Stored
// sessions of a deactivated user stay in place; validation rejects them
// with the inactive error and revokes them on first use.
func (s *AdminService) SetUserActive(ctx context.Context, actor *models.Admin, id int64, active bool) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.credentials.applyPatchTx(ctx, tx, id, UserPatch{IsActive: &active})
		if err != nil {
			return err
		}
		user = u
		return s.record(ctx, tx, actor.Email, ActionSetUserActive,
			fmt.Sprintf("set user %s active=%t", u.Email, active))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
