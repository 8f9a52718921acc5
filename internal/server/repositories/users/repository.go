// Package users persists end-user accounts.
package users

import (
	"context"

	"github.com/sunshin3/invoicepro/internal/server/models"
)

// Repository is the storage contract for user accounts. Lookups that miss
// return common.ErrNotFound; Create maps a violated email uniqueness
// constraint to common.ErrDuplicateEmail.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByTier(ctx context.Context, tier string) (int64, error)
}
