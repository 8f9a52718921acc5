// Package admins persists administrative accounts.
package admins

import (
	"context"
	"database/sql"
	"time"

	"github.com/sunshin3/invoicepro/internal/server/models"
)

// Repository is the storage contract for admin accounts. A NULL code hash
// means the admin has no usable login code until one is regenerated.
type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	UpdateCodeHash(ctx context.Context, id int64, hash sql.NullString) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
