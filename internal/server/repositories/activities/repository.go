// Package activities persists the append-only admin audit trail.
package activities

import (
	"context"

	"github.com/sunshin3/invoicepro/internal/server/models"
)

// Repository is the storage contract for audit records. Records are never
// updated or deleted; Recent returns the newest first.
type Repository interface {
	Insert(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}
