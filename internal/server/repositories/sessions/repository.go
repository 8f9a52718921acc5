// Package sessions persists bearer-token sessions.
package sessions

import (
	"context"
	"time"

	"github.com/sunshin3/invoicepro/internal/server/models"
)

// Repository is the storage contract for sessions. Create maps a violated
// token uniqueness constraint to common.ErrAlreadyExists so callers can
// regenerate and retry. DeleteByToken is idempotent: deleting an absent
// token is not an error.
type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteByAdminID(ctx context.Context, adminID int64) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
