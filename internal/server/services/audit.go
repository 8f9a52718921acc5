package services

import (
	"context"
	"database/sql"

	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
)

// defaultActivityLimit is how many audit records Recent returns when the
// caller does not say.
const defaultActivityLimit = 10

// maxActivityLimit caps a caller-supplied limit.
const maxActivityLimit = 200

// AuditService reads the admin activity trail. Writes happen inside the
// AdminService transactions; this service only queries.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager) *AuditService {
	return &AuditService{db: db, repomanager: m}
}

// Recent returns the newest audit records. A non-positive limit falls back
// to the default; an excessive one is clamped.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.repomanager.Activities(s.db).Recent(ctx, limit)
}
