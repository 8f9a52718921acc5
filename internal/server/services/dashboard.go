package services

import (
	"context"
	"database/sql"

	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/repositories/repomanager"
)

// DashboardStats is the admin dashboard snapshot. All counts come from one
// transaction, so they are consistent with each other.
type DashboardStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalAdmins   int64 `json:"totalAdmins"`
	TotalInvoices int64 `json:"totalInvoices"`
	TrialUsers    int64 `json:"trialUsers"`
	BasicUsers    int64 `json:"basicUsers"`
	ProUsers      int64 `json:"proUsers"`
}

// DashboardService aggregates counts for the admin dashboard.
type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{db: db, repomanager: m}
}

// Stats collects the dashboard counts in a single read transaction, using
// the backend's snapshot isolation options so the counts agree with each
// other.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := dbx.WithTx(ctx, s.db, s.repomanager.SnapshotTxOptions(), func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		var err error
		if stats.TotalUsers, err = users.Count(ctx); err != nil {
			return err
		}
		if stats.TotalAdmins, err = s.repomanager.Admins(tx).Count(ctx); err != nil {
			return err
		}
		if stats.TotalInvoices, err = s.repomanager.Invoices(tx).Count(ctx); err != nil {
			return err
		}
		if stats.TrialUsers, err = users.CountByTier(ctx, models.TierTrial); err != nil {
			return err
		}
		if stats.BasicUsers, err = users.CountByTier(ctx, models.TierBasic); err != nil {
			return err
		}
		if stats.ProUsers, err = users.CountByTier(ctx, models.TierPro); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
