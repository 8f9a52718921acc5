// Package invoices exposes the slice of invoice storage the dashboard needs.
package invoices

import "context"

// Repository counts invoices for dashboard aggregation. Full invoice CRUD
// lives with the invoicing subsystem, not here.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
