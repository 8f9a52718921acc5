package activities

import (
	"context"
	"fmt"

	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	query :=
		`INSERT INTO admin_activities (admin_email, action, details, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		activity.AdminEmail, activity.Action, activity.Details, activity.CreatedAt).Scan(&activity.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return activity, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	query :=
		`SELECT id, admin_email, action, details, created_at FROM admin_activities
		 ORDER BY created_at DESC, id DESC LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Activity
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(&activity.ID, &activity.AdminEmail, &activity.Action,
			&activity.Details, &activity.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
