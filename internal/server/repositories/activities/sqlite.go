package activities

import (
	"context"
	"fmt"

	"github.com/sunshin3/invoicepro/internal/dbx"
	"github.com/sunshin3/invoicepro/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	query :=
		`INSERT INTO admin_activities (admin_email, action, details, created_at)
		 VALUES (?, ?, ?, ?)
		 `

	res, err := r.db.ExecContext(ctx, query,
		activity.AdminEmail, activity.Action, activity.Details, activity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	activity.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return activity, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	query :=
		`SELECT id, admin_email, action, details, created_at FROM admin_activities
		 ORDER BY created_at DESC, id DESC LIMIT ?
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
