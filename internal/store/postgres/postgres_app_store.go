package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

type PostgresAppStore struct {
	db *sql.DB
}

func NewPostgresAppStore(db *sql.DB) *PostgresAppStore {
	return &PostgresAppStore{db: db}
}

// List returns registered applications ordered by name.
func (r *PostgresAppStore) List(ctx context.Context) ([]models.AppItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT app_name FROM jobconsole.apps ORDER BY app_name`)
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	defer rows.Close()

	var apps []models.AppItem
	for rows.Next() {
		var app models.AppItem
		if err := rows.Scan(&app.AppName); err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
