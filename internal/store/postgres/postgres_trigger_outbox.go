package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

// PostgresTriggerOutbox writes trigger requests to jobconsole.job_triggers.
// The scheduling engine polls that table when no message broker is deployed.
type PostgresTriggerOutbox struct {
	db *sql.DB
}

func NewPostgresTriggerOutbox(db *sql.DB) *PostgresTriggerOutbox {
	return &PostgresTriggerOutbox{db: db}
}

func (o *PostgresTriggerOutbox) Enqueue(ctx context.Context, req models.TriggerRequest) error {
	query := `
		INSERT INTO jobconsole.job_triggers (request_id, job_id, requested_by, requested_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (request_id) DO NOTHING
	`
	if _, err := o.db.ExecContext(ctx, query, req.RequestID, req.JobID, req.RequestedBy, req.RequestedAt); err != nil {
		return fmt.Errorf("enqueue trigger for job %d: %w", req.JobID, err)
	}
	return nil
}
