package store

import (
	"context"
	"errors"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
)

// ErrNotFound is returned when a job id does not exist in the registry.
var ErrNotFound = errors.New("job not found")

// JobStore defines the interface for managing job definitions in the registry.
type JobStore interface {
	// List returns one page of jobs matching params, plus the total match count.
	List(ctx context.Context, params models.ListParams) (*models.PaginationResult[models.Job], error)

	// FindByID returns ErrNotFound when no job has the given id.
	FindByID(ctx context.Context, id int64) (*models.Job, error)

	// Create inserts a job and returns its id. New jobs start idle.
	Create(ctx context.Context, draft models.JobDraft) (int64, error)

	// Update rewrites the editable fields of a job, timers included.
	Update(ctx context.Context, id int64, draft models.JobDraft) error

	// Delete removes a job and its timers.
	Delete(ctx context.Context, id int64) error

	CountAllJobsGroupedByStatus(ctx context.Context) (map[state.JobStatus]int, error)
}

// AppStore reads the application registry.
type AppStore interface {
	List(ctx context.Context) ([]models.AppItem, error)
}

// TriggerOutbox records manual trigger requests for the scheduling engine to pick up.
type TriggerOutbox interface {
	Enqueue(ctx context.Context, req models.TriggerRequest) error
}
