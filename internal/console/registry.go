package console

import (
	"context"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

// JobRegistry is the remote job registry as the console sees it.
type JobRegistry interface {
	FetchJobs(ctx context.Context, params models.ListParams) (*models.PaginationResult[models.Job], error)
	DeleteJob(ctx context.Context, id int64) error
	TriggerJob(ctx context.Context, id int64) error
}

type AppRegistry interface {
	ListApps(ctx context.Context) ([]models.AppItem, error)
}
