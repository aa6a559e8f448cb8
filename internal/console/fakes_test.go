package console

import (
	"context"
	"errors"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/RezaEskandarii/jobconsole/internal/store/memory"
)

// fakeRegistry serves jobs from a memory store and records every call. A fetch for a
// page listed in block waits until that page's channel is closed.
type fakeRegistry struct {
	jobs *memory.JobStore

	mu         sync.Mutex
	fetches    []models.ListParams
	deletes    []int64
	triggers   []int64
	actionErr  error
	block      map[int]chan struct{}
	fetchEnter chan models.ListParams
	apps       []models.AppItem
	appsErr    error
}

func newFakeRegistry(seed ...models.Job) *fakeRegistry {
	return &fakeRegistry{
		jobs:  memory.NewJobStore(seed...),
		block: make(map[int]chan struct{}),
	}
}

func (f *fakeRegistry) FetchJobs(ctx context.Context, params models.ListParams) (*models.PaginationResult[models.Job], error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, params)
	gate := f.block[params.Page]
	enter := f.fetchEnter
	f.mu.Unlock()

	if enter != nil {
		enter <- params
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.jobs.List(ctx, params)
}

func (f *fakeRegistry) DeleteJob(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	err := f.actionErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.jobs.Delete(ctx, id)
}

func (f *fakeRegistry) TriggerJob(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.triggers = append(f.triggers, id)
	err := f.actionErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	_, err = f.jobs.FindByID(ctx, id)
	return err
}

func (f *fakeRegistry) ListApps(ctx context.Context) ([]models.AppItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apps, f.appsErr
}

func (f *fakeRegistry) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeRegistry) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deletes) + len(f.triggers)
}

var errUnavailable = errors.New("registry unavailable")

func sampleJob() models.Job {
	return models.Job{
		ID:            1,
		Name:          "定时清理过期文件",
		Cron:          "0 0 0 * * *",
		Username:      "段律",
		AppName:       "juno-admin",
		Status:        state.StatusProcessing,
		Enable:        true,
		Zone:          "WH",
		Env:           "dev",
		Script:        "echo hello",
		Timeout:       10,
		RetryCount:    3,
		RetryInterval: 5,
		Timers: models.Timers{
			{Cron: "0 0 * * * *", Nodes: []string{"dev.wh.a-1", "dev.wh.a-2"}},
		},
	}
}

func otherJob() models.Job {
	return models.Job{ID: 2, Name: "同步账单", Cron: "0 */5 * * * *", Username: "ops", AppName: "billing", Status: state.StatusIdle}
}
