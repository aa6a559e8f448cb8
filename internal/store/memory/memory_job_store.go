// Package memory keeps the registry in process memory. It backs demo mode and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/RezaEskandarii/jobconsole/internal/store"
)

type JobStore struct {
	mu     sync.Mutex
	jobs   map[int64]*models.Job
	nextID int64
	now    func() time.Time
}

func NewJobStore(seed ...models.Job) *JobStore {
	s := &JobStore{
		jobs: make(map[int64]*models.Job),
		now:  time.Now,
	}
	for _, job := range seed {
		j := job
		if j.ID == 0 {
			s.nextID++
			j.ID = s.nextID
		} else if j.ID > s.nextID {
			s.nextID = j.ID
		}
		s.jobs[j.ID] = &j
	}
	return s
}

func (s *JobStore) List(ctx context.Context, params models.ListParams) (*models.PaginationResult[models.Job], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params = params.Normalize()

	s.mu.Lock()
	var matched []models.Job
	for _, job := range s.jobs {
		if matches(job, params.Filters) {
			matched = append(matched, cloneJob(job))
		}
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], params.Sort)
	})

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return models.NewPaginationResult(matched[start:end], total, params.Page, params.PageSize), nil
}

func matches(job *models.Job, f models.JobFilters) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(job.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Username != "" && job.Username != f.Username {
		return false
	}
	if f.AppName != "" && job.AppName != f.AppName {
		return false
	}
	if len(f.Status) > 0 {
		found := false
		for _, s := range f.Status {
			if job.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Enable != nil && job.Enable != *f.Enable {
		return false
	}
	return true
}

// less mirrors the Postgres ordering: requested fields, then created_at desc, then id desc.
func less(a, b models.Job, sorts []models.SortField) bool {
	for _, s := range sorts {
		c := compareField(a, b, s.Field)
		if c == 0 {
			continue
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	}
	if len(sorts) == 0 && !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func compareField(a, b models.Job, field string) int {
	switch field {
	case "id":
		return compareInt(a.ID, b.ID)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "username":
		return strings.Compare(a.Username, b.Username)
	case "app_name":
		return strings.Compare(a.AppName, b.AppName)
	case "status":
		return strings.Compare(a.Status.String(), b.Status.String())
	case "enable":
		return compareInt(boolInt(a.Enable), boolInt(b.Enable))
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "last_executed_at":
		return compareTime(a.LastExecutedAt, b.LastExecutedAt)
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// compareTime orders never-executed jobs last, as Postgres does for NULLs ascending.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func cloneJob(job *models.Job) models.Job {
	c := *job
	c.Timers = make(models.Timers, len(job.Timers))
	for i, t := range job.Timers {
		c.Timers[i] = models.Timer{Cron: t.Cron, Nodes: append([]string(nil), t.Nodes...)}
	}
	if job.LastExecutedAt != nil {
		at := *job.LastExecutedAt
		c.LastExecutedAt = &at
	}
	return c
}

func (s *JobStore) FindByID(ctx context.Context, id int64) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := cloneJob(job)
	return &c, nil
}

func (s *JobStore) Create(ctx context.Context, d models.JobDraft) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	job := &models.Job{ID: s.nextID, Status: state.StatusIdle, CreatedAt: s.now()}
	applyDraft(job, d)
	s.jobs[job.ID] = job
	return job.ID, nil
}

func (s *JobStore) Update(ctx context.Context, id int64, d models.JobDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	applyDraft(job, d)
	return nil
}

func applyDraft(job *models.Job, d models.JobDraft) {
	job.Name = d.Name
	job.Cron = d.Cron
	job.Username = d.Username
	job.AppName = d.AppName
	job.Enable = d.Enable
	job.Zone = d.Zone
	job.Env = d.Env
	job.Script = d.Script
	job.Timeout = d.Timeout
	job.RetryCount = d.RetryCount
	job.RetryInterval = d.RetryInterval
	job.Timers = cloneJob(&models.Job{Timers: d.Timers}).Timers
}

func (s *JobStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *JobStore) CountAllJobsGroupedByStatus(ctx context.Context) (map[state.JobStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[state.JobStatus]int, len(state.AllStatuses))
	for _, status := range state.AllStatuses {
		result[status] = 0
	}
	for _, job := range s.jobs {
		result[job.Status]++
	}
	return result, nil
}

var _ store.JobStore = (*JobStore)(nil)
