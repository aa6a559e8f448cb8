// Package registry is the system of record the console talks to: job definitions,
// the application list, and the hand-off of manual trigger requests.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	jobs     store.JobStore
	apps     store.AppStore
	triggers store.TriggerOutbox
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(jobs store.JobStore, apps store.AppStore, triggers store.TriggerOutbox, log logrus.FieldLogger) *Service {
	return &Service{
		jobs:     jobs,
		apps:     apps,
		triggers: triggers,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) FetchJobs(ctx context.Context, params models.ListParams) (*models.PaginationResult[models.Job], error) {
	return s.jobs.List(ctx, params)
}

func (s *Service) FindJob(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

func (s *Service) ListApps(ctx context.Context) ([]models.AppItem, error) {
	return s.apps.List(ctx)
}

func (s *Service) StatusCounts(ctx context.Context) (map[state.JobStatus]int, error) {
	return s.jobs.CountAllJobsGroupedByStatus(ctx)
}

func (s *Service) DeleteJob(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job_id": id, "operator": OperatorFrom(ctx)}).Info("job deleted")
	return nil
}

// TriggerJob asks the scheduling engine to run the job once. The job record itself is not touched;
// its status changes when the engine reports back.
func (s *Service) TriggerJob(ctx context.Context, id int64) error {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return err
	}

	req := models.TriggerRequest{
		RequestID:   uuid.NewString(),
		JobID:       job.ID,
		JobName:     job.Name,
		AppName:     job.AppName,
		RequestedBy: OperatorFrom(ctx),
		RequestedAt: s.now().UTC(),
	}
	if err := s.triggers.Enqueue(ctx, req); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job_id": id, "request_id": req.RequestID, "operator": req.RequestedBy}).Info("job triggered")
	return nil
}

func (s *Service) CreateJob(ctx context.Context, draft models.JobDraft) (int64, error) {
	if err := ValidateDraft(draft); err != nil {
		return 0, err
	}
	id, err := s.jobs.Create(ctx, draft)
	if err != nil {
		return 0, fmt.Errorf("create job: %w", err)
	}
	s.log.WithFields(logrus.Fields{"job_id": id, "app": draft.AppName}).Info("job created")
	return id, nil
}

func (s *Service) UpdateJob(ctx context.Context, id int64, draft models.JobDraft) error {
	if err := ValidateDraft(draft); err != nil {
		return err
	}
	if err := s.jobs.Update(ctx, id, draft); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job_id": id, "app": draft.AppName}).Info("job updated")
	return nil
}
