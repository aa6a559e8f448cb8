package console

import (
	"context"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

// CreateModal is the open/closed state of the "新建" dialog. The form itself submits
// to the registry; the modal only hears whether that succeeded.
type CreateModal struct {
	refresh func(context.Context) error

	mu      sync.Mutex
	visible bool
}

func NewCreateModal(refresh func(context.Context) error) *CreateModal {
	return &CreateModal{refresh: refresh}
}

func (m *CreateModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *CreateModal) Open() {
	m.mu.Lock()
	m.visible = true
	m.mu.Unlock()
}

func (m *CreateModal) Close() {
	m.mu.Lock()
	m.visible = false
	m.mu.Unlock()
}

// OnOk closes the dialog after a successful submit and reloads the current page.
func (m *CreateModal) OnOk(ctx context.Context) error {
	m.Close()
	return m.refresh(ctx)
}

func (m *CreateModal) OnCancel() {
	m.Close()
}

// EditModal is the "编辑" dialog and the job it was opened for.
type EditModal struct {
	refresh func(context.Context) error

	mu      sync.Mutex
	visible bool
	target  *models.Job
}

func NewEditModal(refresh func(context.Context) error) *EditModal {
	return &EditModal{refresh: refresh}
}

func (m *EditModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// OpenFor shows the dialog for job. A copy of job is kept so later changes to the
// caller's value do not leak into the form.
func (m *EditModal) OpenFor(job *models.Job) error {
	if job == nil {
		return ErrNoTarget
	}
	target := *job
	target.Timers = append(models.Timers(nil), job.Timers...)

	m.mu.Lock()
	m.visible = true
	m.target = &target
	m.mu.Unlock()
	return nil
}

// Target returns the job being edited, if the dialog is open.
func (m *EditModal) Target() (models.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.target == nil {
		return models.Job{}, false
	}
	return *m.target, true
}

// Close hides the dialog and forgets its target.
func (m *EditModal) Close() {
	m.mu.Lock()
	m.visible = false
	m.target = nil
	m.mu.Unlock()
}

func (m *EditModal) OnOk(ctx context.Context) error {
	m.Close()
	return m.refresh(ctx)
}

func (m *EditModal) OnCancel() {
	m.Close()
}
