package console

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/sirupsen/logrus"
)

type ActionKind string

const (
	ActionDelete  ActionKind = "delete"
	ActionTrigger ActionKind = "trigger"
)

func ParseActionKind(s string) (ActionKind, bool) {
	switch k := ActionKind(s); k {
	case ActionDelete, ActionTrigger:
		return k, true
	}
	return "", false
}

type WorkflowState int

const (
	Idle WorkflowState = iota
	Confirming
	Executing
	Succeeded
	Failed
)

func (s WorkflowState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirming:
		return "confirming"
	case Executing:
		return "executing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("WorkflowState(%d)", int(s))
}

// Prompt is the text of a confirm dialog. Target is the job name and is meant to be
// emphasized between Lead and Tail.
type Prompt struct {
	Title      string
	Lead       string
	Target     string
	Tail       string
	OkText     string
	CancelText string
}

func (p Prompt) Text() string {
	return p.Lead + " " + p.Target + " " + p.Tail
}

const (
	okText     = "确定"
	cancelText = "我点错了"
)

func promptFor(kind ActionKind, name string) Prompt {
	p := Prompt{Target: name, OkText: okText, CancelText: cancelText}
	switch kind {
	case ActionDelete:
		p.Title = "确认删除?"
		p.Lead = "确认删除任务"
		p.Tail = "删除后不可恢复，确认删除？"
	case ActionTrigger:
		p.Title = "确认触发?"
		p.Lead = "确认触发任务"
		p.Tail = "?"
	}
	return p
}

var successMessages = map[ActionKind]string{
	ActionDelete:  "删除成功!",
	ActionTrigger: "触发成功!",
}

var failureMessages = map[ActionKind]string{
	ActionDelete:  "删除失败",
	ActionTrigger: "触发失败",
}

type flowKey struct {
	kind ActionKind
	id   int64
}

// Actions owns the open confirm dialogs of a page, at most one per job and action kind.
type Actions struct {
	registry JobRegistry
	table    *Table
	notices  *Notices
	timeout  time.Duration
	log      logrus.FieldLogger

	mu    sync.Mutex
	flows map[flowKey]*Workflow
}

func NewActions(registry JobRegistry, table *Table, notices *Notices, timeout time.Duration, log logrus.FieldLogger) *Actions {
	return &Actions{
		registry: registry,
		table:    table,
		notices:  notices,
		timeout:  timeout,
		log:      log,
		flows:    make(map[flowKey]*Workflow),
	}
}

// Open shows the confirm dialog for kind on job. If that dialog is already open the
// existing workflow is returned unchanged.
func (a *Actions) Open(kind ActionKind, job models.Job) (*Workflow, error) {
	if _, ok := ParseActionKind(string(kind)); !ok {
		return nil, fmt.Errorf("console: unknown action %q", kind)
	}
	key := flowKey{kind: kind, id: job.ID}

	a.mu.Lock()
	defer a.mu.Unlock()
	if wf, ok := a.flows[key]; ok {
		return wf, nil
	}
	wf := &Workflow{
		actions: a,
		kind:    kind,
		jobID:   job.ID,
		jobName: job.Name,
		state:   Confirming,
	}
	a.flows[key] = wf
	return wf, nil
}

func (a *Actions) Get(kind ActionKind, id int64) (*Workflow, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	wf, ok := a.flows[flowKey{kind: kind, id: id}]
	return wf, ok
}

// Pending returns every dialog still open, ordered by job id then kind.
func (a *Actions) Pending() []*Workflow {
	a.mu.Lock()
	out := make([]*Workflow, 0, len(a.flows))
	for _, wf := range a.flows {
		out = append(out, wf)
	}
	a.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].jobID != out[j].jobID {
			return out[i].jobID < out[j].jobID
		}
		return out[i].kind < out[j].kind
	})
	return out
}

func (a *Actions) forget(wf *Workflow) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := flowKey{kind: wf.kind, id: wf.jobID}
	if a.flows[key] == wf {
		delete(a.flows, key)
	}
}

func (a *Actions) execute(ctx context.Context, kind ActionKind, id int64) error {
	switch kind {
	case ActionDelete:
		return a.registry.DeleteJob(ctx, id)
	case ActionTrigger:
		return a.registry.TriggerJob(ctx, id)
	}
	return fmt.Errorf("console: unknown action %q", kind)
}

// Workflow is one confirm-gated action on one job:
// Idle -> Confirming -> Executing -> Succeeded | Failed.
// Succeeded closes the dialog; Failed keeps it open for a retry or a cancel.
type Workflow struct {
	actions *Actions
	kind    ActionKind
	jobID   int64
	jobName string

	mu      sync.Mutex
	state   WorkflowState
	lastErr error
}

func (w *Workflow) Kind() ActionKind { return w.kind }
func (w *Workflow) JobID() int64     { return w.jobID }
func (w *Workflow) Prompt() Prompt   { return promptFor(w.kind, w.jobName) }

func (w *Workflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err is the failure shown in the dialog, nil unless the state is Failed.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Confirm issues the request. It is not aborted when ctx is cancelled; it is bounded
// by the action timeout instead.
func (w *Workflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	switch w.state {
	case Executing:
		w.mu.Unlock()
		return ErrBusy
	case Confirming, Failed:
	default:
		w.mu.Unlock()
		return ErrClosed
	}
	w.state = Executing
	w.lastErr = nil
	w.mu.Unlock()

	a := w.actions
	log := a.log.WithFields(logrus.Fields{"action": w.kind, "job_id": w.jobID})

	rctx := context.WithoutCancel(ctx)
	if a.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, a.timeout)
		defer cancel()
	}

	if err := a.execute(rctx, w.kind, w.jobID); err != nil {
		aerr := &ActionError{Action: w.kind, JobID: w.jobID, Reason: err}
		w.mu.Lock()
		w.state = Failed
		w.lastErr = aerr
		w.mu.Unlock()

		log.WithError(err).Error("job action failed")
		a.notices.Error(fmt.Sprintf("%s: %v", failureMessages[w.kind], err))
		return aerr
	}

	w.mu.Lock()
	w.state = Succeeded
	w.mu.Unlock()
	log.Info("job action succeeded")
	a.notices.Success(successMessages[w.kind])

	a.forget(w)
	w.mu.Lock()
	w.state = Idle
	w.mu.Unlock()

	// A failed refresh shows up in the table view; the action itself went through.
	_ = a.table.Refresh(context.WithoutCancel(ctx))
	return nil
}

// Cancel closes the dialog without issuing any request.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	if w.state == Executing {
		w.mu.Unlock()
		return ErrBusy
	}
	w.state = Idle
	w.lastErr = nil
	w.mu.Unlock()
	w.actions.forget(w)
	return nil
}
