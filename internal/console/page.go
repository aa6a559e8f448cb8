// Package console is the job list controller behind the cron job management page:
// the filterable job table, its columns, the delete and trigger confirm dialogs and
// the create/edit dialog state. One Page serves one operator session.
package console

import (
	"context"
	"io"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type pageOptions struct {
	fetchTimeout  time.Duration
	actionTimeout time.Duration
	pageSize      int
	log           logrus.FieldLogger
}

type Option func(*pageOptions)

func WithFetchTimeout(d time.Duration) Option {
	return func(o *pageOptions) { o.fetchTimeout = d }
}

func WithActionTimeout(d time.Duration) Option {
	return func(o *pageOptions) { o.actionTimeout = d }
}

func WithPageSize(n int) Option {
	return func(o *pageOptions) { o.pageSize = n }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *pageOptions) { o.log = log }
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type Page struct {
	log       logrus.FieldLogger
	apps      *AppFilterSource
	projector *Projector
	table     *Table
	actions   *Actions
	create    *CreateModal
	edit      *EditModal
	notices   *Notices
}

func NewPage(jobs JobRegistry, apps AppRegistry, opts ...Option) *Page {
	o := pageOptions{
		fetchTimeout:  10 * time.Second,
		actionTimeout: 30 * time.Second,
		pageSize:      models.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = discardLogger()
	}

	p := &Page{log: o.log, notices: &Notices{}}
	p.apps = NewAppFilterSource(apps, o.log)
	p.projector = NewProjector(p.apps)
	p.table = NewTable(NewDataSource(jobs, o.fetchTimeout, o.pageSize), o.log)
	p.actions = NewActions(jobs, p.table, p.notices, o.actionTimeout, o.log)
	p.create = NewCreateModal(p.table.Refresh)
	p.edit = NewEditModal(p.table.Refresh)
	return p
}

// MountResult carries the outcome of each of the two mount loads separately.
type MountResult struct {
	AppsErr error
	ListErr error
}

// Mount loads the app list and the first job page side by side. Neither failure
// stops the other.
func (p *Page) Mount(ctx context.Context, params models.ListParams) MountResult {
	var res MountResult
	var g errgroup.Group
	g.Go(func() error {
		res.AppsErr = p.apps.Load(ctx)
		return nil
	})
	g.Go(func() error {
		res.ListErr = p.table.Request(ctx, params)
		return nil
	})
	_ = g.Wait()
	return res
}

func (p *Page) Apps() *AppFilterSource    { return p.apps }
func (p *Page) Table() *Table             { return p.table }
func (p *Page) Actions() *Actions         { return p.actions }
func (p *Page) CreateModal() *CreateModal { return p.create }
func (p *Page) EditModal() *EditModal     { return p.edit }

func (p *Page) Columns() []ColumnSpec {
	return p.projector.Columns()
}

// Notices drains the messages waiting to be shown.
func (p *Page) Notices() []Notice {
	return p.notices.Drain()
}

// Notify queues a message for the next render, e.g. after a dialog form was saved.
func (p *Page) Notify(level NoticeLevel, msg string) {
	p.notices.Push(level, msg)
}

// Row is one job with its cells in column order.
type Row struct {
	Job   models.Job
	Cells []Cell
}

// View is everything needed to draw the page once.
type View struct {
	Columns      []ColumnSpec
	SearchFields []ColumnSpec
	Table        TableView
	Rows         []Row
	AppsErr      error
	Dialogs      []*Workflow
	CreateOpen   bool
	EditTarget   *models.Job
}

func (p *Page) View() View {
	cols := p.Columns()
	tv := p.table.View()

	v := View{
		Columns:      cols,
		SearchFields: SearchFields(cols),
		Table:        tv,
		Rows:         p.renderRows(cols, tv.Rows),
		AppsErr:      p.apps.Err(),
		Dialogs:      p.actions.Pending(),
		CreateOpen:   p.create.Visible(),
	}
	if job, ok := p.edit.Target(); ok {
		v.EditTarget = &job
	}
	return v
}

func (p *Page) renderRows(cols []ColumnSpec, jobs []models.Job) []Row {
	rows := make([]Row, 0, len(jobs))
	for _, job := range jobs {
		cells := make([]Cell, len(cols))
		for i, c := range cols {
			cells[i] = c.Render(job)
			if cells[i].Invalid {
				p.log.WithFields(logrus.Fields{
					"job_id": job.ID,
					"column": c.Key,
					"value":  cells[i].Text,
					"kind":   DataContractViolation,
				}).Warn("unrenderable job value")
			}
		}
		rows = append(rows, Row{Job: job, Cells: cells})
	}
	return rows
}
