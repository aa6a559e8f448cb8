package console

import (
	"context"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// TableView is a snapshot of what the job table currently shows.
type TableView struct {
	Params  models.ListParams
	Rows    []models.Job
	Total   int
	Err     error
	Loading bool
}

// Table applies pages from a DataSource. Only one fetch runs at a time and only the
// result for the most recently requested parameters is ever applied.
type Table struct {
	source *DataSource
	log    logrus.FieldLogger
	sem    *semaphore.Weighted

	mu      sync.Mutex
	seq     uint64
	params  models.ListParams
	rows    []models.Job
	total   int
	err     error
	loading bool
}

func NewTable(source *DataSource, log logrus.FieldLogger) *Table {
	return &Table{
		source: source,
		log:    log,
		sem:    semaphore.NewWeighted(1),
		params: source.normalize(models.ListParams{}),
	}
}

// Request asks for the page described by params. It returns once the request has
// been applied, discarded as stale, or skipped because a newer one arrived while it
// was waiting for the previous fetch to finish.
func (t *Table) Request(ctx context.Context, params models.ListParams) error {
	params = t.source.normalize(params)

	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.params = params
	t.loading = true
	t.mu.Unlock()

	if err := t.sem.Acquire(ctx, 1); err != nil {
		lerr := &Error{Kind: LoadFailed, Op: "fetch jobs", Err: err}
		t.settleIfLatest(seq, lerr)
		return lerr
	}
	defer t.sem.Release(1)

	if !t.isLatest(seq) {
		return nil
	}

	page, err := t.source.FetchPage(ctx, params)

	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq {
		t.log.WithField("params", params.Key()).Debug("discarding stale job page")
		return nil
	}
	t.loading = false
	if err != nil {
		t.err = err
		t.log.WithError(err).WithField("params", params.Key()).Warn("job list fetch failed")
		return err
	}
	t.err = nil
	t.rows = page.Rows
	t.total = page.Total
	return nil
}

// Refresh re-requests the current parameters.
func (t *Table) Refresh(ctx context.Context) error {
	t.mu.Lock()
	params := t.params
	t.mu.Unlock()
	return t.Request(ctx, params)
}

func (t *Table) View() TableView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TableView{
		Params:  t.params,
		Rows:    append([]models.Job(nil), t.rows...),
		Total:   t.total,
		Err:     t.err,
		Loading: t.loading,
	}
}

func (t *Table) isLatest(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq
}

// settleIfLatest ends a request that never fetched. The rows still belong to older
// params, so the table reports err instead of showing them as the current page.
func (t *Table) settleIfLatest(seq uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq == t.seq {
		t.loading = false
		t.err = err
	}
}
