package console

import (
	"context"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

// ListPage is one page of jobs as applied to the table.
type ListPage struct {
	Rows  []models.Job `json:"data"`
	Total int          `json:"total"`
}

// DataSource turns table parameters into a registry query.
type DataSource struct {
	registry        JobRegistry
	timeout         time.Duration
	defaultPageSize int
}

func NewDataSource(registry JobRegistry, timeout time.Duration, defaultPageSize int) *DataSource {
	return &DataSource{registry: registry, timeout: timeout, defaultPageSize: defaultPageSize}
}

func (d *DataSource) normalize(params models.ListParams) models.ListParams {
	if params.PageSize <= 0 && d.defaultPageSize > 0 {
		params.PageSize = d.defaultPageSize
	}
	return params.Normalize()
}

// FetchPage runs one registry query. An empty page is a result, not an error.
func (d *DataSource) FetchPage(ctx context.Context, params models.ListParams) (ListPage, error) {
	params = d.normalize(params)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	res, err := d.registry.FetchJobs(ctx, params)
	if err != nil {
		return ListPage{}, &Error{Kind: LoadFailed, Op: "fetch jobs", Err: err}
	}
	if res == nil {
		return ListPage{Rows: []models.Job{}}, nil
	}
	rows := res.Items
	if rows == nil {
		rows = []models.Job{}
	}
	return ListPage{Rows: rows, Total: res.TotalItems}, nil
}
