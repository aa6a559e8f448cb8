package models

import (
	"fmt"
	"strings"

	"github.com/RezaEskandarii/jobconsole/internal/state"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortField orders a job listing by one column.
type SortField struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// JobFilters narrows a job listing. Zero values mean "no filter"; Enable is a pointer
// so that "only disabled jobs" can be told apart from "enabled flag not filtered".
type JobFilters struct {
	Name     string            `json:"name,omitempty"`
	Username string            `json:"username,omitempty"`
	AppName  string            `json:"app_name,omitempty"`
	Status   []state.JobStatus `json:"status,omitempty"`
	Enable   *bool             `json:"enable,omitempty"`
}

// ListParams is one page request against the job registry.
type ListParams struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Sort     []SortField `json:"sort,omitempty"`
	Filters  JobFilters  `json:"filters"`
}

// SortableFields are the job columns a listing may be ordered by.
var SortableFields = map[string]struct{}{
	"id":               {},
	"name":             {},
	"username":         {},
	"app_name":         {},
	"status":           {},
	"enable":           {},
	"last_executed_at": {},
	"created_at":       {},
}

// Normalize clamps paging values and drops sort fields that cannot be sorted on.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	var sorts []SortField
	for _, s := range p.Sort {
		if _, ok := SortableFields[s.Field]; ok {
			sorts = append(sorts, s)
		}
	}
	p.Sort = sorts
	p.Filters.Name = strings.TrimSpace(p.Filters.Name)
	p.Filters.Username = strings.TrimSpace(p.Filters.Username)
	p.Filters.AppName = strings.TrimSpace(p.Filters.AppName)
	return p
}

// Offset is the number of rows skipped before this page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Key identifies the parameter set; two requests with the same key ask for the same page.
func (p ListParams) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "p=%d&s=%d", p.Page, p.PageSize)
	for _, s := range p.Sort {
		fmt.Fprintf(&b, "&o=%s:%t", s.Field, s.Desc)
	}
	f := p.Filters
	fmt.Fprintf(&b, "&n=%s&u=%s&a=%s", f.Name, f.Username, f.AppName)
	for _, s := range f.Status {
		fmt.Fprintf(&b, "&st=%s", s)
	}
	if f.Enable != nil {
		fmt.Fprintf(&b, "&e=%t", *f.Enable)
	}
	return b.String()
}

// BoolPtr is a convenience for building Enable filters.
func BoolPtr(b bool) *bool {
	return &b
}
