package models

import (
	"testing"

	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimers_ScanAndValue(t *testing.T) {
	timers := Timers{{Cron: "0 0 * * * *", Nodes: []string{"dev.wh.a-1", "dev.wh.a-2"}}}

	v, err := timers.Value()
	require.NoError(t, err)

	var scanned Timers
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, timers, scanned)

	require.NoError(t, scanned.Scan(`[]`))
	assert.Empty(t, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestTimers_NilValueIsEmptyArray(t *testing.T) {
	v, err := Timers(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestListParams_Normalize(t *testing.T) {
	p := ListParams{
		Page:     0,
		PageSize: 1000,
		Sort:     []SortField{{Field: "script"}, {Field: "name", Desc: true}},
		Filters:  JobFilters{Name: "  清理 ", AppName: " juno-admin"},
	}.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, []SortField{{Field: "name", Desc: true}}, p.Sort)
	assert.Equal(t, "清理", p.Filters.Name)
	assert.Equal(t, "juno-admin", p.Filters.AppName)
	assert.Equal(t, 0, p.Offset())

	p = ListParams{Page: 3}.Normalize()
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 2*DefaultPageSize, p.Offset())
}

func TestListParams_KeyDistinguishesEnableFilter(t *testing.T) {
	unset := ListParams{Page: 1, PageSize: 10}
	disabled := ListParams{Page: 1, PageSize: 10, Filters: JobFilters{Enable: BoolPtr(false)}}
	enabled := ListParams{Page: 1, PageSize: 10, Filters: JobFilters{Enable: BoolPtr(true)}}

	assert.NotEqual(t, unset.Key(), disabled.Key())
	assert.NotEqual(t, disabled.Key(), enabled.Key())
	assert.Equal(t, unset.Key(), ListParams{Page: 1, PageSize: 10}.Key())

	withStatus := ListParams{Page: 1, PageSize: 10, Filters: JobFilters{Status: []state.JobStatus{state.StatusFailed}}}
	assert.NotEqual(t, unset.Key(), withStatus.Key())
}

func TestNewPaginationResult(t *testing.T) {
	r := NewPaginationResult([]int{1, 2}, 5, 2, 2)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNextPage)
	assert.True(t, r.HasPreviousPage)

	empty := NewPaginationResult[int](nil, 0, 1, 20)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
}

func TestDraftOf_CopiesTimers(t *testing.T) {
	job := Job{ID: 1, Name: "a", Timers: Timers{{Cron: "* * * * * *", Nodes: []string{"n"}}}}
	d := DraftOf(job)
	d.Timers[0].Cron = "changed"
	assert.Equal(t, "* * * * * *", job.Timers[0].Cron)
}
