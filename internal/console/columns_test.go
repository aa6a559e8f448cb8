package console

import (
	"context"
	"testing"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(t *testing.T, cols []ColumnSpec, key string) ColumnSpec {
	t.Helper()
	for _, c := range cols {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("no column %q", key)
	return ColumnSpec{}
}

func keys(cols []ColumnSpec) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Key
	}
	return out
}

func TestProjectColumns_Order(t *testing.T) {
	cols := ProjectColumns(nil)
	assert.Equal(t, []string{"name", "cron", "status", "username", "app_name", "enable", "last_executed_at"}, keys(cols))
	assert.False(t, column(t, cols, "cron").Searchable)
	assert.False(t, column(t, cols, "last_executed_at").Searchable)
}

func TestSearchFields_WeightedFirstThenDeclarationOrder(t *testing.T) {
	fields := SearchFields(ProjectColumns([]string{"juno-admin"}))
	assert.Equal(t, []string{"app_name", "enable", "name", "status", "username"}, keys(fields))
}

func TestProjectColumns_AppEnumFollowsAppNames(t *testing.T) {
	app := column(t, ProjectColumns([]string{"b", "a", "c"}), "app_name")
	var values []string
	for _, o := range app.ValueEnum {
		values = append(values, o.Value)
	}
	assert.Equal(t, []string{"b", "a", "c"}, values)
	assert.Equal(t, FilterSelect, app.Filter)
}

func TestProjectColumns_AppFilterFallsBackToText(t *testing.T) {
	app := column(t, ProjectColumns(nil), "app_name")
	assert.True(t, app.Searchable)
	assert.Equal(t, FilterText, app.Filter)
	assert.Empty(t, app.ValueEnum)

	app = column(t, ProjectColumns([]string{"juno-admin"}), "app_name")
	assert.Equal(t, FilterSelect, app.Filter)
	assert.Len(t, app.ValueEnum, 1)
}

func TestRender_CronTag(t *testing.T) {
	cell := column(t, ProjectColumns(nil), "cron").Render(sampleJob())
	assert.Equal(t, CellTag, cell.Kind)
	assert.Equal(t, "processing", cell.Color)
	assert.Equal(t, "clock", cell.Icon)
	assert.Equal(t, sampleJob().Cron, cell.Text)
}

func TestProjectColumns_EnableFilterIsBinary(t *testing.T) {
	enable := column(t, ProjectColumns(nil), "enable")
	require.Len(t, enable.ValueEnum, 2)
	assert.Equal(t, "true", enable.ValueEnum[0].Value)
	assert.Equal(t, "启用", enable.ValueEnum[0].Label)
	assert.Equal(t, "false", enable.ValueEnum[1].Value)
	assert.Equal(t, "未启用", enable.ValueEnum[1].Label)
}

func TestRender_EnabledCell(t *testing.T) {
	enable := column(t, ProjectColumns(nil), "enable")
	for _, on := range []bool{true, false} {
		job := sampleJob()
		job.Enable = on
		cell := enable.Render(job)
		want := EnabledBadge(on)
		assert.Equal(t, want.Label, cell.Text)
		assert.Equal(t, want.Color, cell.Color)
		assert.False(t, cell.Invalid)
	}
}

func TestRender_StatusCell(t *testing.T) {
	status := column(t, ProjectColumns(nil), "status")
	for _, s := range state.AllStatuses {
		job := sampleJob()
		job.Status = s
		want, _ := StatusBadge(s)
		cell := status.Render(job)
		assert.Equal(t, want.Label, cell.Text)
		assert.False(t, cell.Invalid)
	}

	job := sampleJob()
	job.Status = "archived"
	assert.NotPanics(t, func() {
		cell := status.Render(job)
		assert.True(t, cell.Invalid)
		assert.Equal(t, "archived", cell.Text)
	})
}

func TestRender_NameLinksToTaskHistory(t *testing.T) {
	cell := column(t, ProjectColumns(nil), "name").Render(sampleJob())
	assert.Equal(t, CellLink, cell.Kind)
	assert.Equal(t, "/cron-jobs/1/tasks", cell.Href)
	assert.Equal(t, "定时清理过期文件", cell.Text)
}

func TestRender_LastExecuted(t *testing.T) {
	col := column(t, ProjectColumns(nil), "last_executed_at")
	assert.Equal(t, "-", col.Render(sampleJob()).Text)

	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local)
	job := sampleJob()
	job.LastExecutedAt = &at
	assert.Equal(t, "2024-03-01 08:30:00", col.Render(job).Text)
}

func TestAppFilterSource_DistinctInOrder(t *testing.T) {
	logger, _ := test.NewNullLogger()
	reg := newFakeRegistry()
	reg.apps = []models.AppItem{{AppName: "juno-admin"}, {AppName: "billing"}, {AppName: "juno-admin"}, {AppName: " "}}

	src := NewAppFilterSource(reg, logger)
	require.NoError(t, src.Load(context.Background()))
	assert.Equal(t, []string{"juno-admin", "billing"}, src.Names())
	assert.Equal(t, uint64(1), src.Version())

	app := column(t, NewProjector(src).Columns(), "app_name")
	var values []string
	for _, o := range app.ValueEnum {
		values = append(values, o.Value)
	}
	assert.Equal(t, src.Names(), values)
}

func TestAppFilterSource_FailureLeavesOptionsEmpty(t *testing.T) {
	logger, hook := test.NewNullLogger()
	reg := newFakeRegistry()
	reg.apps = []models.AppItem{{AppName: "juno-admin"}}

	src := NewAppFilterSource(reg, logger)
	require.NoError(t, src.Load(context.Background()))

	reg.appsErr = errUnavailable
	err := src.Load(context.Background())
	require.Error(t, err)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, LoadFailed, kind)
	assert.ErrorIs(t, err, errUnavailable)
	assert.Empty(t, src.Names())
	assert.Equal(t, err, src.Err())
	assert.NotEmpty(t, hook.Entries)
}

func TestProjector_RecomputesOnlyWhenAppsChange(t *testing.T) {
	logger, _ := test.NewNullLogger()
	reg := newFakeRegistry()
	reg.apps = []models.AppItem{{AppName: "a"}}
	src := NewAppFilterSource(reg, logger)
	p := NewProjector(src)

	assert.Empty(t, column(t, p.Columns(), "app_name").ValueEnum)

	require.NoError(t, src.Load(context.Background()))
	first := p.Columns()
	assert.Len(t, column(t, first, "app_name").ValueEnum, 1)

	second := p.Columns()
	assert.Same(t, &column(t, first, "app_name").ValueEnum[0], &column(t, second, "app_name").ValueEnum[0])
}
