package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/registry"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/RezaEskandarii/jobconsole/internal/store/memory"
	"github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConsole struct {
	server *httptest.Server
	client *http.Client
	jobs   *memory.JobStore
	outbox *memory.TriggerOutbox
	users  *memory.UserStore
}

func seedJob() models.Job {
	last := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return models.Job{
		ID:             1,
		Name:           "定时清理过期文件",
		Cron:           "0 0 0 * * *",
		Username:       "段律",
		AppName:        "juno-admin",
		Status:         state.StatusProcessing,
		Enable:         true,
		LastExecutedAt: &last,
		Timers:         models.Timers{{Cron: "0 0 * * * *", Nodes: []string{"dev.wh.a-1"}}},
	}
}

func newTestConsole(t *testing.T, useAuth bool, opts ...HandlerOption) *testConsole {
	t.Helper()
	logger, _ := test.NewNullLogger()

	jobs := memory.NewJobStore(seedJob())
	outbox := memory.NewTriggerOutbox()
	users := memory.NewUserStore()
	svc := registry.NewService(jobs, memory.NewAppStore("juno-admin", "juno-api"), outbox, logger)

	cfg := &config.ConsoleConfig{
		SecretKey:            "test-secret",
		DashboardAuthEnabled: useAuth,
		Console: config.ConsoleSettings{
			PageSize:      20,
			FetchTimeout:  time.Second,
			ActionTimeout: time.Second,
		},
	}
	handler, err := NewRouteHandler(svc, users, cfg, logger, opts...)
	require.NoError(t, err)

	server := httptest.NewServer(handler.Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testConsole{
		server: server,
		client: &http.Client{Jar: jar},
		jobs:   jobs,
		outbox: outbox,
		users:  users,
	}
}

func (c *testConsole) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := c.client.Get(c.server.URL + path)
	require.NoError(t, err)
	return readBody(t, resp)
}

func (c *testConsole) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := c.client.PostForm(c.server.URL+path, form)
	require.NoError(t, err)
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestCronJobsPage_RendersRows(t *testing.T) {
	c := newTestConsole(t, false)

	status, body := c.get(t, "/cron-jobs")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "定时清理过期文件")
	assert.Contains(t, body, "执行中")
	assert.Contains(t, body, "启用")
	assert.Contains(t, body, "2024-05-01")
	assert.Contains(t, body, `href="/cron-jobs/1/tasks"`)
	assert.Contains(t, body, "juno-api", "app filter options come from the app list")
	assert.Contains(t, body, "手动触发")
	assert.Contains(t, body, "bi-clock")
	assert.NotContains(t, body, ">idle<", "status cards show labels, not codes")
}

func TestCronJobsPage_ReloadKeepsFilters(t *testing.T) {
	c := newTestConsole(t, false)

	_, body := c.get(t, "/cron-jobs?app_name=juno-admin&page=1")
	assert.Contains(t, body, `href="/cron-jobs?app_name=juno-admin&amp;reload=1"`)

	status, body := c.get(t, "/cron-jobs?app_name=juno-admin&reload=1")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "定时清理过期文件")
}

func TestCronJobsPage_Filters(t *testing.T) {
	c := newTestConsole(t, false)

	_, body := c.get(t, "/cron-jobs?status=failed")
	assert.NotContains(t, body, "定时清理过期文件")
	assert.Contains(t, body, "暂无数据")

	_, body = c.get(t, "/cron-jobs?enable=true&app_name=juno-admin")
	assert.Contains(t, body, "定时清理过期文件")
}

func TestIndex_RedirectsToList(t *testing.T) {
	c := newTestConsole(t, false)
	status, body := c.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "定时任务")
}

func TestDeleteFlow(t *testing.T) {
	c := newTestConsole(t, false)
	c.get(t, "/cron-jobs")

	_, body := c.post(t, "/cron-jobs/1/delete", nil)
	assert.Contains(t, body, "确认删除任务")
	assert.Contains(t, body, "删除后不可恢复，确认删除？")
	assert.Contains(t, body, "我点错了")

	_, body = c.post(t, "/cron-jobs/actions/delete/1/confirm", nil)
	assert.Contains(t, body, "删除成功!")
	assert.NotContains(t, body, "确认删除任务")
	assert.Contains(t, body, "暂无数据")

	_, err := c.jobs.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTriggerFlow_CancelDoesNothing(t *testing.T) {
	c := newTestConsole(t, false)
	c.get(t, "/cron-jobs")

	_, body := c.post(t, "/cron-jobs/1/trigger", nil)
	assert.Contains(t, body, "确认触发任务")

	_, body = c.post(t, "/cron-jobs/actions/trigger/1/cancel", nil)
	assert.NotContains(t, body, "确认触发任务")
	assert.Empty(t, c.outbox.Requests())
}

func TestTriggerFlow_Confirm(t *testing.T) {
	c := newTestConsole(t, false)
	c.get(t, "/cron-jobs")

	c.post(t, "/cron-jobs/1/trigger", nil)
	_, body := c.post(t, "/cron-jobs/actions/trigger/1/confirm", nil)
	assert.Contains(t, body, "触发成功!")

	reqs := c.outbox.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, int64(1), reqs[0].JobID)
}

func TestConfirm_WithoutOpenDialog(t *testing.T) {
	c := newTestConsole(t, false)
	c.get(t, "/cron-jobs")

	_, body := c.post(t, "/cron-jobs/actions/delete/1/confirm", nil)
	assert.Contains(t, body, "对话框已关闭")

	_, err := c.jobs.FindByID(context.Background(), 1)
	assert.NoError(t, err)
}

func TestOpenAction_UnknownJob(t *testing.T) {
	c := newTestConsole(t, false)
	_, body := c.post(t, "/cron-jobs/42/delete", nil)
	assert.Contains(t, body, "任务 42 不存在")
}

func TestCreateJob(t *testing.T) {
	c := newTestConsole(t, false)

	status, body := c.get(t, "/cron-jobs/new")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "新建任务")

	status, body = c.post(t, "/cron-jobs/new", url.Values{"cron": {"0 0 0 * * *"}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "name is required")
	assert.Contains(t, body, "app_name is required")

	status, body = c.post(t, "/cron-jobs/new", url.Values{
		"name":     {"同步账单"},
		"cron":     {"0 */5 * * * *"},
		"app_name": {"juno-api"},
		"enable":   {"true"},
		"timers":   {"0 0 * * * * | node-a, node-b"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "创建成功!")
	assert.Contains(t, body, "同步账单")
}

func TestCreateJob_BadTimers(t *testing.T) {
	c := newTestConsole(t, false)
	status, body := c.post(t, "/cron-jobs/new", url.Values{
		"name":     {"x"},
		"cron":     {"0 0 0 * * *"},
		"app_name": {"juno-api"},
		"timers":   {"no separator"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "timers line 1")
}

func TestEditJob(t *testing.T) {
	c := newTestConsole(t, false)

	status, body := c.get(t, "/cron-jobs/1/edit")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "编辑任务")
	assert.Contains(t, body, "dev.wh.a-1")

	form := url.Values{
		"name":     {"清理过期文件"},
		"cron":     {"0 0 1 * * *"},
		"app_name": {"juno-admin"},
		"timers":   {"0 0 * * * * | dev.wh.a-1"},
	}
	_, body = c.post(t, "/cron-jobs/1/edit", form)
	assert.Contains(t, body, "保存成功!")

	job, err := c.jobs.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "清理过期文件", job.Name)
	assert.False(t, job.Enable)
}

func TestEditJob_RequiresOpenDialog(t *testing.T) {
	c := newTestConsole(t, false)
	_, body := c.post(t, "/cron-jobs/1/edit", url.Values{"name": {"x"}})
	assert.Contains(t, body, "编辑窗口已关闭")

	job, err := c.jobs.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "定时清理过期文件", job.Name)
}

func TestEditJob_CancelClosesDialog(t *testing.T) {
	c := newTestConsole(t, false)
	c.get(t, "/cron-jobs/1/edit")
	c.post(t, "/cron-jobs/modal/cancel", nil)

	_, body := c.post(t, "/cron-jobs/1/edit", url.Values{"name": {"x"}})
	assert.Contains(t, body, "编辑窗口已关闭")
}

func TestJobTasksPage(t *testing.T) {
	c := newTestConsole(t, false)
	status, body := c.get(t, "/cron-jobs/1/tasks")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "dev.wh.a-1")
	assert.Contains(t, body, "执行中")

	status, _ = c.get(t, "/cron-jobs/abc/tasks")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_CronJobs(t *testing.T) {
	c := newTestConsole(t, false)

	status, body := c.get(t, "/api/cron-jobs?status=processing")
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Data  []models.Job `json:"data"`
		Total int          `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "定时清理过期文件", page.Data[0].Name)

	_, body = c.get(t, "/api/cron-jobs?status=failed")
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Data)
}

func TestAPI_Columns(t *testing.T) {
	c := newTestConsole(t, false)

	_, body := c.get(t, "/api/columns")
	var out struct {
		Columns []struct {
			Key string `json:"key"`
		} `json:"columns"`
		SearchFields []string `json:"search_fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Columns, 7)
	assert.Equal(t, "name", out.Columns[0].Key)
	assert.Equal(t, []string{"app_name", "enable", "name", "status", "username"}, out.SearchFields)
}

func TestHealthz(t *testing.T) {
	c := newTestConsole(t, false)
	status, body := c.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	down := newTestConsole(t, false, WithHealthCheck(func(context.Context) error {
		return errors.New("registry down")
	}))
	status, _ = down.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAuth_LoginFlow(t *testing.T) {
	c := newTestConsole(t, true)
	_, err := c.users.Create(context.Background(), "admin", "secret")
	require.NoError(t, err)

	_, body := c.get(t, "/cron-jobs")
	assert.Contains(t, body, `action="/login"`)

	_, body = c.post(t, "/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Contains(t, body, "invalid username or password")

	_, body = c.post(t, "/login", url.Values{"username": {"admin"}, "password": {"secret"}})
	assert.Contains(t, body, "定时清理过期文件")
	assert.Contains(t, body, "admin")

	_, body = c.get(t, "/logout")
	assert.Contains(t, body, `action="/login"`)

	_, body = c.get(t, "/cron-jobs")
	assert.Contains(t, body, `action="/login"`)
}

func TestAuth_TriggerRecordsOperator(t *testing.T) {
	c := newTestConsole(t, true)
	_, err := c.users.Create(context.Background(), "admin", "secret")
	require.NoError(t, err)

	c.post(t, "/login", url.Values{"username": {"admin"}, "password": {"secret"}})
	c.post(t, "/cron-jobs/1/trigger", nil)
	c.post(t, "/cron-jobs/actions/trigger/1/confirm", nil)

	reqs := c.outbox.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "admin", reqs[0].RequestedBy)
}
