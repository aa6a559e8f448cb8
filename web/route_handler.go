package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/RezaEskandarii/jobconsole/custom_errors"
	"github.com/RezaEskandarii/jobconsole/internal/console"
	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/registry"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/sirupsen/logrus"
)

const defaultSessionTTL = 8 * time.Hour

type HttpRouteHandler struct {
	registry  *registry.Service
	userStore store.UserStore
	sessions  *sessionStore
	templates map[string]*template.Template
	settings  config.ConsoleSettings
	health    func(context.Context) error
	log       logrus.FieldLogger
	mux       *http.ServeMux

	SecretKey string
	UseAuth   bool
	Port      uint
}

type HandlerOption func(*HttpRouteHandler)

// WithHealthCheck sets the probe behind /healthz.
func WithHealthCheck(fn func(context.Context) error) HandlerOption {
	return func(h *HttpRouteHandler) { h.health = fn }
}

func WithSessionTTL(ttl time.Duration) HandlerOption {
	return func(h *HttpRouteHandler) { h.sessions.ttl = ttl }
}

func NewRouteHandler(
	reg *registry.Service,
	userStore store.UserStore,
	cfg *config.ConsoleConfig,
	log logrus.FieldLogger,
	opts ...HandlerOption,
) (*HttpRouteHandler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	handler := &HttpRouteHandler{
		registry:  reg,
		userStore: userStore,
		templates: templates,
		settings:  cfg.Console,
		health:    func(context.Context) error { return nil },
		log:       log,
		mux:       http.NewServeMux(),
		SecretKey: cfg.SecretKey,
		UseAuth:   cfg.DashboardAuthEnabled,
		Port:      cfg.DashboardPort,
	}
	handler.sessions = newSessionStore(handler.newPage, defaultSessionTTL)
	for _, opt := range opts {
		opt(handler)
	}

	// handle routes
	handler.handleIndex()
	handler.handleCronJobs()
	handler.handleJobActions()
	handler.handleJobForms()
	handler.handleJobTasks()
	handler.handleAPI()
	handler.handleLogin()
	handler.handleLogout()
	return handler, nil
}

func (handler *HttpRouteHandler) newPage() *console.Page {
	return console.NewPage(handler.registry, handler.registry,
		console.WithFetchTimeout(handler.settings.FetchTimeout),
		console.WithActionTimeout(handler.settings.ActionTimeout),
		console.WithPageSize(handler.settings.PageSize),
		console.WithLogger(handler.log),
	)
}

func (handler *HttpRouteHandler) Handler() http.Handler {
	return handler.mux
}

// Serve listens on the configured port until ctx is cancelled.
func (handler *HttpRouteHandler) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", handler.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		printBanner(addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (handler *HttpRouteHandler) fetchCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, handler.settings.FetchTimeout)
}

// Form submissions finish even if the browser goes away.
func (handler *HttpRouteHandler) actionCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), handler.settings.ActionTimeout)
}

func (handler *HttpRouteHandler) handleIndex() {
	handler.mux.HandleFunc("GET /{$}", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
	}))
}

func (handler *HttpRouteHandler) handleCronJobs() {
	handler.mux.HandleFunc("GET /cron-jobs", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page, fresh := handler.sessions.page(w, r)

		params, unknown := parseListParams(r.URL.Query())
		if len(unknown) > 0 {
			handler.log.WithField("status", unknown).Warn("ignoring unknown status filter")
		}

		if fresh || r.URL.Query().Has("reload") {
			page.Mount(ctx, params)
		} else {
			_ = page.Table().Request(ctx, params)
		}

		view := page.View()
		shown := view.Table.Params
		result := models.NewPaginationResult(view.Rows, view.Table.Total, shown.Page, shown.PageSize)

		countCtx, cancel := handler.fetchCtx(ctx)
		counts, err := handler.registry.StatusCounts(countCtx)
		cancel()
		if err != nil {
			handler.log.WithError(err).Warn("status counts unavailable")
		}

		data := NewPaginatedDataMap(*result).
			Add("View", view).
			Add("Params", shown).
			Add("Statuses", state.AllStatuses).
			Add("JobsCount", counts).
			Add("Notices", page.Notices()).
			Add("Flash", takeFlash(w, r, "flash")).
			Add("Warning", takeFlash(w, r, "warning")).
			Add("Operator", registry.OperatorFrom(ctx)).
			Add("UseAuth", handler.UseAuth)

		handler.render(w, http.StatusOK, "cron_jobs", data.Data)
	}))
}

func (handler *HttpRouteHandler) handleJobActions() {
	for _, kind := range []console.ActionKind{console.ActionDelete, console.ActionTrigger} {
		handler.mux.HandleFunc("POST /cron-jobs/{id}/"+string(kind), handler.authMiddleware(handler.openAction(kind)))
	}

	handler.mux.HandleFunc("POST /cron-jobs/actions/{kind}/{id}/confirm", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		page, wf, ok := handler.workflow(w, r)
		if !ok {
			return
		}
		err := wf.Confirm(r.Context())
		if errors.Is(err, console.ErrBusy) {
			page.Notify(console.NoticeInfo, "请求处理中，请稍候")
		}
		http.Redirect(w, r, listURL(page.Table().View().Params), http.StatusSeeOther)
	}))

	handler.mux.HandleFunc("POST /cron-jobs/actions/{kind}/{id}/cancel", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		page, wf, ok := handler.workflow(w, r)
		if !ok {
			return
		}
		if err := wf.Cancel(); errors.Is(err, console.ErrBusy) {
			page.Notify(console.NoticeInfo, "请求处理中，请稍候")
		}
		http.Redirect(w, r, listURL(page.Table().View().Params), http.StatusSeeOther)
	}))
}

// openAction shows the confirm dialog for kind on the job in the path.
func (handler *HttpRouteHandler) openAction(kind console.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}
		page, _ := handler.sessions.page(w, r)
		view := page.Table().View()

		job, found := rowByID(view.Rows, id)
		if !found {
			ctx, cancel := handler.fetchCtx(r.Context())
			defer cancel()
			stored, err := handler.registry.FindJob(ctx, id)
			if err != nil {
				handler.missingJob(w, r, id, err)
				return
			}
			job = *stored
		}

		if _, err := page.Actions().Open(kind, job); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, listURL(view.Params), http.StatusSeeOther)
	}
}

func (handler *HttpRouteHandler) workflow(w http.ResponseWriter, r *http.Request) (*console.Page, *console.Workflow, bool) {
	kind, ok := console.ParseActionKind(r.PathValue("kind"))
	if !ok {
		http.Error(w, "Invalid Action", http.StatusBadRequest)
		return nil, nil, false
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return nil, nil, false
	}
	page, ok := handler.sessions.existing(r)
	if !ok {
		setFlash(w, "warning", "会话已过期，请重新操作")
		http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
		return nil, nil, false
	}
	wf, ok := page.Actions().Get(kind, id)
	if !ok {
		setFlash(w, "warning", "对话框已关闭")
		http.Redirect(w, r, listURL(page.Table().View().Params), http.StatusSeeOther)
		return nil, nil, false
	}
	return page, wf, true
}

func rowByID(rows []models.Job, id int64) (models.Job, bool) {
	for _, j := range rows {
		if j.ID == id {
			return j, true
		}
	}
	return models.Job{}, false
}

func (handler *HttpRouteHandler) missingJob(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, store.ErrNotFound) {
		setFlash(w, "warning", fmt.Sprintf("任务 %d 不存在", id))
		http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
		return
	}
	handler.log.WithError(err).WithField("job_id", id).Error("failed to load job")
	http.Error(w, "Failed to load job", http.StatusBadGateway)
}

func (handler *HttpRouteHandler) handleJobForms() {
	handler.mux.HandleFunc("GET /cron-jobs/new", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		page, _ := handler.sessions.page(w, r)
		page.EditModal().Close()
		page.CreateModal().Open()

		draft := models.JobDraft{Username: registry.OperatorFrom(r.Context())}
		handler.renderForm(w, r, http.StatusOK, page, "/cron-jobs/new", 0, draft, nil)
	}))

	handler.mux.HandleFunc("POST /cron-jobs/new", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		page, _ := handler.sessions.page(w, r)
		draft, err := parseJobDraft(r)
		if err != nil {
			handler.renderForm(w, r, http.StatusBadRequest, page, "/cron-jobs/new", 0, draft, []string{err.Error()})
			return
		}
		if draft.Username == "" {
			draft.Username = registry.OperatorFrom(r.Context())
		}

		ctx, cancel := handler.actionCtx(r.Context())
		defer cancel()
		if _, err := handler.registry.CreateJob(ctx, draft); err != nil {
			handler.renderFormError(w, r, page, "/cron-jobs/new", 0, draft, err)
			return
		}

		_ = page.CreateModal().OnOk(ctx)
		page.Notify(console.NoticeSuccess, "创建成功!")
		http.Redirect(w, r, listURL(page.Table().View().Params), http.StatusSeeOther)
	}))

	handler.mux.HandleFunc("GET /cron-jobs/{id}/edit", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}
		page, _ := handler.sessions.page(w, r)

		ctx, cancel := handler.fetchCtx(r.Context())
		defer cancel()
		job, err := handler.registry.FindJob(ctx, id)
		if err != nil {
			handler.missingJob(w, r, id, err)
			return
		}

		page.CreateModal().Close()
		if err := page.EditModal().OpenFor(job); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target, _ := page.EditModal().Target()
		handler.renderForm(w, r, http.StatusOK, page, fmt.Sprintf("/cron-jobs/%d/edit", id), id, models.DraftOf(target), nil)
	}))

	handler.mux.HandleFunc("POST /cron-jobs/{id}/edit", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}
		page, _ := handler.sessions.page(w, r)
		target, open := page.EditModal().Target()
		if !open || target.ID != id {
			setFlash(w, "warning", "编辑窗口已关闭")
			http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
			return
		}

		action := fmt.Sprintf("/cron-jobs/%d/edit", id)
		draft, err := parseJobDraft(r)
		if err != nil {
			handler.renderForm(w, r, http.StatusBadRequest, page, action, id, draft, []string{err.Error()})
			return
		}

		ctx, cancel := handler.actionCtx(r.Context())
		defer cancel()
		if err := handler.registry.UpdateJob(ctx, id, draft); err != nil {
			handler.renderFormError(w, r, page, action, id, draft, err)
			return
		}

		_ = page.EditModal().OnOk(ctx)
		page.Notify(console.NoticeSuccess, "保存成功!")
		http.Redirect(w, r, listURL(page.Table().View().Params), http.StatusSeeOther)
	}))

	handler.mux.HandleFunc("POST /cron-jobs/modal/cancel", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if page, ok := handler.sessions.existing(r); ok {
			page.CreateModal().OnCancel()
			page.EditModal().OnCancel()
			http.Redirect(w, r, listURL(page.Table().View().Params), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
	}))
}

func (handler *HttpRouteHandler) renderFormError(w http.ResponseWriter, r *http.Request, page *console.Page, action string, id int64, draft models.JobDraft, err error) {
	if v, ok := custom_errors.AsValidation(err); ok {
		handler.renderForm(w, r, http.StatusUnprocessableEntity, page, action, id, draft, v.Messages())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		page.EditModal().Close()
		handler.missingJob(w, r, id, err)
		return
	}
	handler.log.WithError(err).WithField("job_id", id).Error("job save failed")
	handler.renderForm(w, r, http.StatusBadGateway, page, action, id, draft, []string{"保存失败: " + err.Error()})
}

func (handler *HttpRouteHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, page *console.Page, action string, id int64, draft models.JobDraft, errs []string) {
	if !page.Apps().Loaded() {
		ctx, cancel := handler.fetchCtx(r.Context())
		_ = page.Apps().Load(ctx)
		cancel()
	}

	title := "新建任务"
	if id != 0 {
		title = "编辑任务"
	}
	data := NewDataMap().
		Add("Title", title).
		Add("Action", action).
		Add("JobID", id).
		Add("Draft", draft).
		Add("Apps", page.Apps().Names()).
		Add("Errors", errs).
		Add("UseAuth", handler.UseAuth)
	handler.render(w, status, "job_form", data.Data)
}

func (handler *HttpRouteHandler) handleJobTasks() {
	handler.mux.HandleFunc("GET /cron-jobs/{id}/tasks", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}
		ctx, cancel := handler.fetchCtx(r.Context())
		defer cancel()
		job, err := handler.registry.FindJob(ctx, id)
		if err != nil {
			handler.missingJob(w, r, id, err)
			return
		}

		status, _ := console.StatusBadge(job.Status)
		data := NewDataMap().
			Add("Job", job).
			Add("Status", status).
			Add("Enabled", console.EnabledBadge(job.Enable)).
			Add("UseAuth", handler.UseAuth)
		handler.render(w, http.StatusOK, "job_tasks", data.Data)
	}))
}

func (handler *HttpRouteHandler) handleAPI() {
	handler.mux.HandleFunc("GET /api/cron-jobs", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		params, _ := parseListParams(r.URL.Query())
		source := console.NewDataSource(handler.registry, handler.settings.FetchTimeout, handler.settings.PageSize)

		page, err := source.FetchPage(r.Context(), params)
		if err != nil {
			handler.log.WithError(err).Warn("api: job list fetch failed")
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, page)
	}))

	handler.mux.HandleFunc("GET /api/columns", handler.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := handler.fetchCtx(r.Context())
		defer cancel()

		apps := console.NewAppFilterSource(handler.registry, handler.log)
		appsErr := apps.Load(ctx)
		cols := console.ProjectColumns(apps.Names())

		search := make([]string, 0, len(cols))
		for _, c := range console.SearchFields(cols) {
			search = append(search, c.Key)
		}
		body := map[string]interface{}{
			"columns":       cols,
			"search_fields": search,
		}
		if appsErr != nil {
			body["apps_error"] = appsErr.Error()
		}
		writeJSON(w, http.StatusOK, body)
	}))

	handler.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := handler.fetchCtx(r.Context())
		defer cancel()
		if err := handler.health(ctx); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (handler *HttpRouteHandler) handleLogin() {
	handler.mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if handler.UseAuth && isAuthenticated(r, handler.SecretKey) {
				http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
				return
			}
			data := NewDataMap().
				Add("HideHeader", true).
				Add("Warning", takeFlash(w, r, "warning"))
			handler.render(w, http.StatusOK, "login", data.Data)
		case http.MethodPost:
			username := strings.TrimSpace(r.FormValue("username"))
			password := r.FormValue("password")

			user, err := handler.userStore.Find(r.Context(), username, password)
			if err != nil {
				handler.log.WithError(err).Warn("login lookup failed")
			}
			if err != nil || user == nil {
				setFlash(w, "warning", "invalid username or password")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     authCookieName,
				Value:    generateAuthToken(user.Username, handler.SecretKey),
				Path:     "/",
				MaxAge:   3600,
				HttpOnly: true,
			})
			http.Redirect(w, r, "/cron-jobs", http.StatusSeeOther)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (handler *HttpRouteHandler) handleLogout() {
	handler.mux.HandleFunc("/logout", func(writer http.ResponseWriter, request *http.Request) {
		handler.sessions.drop(request)
		http.SetCookie(writer, &http.Cookie{
			Name:   authCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		http.Redirect(writer, request, "/login", http.StatusSeeOther)
	})
}
