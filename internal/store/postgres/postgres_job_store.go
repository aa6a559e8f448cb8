package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const jobColumns = `id, name, cron, username, app_name, status, enable,
	       last_executed_at, created_at, zone, env, script,
	       timeout, retry_count, retry_interval, timers`

type PostgresJobStore struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func NewPostgresJobStore(db *sql.DB, log logrus.FieldLogger) *PostgresJobStore {
	return &PostgresJobStore{db: db, log: log}
}

// buildListFilter turns the filters into a WHERE clause with positional arguments.
func buildListFilter(f models.JobFilters) (string, []any) {
	where := "TRUE"
	var args []any
	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if f.Name != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", next("%"+escapeLike(f.Name)+"%"))
	}
	if f.Username != "" {
		where += fmt.Sprintf(" AND username = $%d", next(f.Username))
	}
	if f.AppName != "" {
		where += fmt.Sprintf(" AND app_name = $%d", next(f.AppName))
	}
	if len(f.Status) > 0 {
		statuses := make([]string, len(f.Status))
		for i, s := range f.Status {
			statuses[i] = s.String()
		}
		where += fmt.Sprintf(" AND status = ANY($%d)", next(pq.Array(statuses)))
	}
	if f.Enable != nil {
		where += fmt.Sprintf(" AND enable = $%d", next(*f.Enable))
	}
	return where, args
}

// buildOrderBy only emits whitelisted columns; id breaks ties so paging is stable.
func buildOrderBy(sorts []models.SortField) string {
	var parts []string
	for _, s := range sorts {
		if _, ok := models.SortableFields[s.Field]; !ok {
			continue
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Field+" "+dir)
	}
	if len(parts) == 0 {
		parts = append(parts, "created_at DESC")
	}
	return strings.Join(parts, ", ") + ", id DESC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresJobStore) List(ctx context.Context, params models.ListParams) (*models.PaginationResult[models.Job], error) {
	params = params.Normalize()
	where, args := buildListFilter(params.Filters)

	countQuery := `SELECT COUNT(*) FROM jobconsole.jobs WHERE ` + where
	var totalItems int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM jobconsole.jobs
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, jobColumns, where, buildOrderBy(params.Sort), len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, selectQuery, append(args, params.PageSize, params.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			r.log.WithError(err).Warn("skipping unreadable job row")
			continue
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read jobs: %w", err)
	}

	return models.NewPaginationResult(jobs, totalItems, params.Page, params.PageSize), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var lastExecuted sql.NullTime
	err := row.Scan(
		&job.ID, &job.Name, &job.Cron, &job.Username, &job.AppName, &job.Status, &job.Enable,
		&lastExecuted, &job.CreatedAt, &job.Zone, &job.Env, &job.Script,
		&job.Timeout, &job.RetryCount, &job.RetryInterval, &job.Timers,
	)
	if err != nil {
		return nil, err
	}
	if lastExecuted.Valid {
		t := lastExecuted.Time
		job.LastExecutedAt = &t
	}
	return &job, nil
}

func (r *PostgresJobStore) FindByID(ctx context.Context, id int64) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobconsole.jobs WHERE id = $1`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find job %d: %w", id, err)
	}
	return job, nil
}

func (r *PostgresJobStore) Create(ctx context.Context, d models.JobDraft) (int64, error) {
	query := `
		INSERT INTO jobconsole.jobs (name, cron, username, app_name, status, enable,
			zone, env, script, timeout, retry_count, retry_interval, timers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		d.Name, d.Cron, d.Username, d.AppName, state.StatusIdle, d.Enable,
		d.Zone, d.Env, d.Script, d.Timeout, d.RetryCount, d.RetryInterval, d.Timers,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job: %w", err)
	}
	return id, nil
}

func (r *PostgresJobStore) Update(ctx context.Context, id int64, d models.JobDraft) error {
	query := `
		UPDATE jobconsole.jobs
		SET name = $1, cron = $2, username = $3, app_name = $4, enable = $5,
		    zone = $6, env = $7, script = $8, timeout = $9, retry_count = $10,
		    retry_interval = $11, timers = $12, updated_at = now()
		WHERE id = $13
	`
	res, err := r.db.ExecContext(ctx, query,
		d.Name, d.Cron, d.Username, d.AppName, d.Enable,
		d.Zone, d.Env, d.Script, d.Timeout, d.RetryCount,
		d.RetryInterval, d.Timers, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job %d: %w", id, err)
	}
	return requireAffected(res)
}

func (r *PostgresJobStore) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobconsole.jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *PostgresJobStore) CountAllJobsGroupedByStatus(ctx context.Context) (map[state.JobStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS count
		FROM jobconsole.jobs
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[state.JobStatus]int)
	for rows.Next() {
		var status state.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}

	for _, status := range state.AllStatuses {
		if _, ok := result[status]; !ok {
			result[status] = 0
		}
	}

	return result, rows.Err()
}
