package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/state"
)

// Job is a registry-managed scheduled task definition plus its last execution summary.
type Job struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Cron           string          `json:"cron"`
	Username       string          `json:"username"`
	AppName        string          `json:"app_name"`
	Status         state.JobStatus `json:"status"`
	Enable         bool            `json:"enable"`
	LastExecutedAt *time.Time      `json:"last_executed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Zone           string          `json:"zone"`
	Env            string          `json:"env"`
	Script         string          `json:"script"`
	Timeout        int             `json:"timeout"`
	RetryCount     int             `json:"retry_count"`
	RetryInterval  int             `json:"retry_interval"`
	Timers         Timers          `json:"timers"`
}

// Timer is a sub-schedule owned by a job: a cron expression and the nodes it targets.
type Timer struct {
	Cron  string   `json:"cron"`
	Nodes []string `json:"nodes"`
}

// Timers is stored as a single JSON document next to its job.
type Timers []Timer

func (t Timers) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

func (t *Timers) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("timers: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*t = nil
		return nil
	}
	return json.Unmarshal(raw, t)
}

// JobDraft is what the create and edit dialogs submit.
type JobDraft struct {
	Name          string `json:"name"`
	Cron          string `json:"cron"`
	Username      string `json:"username"`
	AppName       string `json:"app_name"`
	Enable        bool   `json:"enable"`
	Zone          string `json:"zone"`
	Env           string `json:"env"`
	Script        string `json:"script"`
	Timeout       int    `json:"timeout"`
	RetryCount    int    `json:"retry_count"`
	RetryInterval int    `json:"retry_interval"`
	Timers        Timers `json:"timers"`
}

// DraftOf copies the editable fields of job.
func DraftOf(job Job) JobDraft {
	return JobDraft{
		Name:          job.Name,
		Cron:          job.Cron,
		Username:      job.Username,
		AppName:       job.AppName,
		Enable:        job.Enable,
		Zone:          job.Zone,
		Env:           job.Env,
		Script:        job.Script,
		Timeout:       job.Timeout,
		RetryCount:    job.RetryCount,
		RetryInterval: job.RetryInterval,
		Timers:        append(Timers(nil), job.Timers...),
	}
}
