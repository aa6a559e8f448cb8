package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

// parseJobDraft reads the create/edit form. Timers come from a textarea with one
// timer per line: "<cron> | node-a, node-b".
func parseJobDraft(r *http.Request) (models.JobDraft, error) {
	if err := r.ParseForm(); err != nil {
		return models.JobDraft{}, err
	}
	d := models.JobDraft{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Cron:     strings.TrimSpace(r.FormValue("cron")),
		Username: strings.TrimSpace(r.FormValue("username")),
		AppName:  strings.TrimSpace(r.FormValue("app_name")),
		Enable:   r.FormValue("enable") == "true",
		Zone:     strings.TrimSpace(r.FormValue("zone")),
		Env:      strings.TrimSpace(r.FormValue("env")),
		Script:   r.FormValue("script"),
	}

	var err error
	if d.Timeout, err = formInt(r, "timeout"); err != nil {
		return d, err
	}
	if d.RetryCount, err = formInt(r, "retry_count"); err != nil {
		return d, err
	}
	if d.RetryInterval, err = formInt(r, "retry_interval"); err != nil {
		return d, err
	}
	d.Timers, err = parseTimers(r.FormValue("timers"))
	return d, err
}

func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return n, nil
}

func parseTimers(raw string) (models.Timers, error) {
	var timers models.Timers
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cron, nodes, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("timers line %d: expected \"<cron> | <nodes>\"", i+1)
		}
		t := models.Timer{Cron: strings.TrimSpace(cron)}
		for _, n := range strings.Split(nodes, ",") {
			t.Nodes = append(t.Nodes, strings.TrimSpace(n))
		}
		timers = append(timers, t)
	}
	return timers, nil
}

// formatTimers renders timers back into the textarea format.
func formatTimers(timers models.Timers) string {
	lines := make([]string, 0, len(timers))
	for _, t := range timers {
		lines = append(lines, t.Cron+" | "+strings.Join(t.Nodes, ", "))
	}
	return strings.Join(lines, "\n")
}
