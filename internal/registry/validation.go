package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RezaEskandarii/jobconsole/custom_errors"
	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/robfig/cron/v3"
)

// Seconds are optional so both "0 0 * * *" and "0 0 0 * * *" are accepted.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateDraft checks a submitted job form. Only syntax is checked; when the job
// runs is the scheduling engine's business.
func ValidateDraft(d models.JobDraft) error {
	validationErrs := &custom_errors.ValidationError{}

	if strings.TrimSpace(d.Name) == "" {
		validationErrs.Add(errors.New("name is required"))
	}
	if strings.TrimSpace(d.AppName) == "" {
		validationErrs.Add(errors.New("app_name is required"))
	}
	if err := checkCron(d.Cron); err != nil {
		validationErrs.Add(fmt.Errorf("cron: %w", err))
	}
	if d.Timeout < 0 {
		validationErrs.Add(errors.New("timeout must not be negative"))
	}
	if d.RetryCount < 0 {
		validationErrs.Add(errors.New("retry_count must not be negative"))
	}
	if d.RetryInterval < 0 {
		validationErrs.Add(errors.New("retry_interval must not be negative"))
	}
	for i, t := range d.Timers {
		if err := checkCron(t.Cron); err != nil {
			validationErrs.Add(fmt.Errorf("timers[%d].cron: %w", i, err))
		}
		if len(t.Nodes) == 0 {
			validationErrs.Add(fmt.Errorf("timers[%d].nodes: at least one node is required", i))
		}
		for j, n := range t.Nodes {
			if strings.TrimSpace(n) == "" {
				validationErrs.Add(fmt.Errorf("timers[%d].nodes[%d]: empty node id", i, j))
			}
		}
	}

	if validationErrs.HasError() {
		return validationErrs
	}
	return nil
}

func checkCron(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return errors.New("expression is required")
	}
	_, err := cronParser.Parse(expr)
	return err
}
