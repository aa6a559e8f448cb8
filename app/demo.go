package app

import (
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
)

// DemoSeed is the registry content used by `serve --demo`.
func DemoSeed(now time.Time) ([]models.Job, []string) {
	last := now.Add(-time.Hour).Truncate(time.Minute)
	jobs := []models.Job{
		{
			ID:             1,
			Name:           "定时清理过期文件",
			Cron:           "0 0 0 * * *",
			Username:       "段律",
			AppName:        "juno-admin",
			Status:         state.StatusProcessing,
			Enable:         true,
			LastExecutedAt: &last,
			CreatedAt:      now.Add(-72 * time.Hour),
			Zone:           "WH",
			Env:            "dev",
			Script:         "echo hello",
			Timeout:        10,
			RetryCount:     3,
			RetryInterval:  5,
			Timers: models.Timers{
				{Cron: "0 0 * * * *", Nodes: []string{"dev.wh.a-1", "dev.wh.a-2"}},
			},
		},
	}
	return jobs, []string{"juno-admin"}
}
