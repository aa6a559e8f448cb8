package app

import (
	"context"

	"github.com/RezaEskandarii/jobconsole/internal/db"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/RezaEskandarii/jobconsole/types/config"
)

// Migrate creates the console schema. It is a no-op for the memory driver.
func (c *Container) Migrate(ctx context.Context) error {
	if c.Config.StorageDriver != config.Postgres {
		return nil
	}
	return db.Init(ctx, c.DB, c.LockManager, c.Log)
}

// Bootstrap prepares storage and the configured dashboard operator before serving.
func (c *Container) Bootstrap(ctx context.Context) error {
	if err := c.Migrate(ctx); err != nil {
		return err
	}
	return createDashboardAdminIfConfigured(ctx, c.Config, c.UserStore)
}

// createDashboardAdminIfConfigured creates the default dashboard user if credentials are provided
// and the user does not already exist in the store.
func createDashboardAdminIfConfigured(ctx context.Context, cfg *config.ConsoleConfig, userStore store.UserStore) error {
	if cfg.DashboardUserName == "" || cfg.DashboardPassword == "" {
		return nil
	}
	user, err := userStore.FindByUsername(ctx, cfg.DashboardUserName)
	if err != nil {
		return err
	}
	if user != nil {
		return nil
	}
	_, err = userStore.Create(ctx, cfg.DashboardUserName, cfg.DashboardPassword)
	return err
}
