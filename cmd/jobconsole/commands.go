package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RezaEskandarii/jobconsole/app"
	"github.com/RezaEskandarii/jobconsole/config"
	"github.com/RezaEskandarii/jobconsole/internal/logger"
	typesconfig "github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/RezaEskandarii/jobconsole/web"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// setup loads configuration and wires the container. The returned cleanup closes
// both the container and the log output.
func setup(ctx context.Context, demo bool) (*app.Container, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []app.ContainerOption{app.WithLogger(log.WithField("instance", cfg.Instance))}
	if demo {
		cfg.StorageDriver = typesconfig.Memory
		cfg.MQDriver = 0
		jobs, apps := app.DemoSeed(time.Now())
		opts = append(opts, app.WithSeed(jobs, apps))
	}

	c, err := app.NewContainer(ctx, cfg, opts...)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return c, func() {
		c.Close()
		closeLog()
	}, nil
}

func newServeCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, cleanup, err := setup(ctx, demo)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := c.Bootstrap(ctx); err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}

			handler, err := web.NewRouteHandler(c.Registry, c.UserStore, c.Config, c.Log,
				web.WithHealthCheck(healthCheck(c)),
			)
			if err != nil {
				return err
			}

			c.Log.WithFields(logrus.Fields{
				"port":    c.Config.DashboardPort,
				"storage": c.Config.StorageDriver,
				"auth":    c.Config.DashboardAuthEnabled,
			}).Info("console starting")

			if err := handler.Serve(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			c.Log.Info("console stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "serve an in-memory registry seeded with a sample job")
	return cmd
}

func healthCheck(c *app.Container) func(context.Context) error {
	return func(ctx context.Context) error {
		if c.DB != nil {
			if err := c.DB.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		if c.Redis != nil {
			if err := c.Redis.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the registry schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := c.Migrate(cmd.Context()); err != nil {
				return err
			}
			c.Log.Info("migrations applied")
			return nil
		},
	}
}

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard operators",
	}
	userCmd.AddCommand(&cobra.Command{
		Use:   "add <username> <password>",
		Short: "Create a dashboard operator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := c.Migrate(cmd.Context()); err != nil {
				return err
			}
			existing, err := c.UserStore.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("user %q already exists", args[0])
			}
			id, err := c.UserStore.Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", args[0], id)
			return nil
		},
	})
	return userCmd
}
