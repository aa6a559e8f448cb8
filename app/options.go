package app

import (
	"database/sql"

	"github.com/RezaEskandarii/jobconsole/internal/message_broker"
	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ContainerOption configures Container creation. Used for testing and customization.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	// Optional: inject custom connections instead of creating them from config
	db     *sql.DB
	redis  *redis.Client
	broker message_broker.MessageBroker
	log    logrus.FieldLogger

	// Only used by the memory storage driver
	seedJobs []models.Job
	seedApps []string
}

// WithDB injects a custom database connection. Useful for testing.
func WithDB(db *sql.DB) ContainerOption {
	return func(c *containerConfig) {
		c.db = db
	}
}

// WithRedis injects a custom Redis client. Useful for testing.
func WithRedis(redis *redis.Client) ContainerOption {
	return func(c *containerConfig) {
		c.redis = redis
	}
}

// WithBroker injects the trigger broker instead of dialing RabbitMQ.
func WithBroker(b message_broker.MessageBroker) ContainerOption {
	return func(c *containerConfig) {
		c.broker = b
	}
}

func WithLogger(log logrus.FieldLogger) ContainerOption {
	return func(c *containerConfig) {
		c.log = log
	}
}

// WithSeed preloads the in-memory registry.
func WithSeed(jobs []models.Job, apps []string) ContainerOption {
	return func(c *containerConfig) {
		c.seedJobs = jobs
		c.seedApps = apps
	}
}
