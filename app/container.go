package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RezaEskandarii/jobconsole/internal/cache"
	"github.com/RezaEskandarii/jobconsole/internal/db"
	"github.com/RezaEskandarii/jobconsole/internal/lock"
	"github.com/RezaEskandarii/jobconsole/internal/logger"
	"github.com/RezaEskandarii/jobconsole/internal/message_broker"
	"github.com/RezaEskandarii/jobconsole/internal/registry"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/RezaEskandarii/jobconsole/internal/store/memory"
	"github.com/RezaEskandarii/jobconsole/internal/store/postgres"
	"github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies. It is the single source of truth
// for dependency injection and ensures connections and services are created once.
type Container struct {
	Config *config.ConsoleConfig
	Log    logrus.FieldLogger

	// Storage connections (created once, shared by all stores)
	DB    *sql.DB
	Redis *redis.Client

	// Stores (implement interfaces for testability)
	JobStore      store.JobStore
	AppStore      store.AppStore
	UserStore     store.UserStore
	TriggerOutbox store.TriggerOutbox

	// Infrastructure
	LockManager   lock.DistributedLockManager
	MessageBroker message_broker.MessageBroker

	Registry *registry.Service
}

// NewContainer creates and wires all dependencies. Single entry point for DI.
// Call this once per application lifecycle.
func NewContainer(ctx context.Context, cfg *config.ConsoleConfig, opts ...ContainerOption) (*Container, error) {
	opt := &containerConfig{}
	for _, o := range opts {
		o(opt)
	}
	log := opt.log
	if log == nil {
		log = logger.Discard()
	}

	c := &Container{Config: cfg, Log: log, DB: opt.db, Redis: opt.redis, MessageBroker: opt.broker}

	var err error
	if cfg.StorageDriver == config.Postgres && c.DB == nil {
		if c.DB, err = db.Open(ctx, cfg.PostgresConfig.ConnectionUrl); err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
	}
	if cfg.UseRedisAppCache() && c.Redis == nil {
		if c.Redis, err = setupRedis(ctx, cfg.RedisConfig); err != nil {
			c.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
	}

	if c.JobStore, err = createJobStore(cfg.StorageDriver, c.DB, opt, log); err != nil {
		c.Close()
		return nil, err
	}
	apps, err := createAppStore(cfg.StorageDriver, c.DB, opt)
	if err != nil {
		c.Close()
		return nil, err
	}
	if c.Redis != nil {
		apps = cache.NewAppStore(apps, c.Redis, cfg.RedisConfig.AppCacheTTL, log)
	}
	c.AppStore = apps
	if c.UserStore, err = createUserStore(cfg.StorageDriver, c.DB); err != nil {
		c.Close()
		return nil, err
	}
	c.LockManager = createDistributedLockManager(cfg.StorageDriver, c.DB)

	if c.MessageBroker == nil && cfg.MQDriver == config.RabbitMQ {
		mBroker, err := message_broker.NewRabbitMQ(
			cfg.RabbitMQConfig.URL,
			cfg.RabbitMQConfig.Exchange,
			cfg.RabbitMQConfig.Queue,
			cfg.RabbitMQConfig.RoutingKey,
		)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init rabbitmq: %w", err)
		}
		c.MessageBroker = mBroker
	}
	c.TriggerOutbox = createTriggerOutbox(cfg, c)

	c.Registry = registry.NewService(c.JobStore, c.AppStore, c.TriggerOutbox, log)
	return c, nil
}

// Trigger requests go to the broker when one is configured, otherwise to the
// registry's own outbox.
func createTriggerOutbox(cfg *config.ConsoleConfig, c *Container) store.TriggerOutbox {
	if c.MessageBroker != nil {
		routingKey := config.DefaultRoutingKey
		if cfg.RabbitMQConfig != nil {
			routingKey = cfg.RabbitMQConfig.RoutingKey
		}
		return message_broker.NewTriggerPublisher(c.MessageBroker, routingKey)
	}
	if cfg.StorageDriver == config.Postgres {
		return postgres.NewPostgresTriggerOutbox(c.DB)
	}
	return memory.NewTriggerOutbox()
}

// Close releases every connection the container opened or was given.
func (c *Container) Close() {
	if c.MessageBroker != nil {
		if err := c.MessageBroker.Close(); err != nil {
			c.Log.WithError(err).Warn("close broker")
		}
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
