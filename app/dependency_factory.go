package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/lock"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"github.com/RezaEskandarii/jobconsole/internal/store/memory"
	"github.com/RezaEskandarii/jobconsole/internal/store/postgres"
	"github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func createJobStore(driver config.StorageDriver, db *sql.DB, opt *containerConfig, log logrus.FieldLogger) (store.JobStore, error) {
	switch driver {
	case config.Postgres:
		return postgres.NewPostgresJobStore(db, log), nil
	case config.Memory:
		return memory.NewJobStore(opt.seedJobs...), nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %v", driver)
}

func createAppStore(driver config.StorageDriver, db *sql.DB, opt *containerConfig) (store.AppStore, error) {
	switch driver {
	case config.Postgres:
		return postgres.NewPostgresAppStore(db), nil
	case config.Memory:
		return memory.NewAppStore(opt.seedApps...), nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %v", driver)
}

func createUserStore(driver config.StorageDriver, db *sql.DB) (store.UserStore, error) {
	switch driver {
	case config.Postgres:
		return postgres.NewPostgresUserStore(db), nil
	case config.Memory:
		return memory.NewUserStore(), nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %v", driver)
}

func createDistributedLockManager(driver config.StorageDriver, db *sql.DB) lock.DistributedLockManager {
	if driver == config.Postgres {
		return lock.NewPostgresDistributedLockManager(db)
	}
	return nil
}

func setupRedis(ctx context.Context, rc config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
