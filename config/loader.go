// Package config reads the console configuration from a file and the environment
// and turns it into a validated types/config.ConsoleConfig.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/spf13/viper"
)

const EnvPrefix = "JOBCONSOLE"

// Load reads path (any format viper understands) and JOBCONSOLE_* environment
// variables. An empty path searches ./jobconsole.yaml and /etc/jobconsole/.
func Load(path string) (*config.ConsoleConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jobconsole")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/jobconsole")
	}

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit path a missing file is fine: defaults and env still apply.
		if _, notFound := err.(viper.ConfigFileNotFoundError); path != "" || !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("instance", config.DefaultInstance)
	v.SetDefault("dashboard.port", config.DefaultDashboardPort)
	v.SetDefault("storage.driver", config.DefaultStorageDriver.String())
	v.SetDefault("redis.app_cache_ttl", config.DefaultAppCacheTTL)
	v.SetDefault("rabbitmq.routing_key", config.DefaultRoutingKey)
	v.SetDefault("console.page_size", config.DefaultPageSize)
	v.SetDefault("console.fetch_timeout", config.DefaultFetchTimeout)
	v.SetDefault("console.action_timeout", config.DefaultActionTimeout)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")
}

// FromViper maps already loaded keys onto config options.
func FromViper(v *viper.Viper) (*config.ConsoleConfig, error) {
	driver, err := config.ParseStorageDriver(v.GetString("storage.driver"))
	if err != nil {
		return nil, err
	}

	opts := []config.ConfigOption{
		config.WithStorageDriver(driver),
		config.WithDashboardPort(v.GetUint("dashboard.port")),
		config.WithPageSize(v.GetInt("console.page_size")),
		config.WithFetchTimeout(getDuration(v, "console.fetch_timeout")),
		config.WithActionTimeout(getDuration(v, "console.action_timeout")),
		config.WithLoggerConfig(config.LoggerConfig{
			Level:      v.GetString("logger.level"),
			Format:     v.GetString("logger.format"),
			Output:     v.GetString("logger.output"),
			OutputFile: v.GetString("logger.output_file"),
		}),
	}

	if v.GetBool("dashboard.auth_enabled") {
		opts = append(opts, config.WithAdminDashboardConfig(
			v.GetString("dashboard.username"),
			v.GetString("dashboard.password"),
			v.GetString("dashboard.secret_key"),
			v.GetUint("dashboard.port"),
		))
	}
	if driver == config.Postgres {
		opts = append(opts, config.WithPostgresConfig(config.PostgresConfig{ConnectionUrl: v.GetString("postgres.url")}))
	}
	if addr := v.GetString("redis.address"); addr != "" {
		opts = append(opts, config.WithRedisConfig(config.RedisConfig{
			Address:     addr,
			Password:    v.GetString("redis.password"),
			DB:          v.GetInt("redis.db"),
			AppCacheTTL: getDuration(v, "redis.app_cache_ttl"),
		}))
	}
	if url := v.GetString("rabbitmq.url"); url != "" {
		opts = append(opts, config.WithRabbitMQConfig(config.RabbitMQConfig{
			URL:        url,
			Exchange:   v.GetString("rabbitmq.exchange"),
			Queue:      v.GetString("rabbitmq.queue"),
			RoutingKey: v.GetString("rabbitmq.routing_key"),
		}))
	}

	return config.NewConsoleConfig(v.GetString("instance"), opts...)
}

// getDuration accepts "15s" style strings as well as bare seconds.
func getDuration(v *viper.Viper, key string) time.Duration {
	switch raw := v.Get(key).(type) {
	case int:
		return time.Duration(raw) * time.Second
	case string:
		if n, err := strconv.Atoi(raw); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return v.GetDuration(key)
}
