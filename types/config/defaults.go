package config

import "time"

const (
	DefaultInstance      = "jobconsole"
	DefaultDashboardPort = 8080
	DefaultStorageDriver = Postgres
	DefaultPageSize      = 20
	DefaultFetchTimeout  = 10 * time.Second
	DefaultActionTimeout = 30 * time.Second
	DefaultAppCacheTTL   = 5 * time.Minute
	DefaultRoutingKey    = "jobconsole.trigger"
)
