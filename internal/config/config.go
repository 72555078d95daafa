// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-auth-session client. It aggregates all sub-configurations and is
// populated by merging defaults, environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the token seal key.
	App App `envPrefix:"APP_"`

	// Adapter holds the auth API address and request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds configuration for the bearer token store backends.
	Storage Storage `envPrefix:"STORAGE_"`

	// Routes holds the locations used by the route guard.
	Routes Routes `envPrefix:"ROUTES_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Metrics holds the optional Prometheus endpoint settings.
	Metrics Metrics `envPrefix:"METRICS_"`

	// Log holds client log output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSealKey is the secret used to seal the bearer token at rest.
	// When empty the token is stored as-is.
	// Env: APP_TOKEN_SEAL_KEY
	TokenSealKey string `env:"TOKEN_SEAL_KEY"`
}

// Adapter holds configuration of the remote auth API.
type Adapter struct {
	// HTTPAddress is the base URL of the auth API
	// (e.g. "http://localhost:8000"). A missing scheme defaults to http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the token store backends.
type Storage struct {
	// Driver selects the backend: "sqlite", "redis" or "memory".
	// Env: STORAGE_TOKEN_DRIVER
	Driver string `env:"TOKEN_DRIVER"`

	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the Redis connection settings.
	Redis Redis `envPrefix:"REDIS_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path or DSN (e.g. "session.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for the Redis token backend.
type Redis struct {
	// Address is the Redis server address in "host:port" form.
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`

	// DB is the Redis logical database index.
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`

	// KeyPrefix namespaces the token key, so several clients can share
	// one Redis instance.
	// Env: STORAGE_REDIS_KEY_PREFIX
	KeyPrefix string `env:"KEY_PREFIX"`
}

// Routes holds the locations the route guard redirects to.
type Routes struct {
	// Login is where unauthenticated users are sent from protected views.
	// Env: ROUTES_LOGIN
	Login string `env:"LOGIN"`

	// Home is where authenticated users are sent from public-only views.
	// Env: ROUTES_HOME
	Home string `env:"HOME"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RefreshInterval is how often the signed-in profile is re-fetched.
	// Zero disables the refresh job.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// Metrics holds the Prometheus endpoint settings.
type Metrics struct {
	// Address is the "host:port" the /metrics endpoint listens on.
	// Empty disables the endpoint.
	// Env: METRICS_ADDRESS
	Address string `env:"ADDRESS"`
}

// Log holds client logging settings.
type Log struct {
	// File is the path of the client log file.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// defaults returns the lowest-priority configuration layer.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8000",
			RequestTimeout: 15 * time.Second,
		},
		Storage: Storage{
			Driver: DriverSQLite,
			DB:     DB{DSN: "session.db"},
			Redis:  Redis{KeyPrefix: "auth-session"},
		},
		Routes: Routes{
			Login: "/login",
			Home:  "/profile",
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (later sources override non-zero fields of earlier ones):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
}
