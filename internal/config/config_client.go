// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Token store drivers accepted by [ClientStorage.Driver].
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// TokenSealKey seals the persisted bearer token. Empty disables sealing.
	TokenSealKey string
	// LogFile is the path of the client log file.
	LogFile string
}

// ClientAdapter holds network settings used by the auth API client.
type ClientAdapter struct {
	// HTTPAddress is the auth API base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientRedis contains Redis settings for the redis token store.
type ClientRedis struct {
	Address   string
	DB        int
	KeyPrefix string
}

// ClientStorage groups client token store settings.
type ClientStorage struct {
	// Driver selects the token store backend.
	Driver string
	// DB holds local database settings.
	DB ClientDB
	// Redis holds redis settings.
	Redis ClientRedis
	// SealKey is copied from [ClientApp.TokenSealKey] for the store layer.
	SealKey string
}

// ClientRoutes holds route guard locations.
type ClientRoutes struct {
	Login string
	Home  string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// RefreshInterval defines how often the profile refresh job runs.
	// Zero disables it.
	RefreshInterval time.Duration
	// MetricsAddress is the /metrics listener address. Empty disables it.
	MetricsAddress string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains the auth API address and timeout.
	Adapter ClientAdapter
	// Storage contains token store settings.
	Storage ClientStorage
	// Routes contains route guard locations.
	Routes ClientRoutes
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			TokenSealKey: cfg.App.TokenSealKey,
			LogFile:      cfg.Log.File,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			Driver: cfg.Storage.Driver,
			DB:     ClientDB{DSN: cfg.Storage.DB.DSN},
			Redis: ClientRedis{
				Address:   cfg.Storage.Redis.Address,
				DB:        cfg.Storage.Redis.DB,
				KeyPrefix: cfg.Storage.Redis.KeyPrefix,
			},
			SealKey: cfg.App.TokenSealKey,
		},
		Routes: ClientRoutes{
			Login: cfg.Routes.Login,
			Home:  cfg.Routes.Home,
		},
		Workers: ClientWorkers{
			RefreshInterval: cfg.Workers.RefreshInterval,
			MetricsAddress:  cfg.Metrics.Address,
		},
	}
}
