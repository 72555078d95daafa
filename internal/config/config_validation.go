// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the merged [StructuredConfig] is usable at all.
// Client-specific invariants live in [ClientConfig.validate].
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.RefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Storage.Driver {
	case DriverSQLite:
		if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
			return ErrInvalidStorageConfigs
		}
	case DriverRedis:
		if cfg.Storage.Redis.Address == "" {
			return ErrInvalidStorageConfigs
		}
	case DriverMemory:
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Routes.Login == "" || cfg.Routes.Home == "" || cfg.Routes.Login == cfg.Routes.Home {
		return ErrInvalidRoutesConfigs
	}

	if cfg.Workers.RefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
