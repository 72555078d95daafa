// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// processEnv is the environment snapshot the builder reads by default.
func processEnv() map[string]string {
	return env.ToMap(os.Environ())
}

// parseEnv fills cfg from environ. Field names come from the `env` and
// `envPrefix` tags on [StructuredConfig], e.g. STORAGE_REDIS_ADDRESS.
func parseEnv(cfg *StructuredConfig, environ map[string]string) error {
	opts := env.Options{Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
