// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func newTestBuilder(args ...string) *configBuilder {
	b := newConfigBuilder()
	b.args = args
	b.environ = map[string]string{}
	return b
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newTestBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newTestBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newTestBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "session.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/login", cfg.Routes.Login)
	assert.Equal(t, "/profile", cfg.Routes.Home)
}

// TestBuild_LaterSourcesOverride verifies the priority order:
// defaults < env < flags < JSON.
func TestBuild_LaterSourcesOverride(t *testing.T) {
	jsonPath := writeTempJSONConfig(t, map[string]any{
		"routes": map[string]any{"home": "/json-home"},
	})

	b := newTestBuilder("-a", "http://flag:8000", "-c", jsonPath)
	b.environ = map[string]string{
		"ADAPTER_ADDRESS":         "http://env:8000",
		"STORAGE_DB_DATABASE_URI": "env.db",
		"ROUTES_HOME":             "/env-home",
	}

	cfg, err := b.
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
	require.NoError(t, err)

	assert.Equal(t, "http://flag:8000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "env.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/json-home", cfg.Routes.Home)
	// untouched defaults survive
	assert.Equal(t, "/login", cfg.Routes.Login)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
}

func TestWithJSON_NotSpecified(t *testing.T) {
	b := newTestBuilder().withDefaults().withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.layers, 1)
	assert.Equal(t, []string{"defaults"}, b.sources)
}

func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newTestBuilder("-c", "/definitely/missing.json").withFlags().withJSON()
	require.Error(t, b.err)

	_, err := b.build()
	require.Error(t, err)
}

func TestWithFlags_BadFlagSetsError(t *testing.T) {
	b := newTestBuilder("-bogus").withFlags()
	require.Error(t, b.err)
	assert.Contains(t, b.err.Error(), "flags:")
}

func TestWithEnv_InvalidValueSetsError(t *testing.T) {
	b := newTestBuilder()
	b.environ = map[string]string{"WORKERS_REFRESH_INTERVAL": "soon"}

	b.withEnv()
	require.Error(t, b.err)
	assert.Contains(t, b.err.Error(), "env:")
	assert.Empty(t, b.layers)
}

func TestBuild_NegativeRefreshInterval(t *testing.T) {
	b := newTestBuilder()
	b.add("test", &StructuredConfig{Workers: Workers{RefreshInterval: -time.Second}})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}
