// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/models"
)

func testConfig() *config.ClientConfig {
	return &config.ClientConfig{
		Adapter: config.ClientAdapter{HTTPAddress: "http://127.0.0.1:8000", RequestTimeout: time.Second},
		Storage: config.ClientStorage{Driver: config.DriverMemory},
		Routes:  config.ClientRoutes{Login: "/login", Home: "/profile"},
	}
}

func TestNewApp_WiresComponents(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.storages.Close() })

	require.NotNil(t, app.services)
	assert.Equal(t, models.SessionUninitialized, app.services.Session.State().Status)
	assert.NotNil(t, app.ui)
	assert.NotNil(t, app.workers)
}

func TestNewApp_WithMetricsServer(t *testing.T) {
	cfg := testConfig()
	cfg.Workers.MetricsAddress = "127.0.0.1:0"

	app, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.storages.Close() })

	// запуск и остановка воркеров не должны зависать
	app.workers.Start(context.Background())
	app.workers.Stop()
}

func TestNewApp_InvalidAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Adapter.HTTPAddress = "http://"

	_, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create auth adapter")
}

func TestNewApp_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "etcd"

	_, err := NewApp(context.Background(), cfg, models.AppBuildInfo{}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create token storage")
}
