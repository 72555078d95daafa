// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-auth-session/internal/adapter"
	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/guard"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/metrics"
	"github.com/MKhiriev/go-auth-session/internal/server"
	"github.com/MKhiriev/go-auth-session/internal/service"
	"github.com/MKhiriev/go-auth-session/internal/store"
	"github.com/MKhiriev/go-auth-session/internal/tui"
	"github.com/MKhiriev/go-auth-session/internal/workers"
	"github.com/MKhiriev/go-auth-session/models"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	workers  *workers.Workers
	ui       *tui.TUI

	logger *logger.Logger
}

// NewApp builds every component of the client from cfg. The returned App
// owns the storage connections; they are released when Run returns.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create token storage: %w", err)
	}

	signal := adapter.NewAuthFailureSignal()
	authClient, err := adapter.NewHTTPAuthClient(cfg.Adapter, storages.TokenStore, signal, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create auth adapter: %w", err)
	}

	var recorder metrics.Recorder = metrics.Nop()
	var metricsWorker workers.Worker
	if cfg.Workers.MetricsAddress != "" {
		prom := metrics.NewPrometheusRecorder()
		srv, err := server.NewServer(cfg.Workers.MetricsAddress, prom.Handler(), log)
		if err != nil {
			_ = storages.Close()
			return nil, fmt.Errorf("create metrics server: %w", err)
		}
		recorder = prom
		metricsWorker = workers.NewServerWorker(srv)
	}

	services := service.NewClientServices(authClient, storages.TokenStore, signal, recorder, log)

	return &App{
		storages: storages,
		services: services,
		workers: workers.NewWorkers(
			metricsWorker,
			workers.NewRefreshWorker(services.RefreshJob, cfg.Workers.RefreshInterval),
		),
		ui:     tui.New(services.Session, signal, guard.New(cfg.Routes), buildInfo, log),
		logger: log,
	}, nil
}

// Run starts the background workers, shows the UI and tears everything down
// once the UI exits.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Str("func", "App.Run").Msg("failed to close storages")
		}
	}()

	a.workers.Start(ctx)
	defer a.workers.Stop()

	a.logger.Info().Msg("client started")
	if err := a.ui.Run(ctx); err != nil {
		return err
	}
	a.logger.Info().Str("session", a.services.Session.State().Status.String()).Msg("client stopped")

	return nil
}
