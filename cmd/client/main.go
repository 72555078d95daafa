// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-auth-session/internal/client"
	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	for _, line := range buildInfo.Lines() {
		fmt.Println(line)
	}

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewClientLogger("go-auth-session", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("go-auth-session", cfg.App.LogFile)
	log.Info().Str("build", buildInfo.String()).Msg("starting client")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	var app client.Client
	app, err = client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}
