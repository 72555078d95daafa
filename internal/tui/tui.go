// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal front end of the session client.
//
// Every screen sits behind the route guard: the router re-evaluates the
// guard on each location change and on each session state change published
// by the session controller. A 401 on a session request reaches the UI
// through the auth failure signal and sends the user to the login screen
// with the current location remembered.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/internal/adapter"
	"github.com/MKhiriev/go-auth-session/internal/guard"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/service"
	"github.com/MKhiriev/go-auth-session/models"
)

type TUI struct {
	session   service.SessionController
	signal    *adapter.AuthFailureSignal
	guard     guard.Guard
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(session service.SessionController, signal *adapter.AuthFailureSignal, g guard.Guard, buildInfo models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{
		session:   session,
		signal:    signal,
		guard:     g,
		buildInfo: buildInfo,
		logger:    log,
	}
}

// Run shows the UI until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	tracker := newLocationTracker(t.guard.HomeLocation)
	model := newAppModel(ctx, t.session, t.guard, tracker, t.buildInfo)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribeState := t.session.Subscribe(func(state models.SessionState) {
		program.Send(sessionChangedMsg{state: state})
	})
	defer unsubscribeState()

	unsubscribeRedirect := t.signal.RedirectOnFailure(programNavigator{send: program.Send}, func() string {
		location := tracker.get()
		t.logger.Info().Str("return_to", location).Msg("session rejected by server, redirecting to login")
		return location
	})
	defer unsubscribeRedirect()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
