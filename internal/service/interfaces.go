// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-auth-session/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_controller_mock.go -package=mock

// SessionController owns the in-memory session state and is the only place
// where it changes. Operations never return errors: failures are reported as
// [models.AuthResult] values and leave the session in a consistent state.
//
// The stored bearer token and the Authenticated state are set and cleared
// together.
type SessionController interface {
	// Initialize restores the session from the token store. A stored token is
	// probed with GET /auth/me; a missing, rejected or unreadable token leaves
	// the session Unauthenticated and the store empty. Only the first call
	// does anything.
	Initialize(ctx context.Context)

	// Login signs in with credentials and persists the issued token. A second
	// sign-in while one is in progress is rejected.
	Login(ctx context.Context, credentials models.LoginCredentials) models.AuthResult

	// Register creates the account and signs in with it.
	Register(ctx context.Context, credentials models.RegisterCredentials) models.AuthResult

	// Logout clears the token and the session. It is idempotent.
	Logout(ctx context.Context)

	// UpdateUser sends a partial update and, once the server confirms it,
	// merges the updated fields into the session user.
	UpdateUser(ctx context.Context, update models.UserUpdate) models.AuthResult

	// Refresh re-reads the profile of the signed-in user. It reports whether
	// the session user was updated.
	Refresh(ctx context.Context) bool

	// Deactivate disables the account on the server and ends the session.
	Deactivate(ctx context.Context) models.AuthResult

	// State returns a snapshot of the session.
	State() models.SessionState

	// Subscribe registers observer for every state change and returns a
	// function that removes it. Observers run synchronously, outside the
	// controller's lock.
	Subscribe(observer func(models.SessionState)) (unsubscribe func())
}

// ProfileRefreshJob periodically refreshes the profile of the signed-in user.
type ProfileRefreshJob interface {
	// Start launches the background goroutine, stopping a previous one first.
	// A non-positive interval disables the job.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
