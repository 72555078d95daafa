// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for communicating with the
// auth API.
//
// The primary abstraction is [AuthClient], a stateless façade over the
// /auth endpoints. Every request passes through an explicit interceptor
// [Pipeline] installed on the resty client: outgoing requests get a request
// id and, for session requests, the stored bearer token; incoming 401
// answers to session requests clear the token store and raise the
// [AuthFailureSignal].
//
// Non-2xx answers are mapped to the sentinel values in errors.go, so that
// callers can use [errors.Is] (e.g. [ErrConflict] for 409, [ErrUnauthorized]
// for 401). Public AuthClient methods never return errors: failures are
// reported as [models.AuthResult] values.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-auth-session/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/auth_client_mock.go -package=mock

// AuthClient talks to the remote auth API. It holds no session state of its
// own; the bearer token is read from the token store by the pipeline.
type AuthClient interface {
	// Login validates credentials locally, posts them to POST /auth/login and
	// then fetches GET /auth/me with the issued token. It succeeds only when
	// both calls succeed. The token is returned, not persisted.
	Login(ctx context.Context, credentials models.LoginCredentials) models.AuthResult

	// Register validates credentials locally, posts them to
	// POST /auth/register and, on success, signs in with the same e-mail and
	// password.
	Register(ctx context.Context, credentials models.RegisterCredentials) models.AuthResult

	// CurrentUser fetches GET /auth/me with an explicitly supplied token. It
	// bypasses the stored token and the auth-failure handling, and returns
	// nil on any failure.
	CurrentUser(ctx context.Context, token string) *models.User

	// Profile fetches GET /auth/me with the stored token. A 401 ends the
	// session through the pipeline.
	Profile(ctx context.Context) models.AuthResult

	// UpdateUser sends the partial update to PUT /auth/me and returns the full
	// updated user.
	UpdateUser(ctx context.Context, update models.UserUpdate) models.AuthResult

	// Deactivate calls DELETE /auth/me. On success it clears the token store
	// unless a newer session has stored its own token meanwhile.
	Deactivate(ctx context.Context) models.AuthResult

	// Logout clears the token store, also when ctx is already cancelled. It
	// never calls the network.
	Logout(ctx context.Context)
}

// Navigator performs the client-side redirect to the login view after the
// session was ended by a 401.
type Navigator interface {
	// RedirectToLogin moves the user to the login view. returnTo is the
	// location to come back to after signing in again.
	RedirectToLogin(returnTo string)
}
