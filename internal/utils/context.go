// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, HTTP response
// writing, HTTP client initialization, JWT helpers and request identifiers.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

var (
	// AuthModeCtxKey carries the [AuthMode] of an outbound API request.
	AuthModeCtxKey = contextKey("authMode")

	// RequestIDCtxKey carries the X-Request-ID of an outbound API request.
	RequestIDCtxKey = contextKey("requestID")
)

// AuthMode tells the request interceptors how a request authenticates.
type AuthMode int

const (
	// AuthModeSession requests carry the stored bearer token, and a 401
	// answer ends the session. It is the default for requests without a mode.
	AuthModeSession AuthMode = iota
	// AuthModeAnonymous requests carry no token (login, register).
	AuthModeAnonymous
	// AuthModeExplicit requests carry a token chosen by the caller
	// (the profile probe right after login or at startup).
	AuthModeExplicit
)

// String returns the mode name used in log fields.
func (m AuthMode) String() string {
	switch m {
	case AuthModeSession:
		return "session"
	case AuthModeAnonymous:
		return "anonymous"
	case AuthModeExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// WithAuthMode returns a copy of ctx carrying mode.
func WithAuthMode(ctx context.Context, mode AuthMode) context.Context {
	return context.WithValue(ctx, AuthModeCtxKey, mode)
}

// GetAuthModeFromContext returns the mode stored in ctx, or
// [AuthModeSession] when none is set.
func GetAuthModeFromContext(ctx context.Context) AuthMode {
	mode, ok := ctx.Value(AuthModeCtxKey).(AuthMode)
	if !ok {
		return AuthModeSession
	}
	return mode
}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDCtxKey, requestID)
}

// GetRequestIDFromContext retrieves the request id from the context.
//
// Returns the id and an ok flag:
//   - ok == true : value is found and is a non-empty string
//   - ok == false: value is missing or has an unexpected type
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDCtxKey).(string)
	return requestID, ok && requestID != ""
}
