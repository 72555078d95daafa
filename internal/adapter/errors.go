// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Sentinel errors for non-2xx API answers. Use [errors.Is] on the error
// returned by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrInternalServerError = errors.New("internal server error")
	ErrUnexpectedStatus    = errors.New("unexpected http status")
)

var (
	// ErrInvalidBaseURL is returned by [NewHTTPAuthClient] for an empty or
	// unparsable API address.
	ErrInvalidBaseURL = errors.New("invalid adapter http address")

	// ErrEmptyAccessToken is returned when /auth/login answers 2xx without
	// an access token.
	ErrEmptyAccessToken = errors.New("empty access token in login response")
)

// User-facing messages.
const (
	// GenericFailureMessage is shown for network errors and any failure the
	// server did not explain.
	GenericFailureMessage = "Something went wrong, please try again"

	// SessionExpiredMessage is returned by a session request rejected with
	// 401. The session has already been ended by the pipeline.
	SessionExpiredMessage = "Your session has expired, please sign in again"
)
