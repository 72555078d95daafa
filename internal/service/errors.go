// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Reasons an operation was refused by the controller itself. Their text is
// returned to the caller as AuthResult.Message.
var (
	ErrSignInInProgress = errors.New("another sign-in is already in progress")
	ErrNotAuthenticated = errors.New("you are not signed in")
	ErrSessionChanged   = errors.New("the session changed before the request completed")
)
