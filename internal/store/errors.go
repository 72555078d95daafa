// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by token stores. Callers should use [errors.Is]
// to match against these values.
var (
	// ErrTokenNotFound is returned by [TokenStore.Get] when no token is stored.
	ErrTokenNotFound = errors.New("token not found")

	// ErrUnknownTokenDriver is returned by [NewClientStorages] when the
	// configured driver is not one of sqlite, redis or memory.
	ErrUnknownTokenDriver = errors.New("unknown token store driver")

	// ErrSealingToken is returned when the token cannot be sealed before
	// it is written.
	ErrSealingToken = errors.New("failed to seal token")

	// ErrOpeningToken is returned when a stored token cannot be unsealed,
	// usually because the seal key has changed since it was written.
	ErrOpeningToken = errors.New("failed to open sealed token")
)

// Low-level database operation errors. These wrap the driver error.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when reading the token row fails.
	ErrScanningRow = errors.New("failed to scan token row")
)
