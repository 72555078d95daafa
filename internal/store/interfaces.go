// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/token_store_mock.go -package=mock

// TokenStore persists the single bearer token of the client session.
// There is exactly one slot: the last Set wins, Clear empties it.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Get returns the stored token or [ErrTokenNotFound] when the slot is empty.
	Get(ctx context.Context) (string, error)
	// Set replaces the stored token.
	Set(ctx context.Context, token string) error
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}
