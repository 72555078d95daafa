// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/token_sealer_mock.go -package=mock

// TokenSealer protects the bearer token while it rests in a token store.
// It knows nothing about the network, the store backend or users.
type TokenSealer interface {
	// Seal encrypts the token and returns a base64 blob
	// (nonce || ciphertext) safe to persist.
	Seal(token string) (string, error)

	// Open reverses Seal. It fails when the blob was produced with
	// another key or was corrupted.
	Open(sealed string) (string, error)
}
