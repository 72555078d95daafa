// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrSealedTokenTooShort is returned by Open when the blob cannot even hold
// the GCM nonce.
var ErrSealedTokenTooShort = errors.New("sealed token too short")

// sealSaltDomain domain-separates the store key from any other key derived
// from the same secret.
const sealSaltDomain = "go-auth-session/token-seal/v1"

// aesGCMSealer is the AES-256-GCM implementation of [TokenSealer].
type aesGCMSealer struct {
	gcm cipher.AEAD
}

// plainSealer stores tokens as-is. Used when no seal key is configured.
type plainSealer struct{}

// NewTokenSealer derives a 256-bit key from secret with Argon2id and returns
// a sealer bound to it. An empty secret yields a pass-through sealer.
//
// Argon2id parameters follow the OWASP minimum for interactive use:
//   - time cost:   2 iterations
//   - memory cost: 19 MiB
//   - parallelism: 1 thread
func NewTokenSealer(secret string) (TokenSealer, error) {
	if secret == "" {
		return plainSealer{}, nil
	}

	salt := sha256.Sum256([]byte(sealSaltDomain))
	key := argon2.IDKey([]byte(secret), salt[:16], 2, 19*1024, 1, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &aesGCMSealer{gcm: gcm}, nil
}

// Seal implements [TokenSealer]. A fresh random nonce is prepended to the
// ciphertext, so sealing the same token twice yields different blobs.
func (s *aesGCMSealer) Seal(token string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := s.gcm.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [TokenSealer].
func (s *aesGCMSealer) Open(sealed string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(blob) < nonceSize {
		return "", ErrSealedTokenTooShort
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	// an auth tag mismatch almost always means the seal key changed
	plaintext, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}

	return string(plaintext), nil
}

func (plainSealer) Seal(token string) (string, error) { return token, nil }

func (plainSealer) Open(sealed string) (string, error) { return sealed, nil }
