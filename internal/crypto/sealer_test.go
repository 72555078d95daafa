// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenSealer_EmptySecretIsPassThrough(t *testing.T) {
	s, err := NewTokenSealer("")
	require.NoError(t, err)

	sealed, err := s.Seal("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", sealed)

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", opened)
}

func TestSeal_OpenRoundTrip(t *testing.T) {
	s, err := NewTokenSealer("correct horse battery staple")
	require.NoError(t, err)

	sealed, err := s.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "payload")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", opened)
}

func TestSeal_NonceMakesBlobsDiffer(t *testing.T) {
	s, err := NewTokenSealer("secret")
	require.NoError(t, err)

	a, err := s.Seal("token")
	require.NoError(t, err)
	b, err := s.Seal("token")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_SameSecretDifferentInstances(t *testing.T) {
	s1, err := NewTokenSealer("secret")
	require.NoError(t, err)
	s2, err := NewTokenSealer("secret")
	require.NoError(t, err)

	sealed, err := s1.Seal("token")
	require.NoError(t, err)

	opened, err := s2.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token", opened)
}

func TestOpen_Errors(t *testing.T) {
	s, err := NewTokenSealer("secret")
	require.NoError(t, err)
	other, err := NewTokenSealer("another secret")
	require.NoError(t, err)

	sealedByOther, err := other.Seal("token")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		isErr error
	}{
		{name: "not base64", input: "%%%"},
		{name: "too short", input: base64.StdEncoding.EncodeToString([]byte("short")), isErr: ErrSealedTokenTooShort},
		{name: "wrong key", input: sealedByOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Open(tt.input)
			require.Error(t, err)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}
