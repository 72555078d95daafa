// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/logger"
)

func TestNewClientStorages_Memory(t *testing.T) {
	s, err := NewClientStorages(context.Background(), config.ClientStorage{Driver: config.DriverMemory}, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, s.TokenStore)
	assert.NoError(t, s.Close())
}

func TestNewClientStorages_UnknownDriver(t *testing.T) {
	_, err := NewClientStorages(context.Background(), config.ClientStorage{Driver: "etcd"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownTokenDriver)
}

func TestNewClientStorages_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewClientStorages(ctx, config.ClientStorage{
		Driver:  config.DriverRedis,
		Redis:   config.ClientRedis{Address: mr.Addr(), KeyPrefix: "test"},
		SealKey: "seal",
	}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.TokenStore.Set(ctx, "tok"))
	assert.True(t, mr.Exists("test:bearer"))
}

func TestNewClientStorages_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClientStorages(context.Background(), config.ClientStorage{
		Driver: config.DriverRedis,
		Redis:  config.ClientRedis{Address: addr},
	}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis connection error")
}

// TestNewClientStorages_SQLite exercises the real driver and migrations.
// It is skipped on builds without cgo, where go-sqlite3 is a stub.
func TestNewClientStorages_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := NewClientStorages(ctx, config.ClientStorage{
		Driver:  config.DriverSQLite,
		DB:      config.ClientDB{DSN: dsn},
		SealKey: "seal",
	}, logger.Nop())
	if err != nil && strings.Contains(err.Error(), "cgo") {
		t.Skip("go-sqlite3 requires cgo")
	}
	require.NoError(t, err)
	defer s.Close()

	_, err = s.TokenStore.Get(ctx)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, s.TokenStore.Set(ctx, "first"))
	require.NoError(t, s.TokenStore.Set(ctx, "second"))

	token, err := s.TokenStore.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, s.TokenStore.Clear(ctx))
	_, err = s.TokenStore.Get(ctx)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// the token survives reopening the same file
	require.NoError(t, s.TokenStore.Set(ctx, "persisted"))
	require.NoError(t, s.Close())

	reopened, err := NewClientStorages(ctx, config.ClientStorage{
		Driver:  config.DriverSQLite,
		DB:      config.ClientDB{DSN: dsn},
		SealKey: "seal",
	}, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	token, err = reopened.TokenStore.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}
