// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/crypto"
	"github.com/MKhiriev/go-auth-session/internal/logger"
)

// ClientStorages groups the client-side storage into a single value that can
// be passed around the service layer.
type ClientStorages struct {
	// TokenStore is the backend selected by the configured driver.
	TokenStore TokenStore

	closers []func() error
}

// NewClientStorages initialises the token store selected by cfg.Driver:
//   - sqlite: opens cfg.DB.DSN (creating the file if needed) and runs
//     pending migrations via [DB.Migrate];
//   - redis: connects to cfg.Redis.Address and pings it;
//   - memory: keeps the token in process memory.
//
// The persisted token is sealed with cfg.SealKey when one is set.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("creating new storages...")

	sealer, err := crypto.NewTokenSealer(cfg.SealKey)
	if err != nil {
		return nil, fmt.Errorf("token sealer: %w", err)
	}

	storages := &ClientStorages{}

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		storages.TokenStore = NewSQLiteTokenStore(db, sealer, logger)
		storages.closers = append(storages.closers, db.Close)

	case config.DriverRedis:
		client, err := NewConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		storages.TokenStore = NewRedisTokenStore(client, cfg.Redis.KeyPrefix, sealer, logger)
		storages.closers = append(storages.closers, client.Close)

	case config.DriverMemory:
		storages.TokenStore = NewMemoryTokenStore()

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTokenDriver, cfg.Driver)
	}

	return storages, nil
}

// Close releases the connections held by the storages.
func (s *ClientStorages) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	s.closers = nil
	return errors.Join(errs...)
}
