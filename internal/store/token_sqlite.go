// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-session/internal/crypto"
	"github.com/MKhiriev/go-auth-session/internal/logger"
)

// sqliteTokenStore is the SQLite-backed implementation of [TokenStore].
// The token lives in the single "bearer" row of the session_tokens table.
type sqliteTokenStore struct {
	db     *DB
	sealer crypto.TokenSealer
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteTokenStore constructs a [TokenStore] on top of an already
// migrated database.
func NewSQLiteTokenStore(db *DB, sealer crypto.TokenSealer, logger *logger.Logger) TokenStore {
	logger.Debug().Msg("creating sqlite token store")
	return &sqliteTokenStore{
		db:     db,
		sealer: sealer,
		logger: logger,
		now:    time.Now,
	}
}

func (s *sqliteTokenStore) Get(ctx context.Context) (string, error) {
	query, args, err := buildSelectTokenQuery()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var sealed string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteTokenStore.Get").Msg("failed to read token row")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteTokenStore.Get").Msg("stored token cannot be opened")
		return "", fmt.Errorf("%w: %w", ErrOpeningToken, err)
	}

	return token, nil
}

func (s *sqliteTokenStore) Set(ctx context.Context, token string) error {
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSealingToken, err)
	}

	query, args, err := buildUpsertTokenQuery(sealed, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "*sqliteTokenStore.Set").Msg("failed to upsert token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteTokenStore) Clear(ctx context.Context) error {
	query, args, err := buildDeleteTokenQuery()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "*sqliteTokenStore.Clear").Msg("failed to delete token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
