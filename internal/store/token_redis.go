// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/internal/crypto"
	"github.com/MKhiriev/go-auth-session/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// NewConnectRedis initialises a Redis client and validates connectivity
// with a ping.
func NewConnectRedis(ctx context.Context, cfg config.ClientRedis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Err(err).Str("func", "NewConnectRedis").Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Debug().Str("func", "NewConnectRedis").Str("address", cfg.Address).Msg("connected to redis successfully")

	return client, nil
}

// redisTokenStore keeps the token under a single key without TTL: expiry is
// decided by the server, never locally.
type redisTokenStore struct {
	client *redis.Client
	key    string
	sealer crypto.TokenSealer
	logger *logger.Logger
}

// NewRedisTokenStore constructs a [TokenStore] storing the token under
// "<keyPrefix>:bearer".
func NewRedisTokenStore(client *redis.Client, keyPrefix string, sealer crypto.TokenSealer, logger *logger.Logger) TokenStore {
	key := bearerKey
	if keyPrefix != "" {
		key = keyPrefix + ":" + bearerKey
	}

	return &redisTokenStore{
		client: client,
		key:    key,
		sealer: sealer,
		logger: logger,
	}
}

func (s *redisTokenStore) Get(ctx context.Context) (string, error) {
	sealed, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "*redisTokenStore.Get").Str("key", s.key).Msg("failed to read token")
		return "", fmt.Errorf("redis get: %w", err)
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOpeningToken, err)
	}

	return token, nil
}

func (s *redisTokenStore) Set(ctx context.Context, token string) error {
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSealingToken, err)
	}

	if err = s.client.Set(ctx, s.key, sealed, 0).Err(); err != nil {
		s.logger.Err(err).Str("func", "*redisTokenStore.Set").Str("key", s.key).Msg("failed to write token")
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (s *redisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.logger.Err(err).Str("func", "*redisTokenStore.Clear").Str("key", s.key).Msg("failed to delete token")
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}
