// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
)

type memoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryTokenStore returns a process-local [TokenStore]. Its contents are
// lost when the process exits.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{}
}

func (s *memoryTokenStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return "", ErrTokenNotFound
	}
	return s.token, nil
}

func (s *memoryTokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.set = token, true
	return nil
}

func (s *memoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.set = "", false
	return nil
}
