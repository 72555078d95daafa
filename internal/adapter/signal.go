// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"sync"
)

// AuthFailureSignal broadcasts "the session was rejected by the server".
//
// It fires at most once per armed period: the first Raise disarms it and
// later Raise calls are ignored until Arm is called again. Concurrent 401s
// therefore end the session and redirect exactly once. A new signal starts
// armed.
type AuthFailureSignal struct {
	mu          sync.Mutex
	armed       bool
	nextID      uint64
	subscribers map[uint64]func(ctx context.Context)
}

func NewAuthFailureSignal() *AuthFailureSignal {
	return &AuthFailureSignal{
		armed:       true,
		subscribers: make(map[uint64]func(ctx context.Context)),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *AuthFailureSignal) Subscribe(fn func(ctx context.Context)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Raise notifies subscribers if the signal is armed and reports whether it
// did. Subscribers run synchronously, outside the lock, in no defined order.
func (s *AuthFailureSignal) Raise(ctx context.Context) bool {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return false
	}
	s.armed = false

	subscribers := make([]func(ctx context.Context), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(ctx)
	}
	return true
}

// Arm re-enables the signal. The session calls it whenever a new session
// is established.
func (s *AuthFailureSignal) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
}

// RedirectOnFailure subscribes nav so that every firing of the signal sends
// the user to the login view. location reports where the user currently is.
func (s *AuthFailureSignal) RedirectOnFailure(nav Navigator, location func() string) (unsubscribe func()) {
	return s.Subscribe(func(context.Context) {
		nav.RedirectToLogin(location())
	})
}
