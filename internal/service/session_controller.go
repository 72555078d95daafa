// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-auth-session/internal/adapter"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/metrics"
	"github.com/MKhiriev/go-auth-session/internal/store"
	"github.com/MKhiriev/go-auth-session/internal/utils"
	"github.com/MKhiriev/go-auth-session/models"
)

// Operation names used in metrics and logs.
const (
	opInitialize = "initialize"
	opLogin      = "login"
	opRegister   = "register"
	opLogout     = "logout"
	opUpdateUser = "update_user"
	opRefresh    = "refresh"
	opDeactivate = "deactivate"
)

type sessionController struct {
	client  adapter.AuthClient
	store   store.TokenStore
	signal  *adapter.AuthFailureSignal
	metrics metrics.Recorder

	// mu guards everything below. Token store writes happen under mu so that
	// the stored token and the Authenticated state change in one step.
	// Network calls never run under mu.
	mu          sync.Mutex
	state       models.SessionState
	generation  uint64
	initialized bool
	observers   map[uint64]func(models.SessionState)
	nextID      uint64

	logger *logger.Logger
}

// NewSessionController creates a controller in the Uninitialized state and
// subscribes it to signal.
func NewSessionController(client adapter.AuthClient, tokenStore store.TokenStore, signal *adapter.AuthFailureSignal, recorder metrics.Recorder, log *logger.Logger) SessionController {
	c := &sessionController{
		client:    client,
		store:     tokenStore,
		signal:    signal,
		metrics:   recorder,
		state:     models.SessionState{Status: models.SessionUninitialized},
		observers: make(map[uint64]func(models.SessionState)),
		logger:    log,
	}
	signal.Subscribe(c.onAuthFailure)

	return c
}

func (c *sessionController) Initialize(ctx context.Context) {
	c.mu.Lock()
	if c.initialized || c.state.Status != models.SessionUninitialized {
		c.initialized = true
		c.mu.Unlock()
		return
	}
	c.initialized = true
	gen := c.generation
	notify := c.commitLocked(models.SessionState{Status: models.SessionLoading})
	c.mu.Unlock()
	notify()

	token, err := c.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrTokenNotFound) {
			c.logger.Err(err).Str("func", "sessionController.Initialize").Msg("stored token is unreadable, starting signed out")
		}
		c.settleUnauthenticated(ctx, gen, opInitialize, !errors.Is(err, store.ErrTokenNotFound))
		return
	}

	user := c.client.CurrentUser(ctx, token)
	if user == nil {
		c.logger.Info().Str("func", "sessionController.Initialize").Msg("stored token rejected, starting signed out")
		c.settleUnauthenticated(ctx, gen, opInitialize, true)
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.metrics.Operation(opInitialize, metrics.ResultStale)
		return
	}
	notify = c.commitLocked(models.SessionState{Status: models.SessionAuthenticated, User: user})
	c.signal.Arm()
	c.mu.Unlock()
	notify()

	c.metrics.Operation(opInitialize, metrics.ResultSuccess)
	c.logger.Info().Str("user_id", user.ID).Msg("session restored")
}

// settleUnauthenticated ends a Loading phase without a session. clearStore
// removes the stored token as well.
func (c *sessionController) settleUnauthenticated(ctx context.Context, gen uint64, op string, clearStore bool) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.metrics.Operation(op, metrics.ResultStale)
		return
	}
	if clearStore {
		c.clearStoreLocked(ctx)
	}
	notify := c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
	c.mu.Unlock()
	notify()

	c.metrics.Operation(op, metrics.ResultFailure)
}

func (c *sessionController) Login(ctx context.Context, credentials models.LoginCredentials) models.AuthResult {
	return c.signIn(ctx, opLogin, func(ctx context.Context) models.AuthResult {
		return c.client.Login(ctx, credentials)
	})
}

func (c *sessionController) Register(ctx context.Context, credentials models.RegisterCredentials) models.AuthResult {
	return c.signIn(ctx, opRegister, func(ctx context.Context) models.AuthResult {
		return c.client.Register(ctx, credentials)
	})
}

// signIn runs the shared Loading -> Authenticated | Unauthenticated flow of
// Login and Register.
func (c *sessionController) signIn(ctx context.Context, op string, call func(context.Context) models.AuthResult) models.AuthResult {
	log := c.logger.With().Str("func", "sessionController.signIn").Str("operation", op).Logger()

	c.mu.Lock()
	if c.state.Status == models.SessionLoading {
		c.mu.Unlock()
		c.metrics.Operation(op, metrics.ResultRejected)
		return models.Failed(ErrSignInInProgress.Error())
	}
	c.generation++
	gen := c.generation
	notify := c.commitLocked(models.SessionState{Status: models.SessionLoading})
	c.mu.Unlock()
	notify()

	res := call(ctx)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.metrics.Operation(op, metrics.ResultStale)
		log.Debug().Msg("discarding sign-in result of a superseded session")
		return models.Failed(ErrSessionChanged.Error())
	}

	if ctx.Err() != nil {
		c.clearStoreLocked(ctx)
		notify = c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
		c.mu.Unlock()
		notify()
		c.metrics.Operation(op, metrics.ResultStale)
		return models.Failed(ErrSessionChanged.Error())
	}

	if !res.Success || res.Token == nil || res.User == nil {
		c.clearStoreLocked(ctx)
		notify = c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
		c.mu.Unlock()
		notify()
		c.metrics.Operation(op, metrics.ResultFailure)
		if res.Success {
			return models.Failed(adapter.GenericFailureMessage)
		}
		return res
	}

	if err := c.store.Set(ctx, res.Token.AccessToken); err != nil {
		log.Err(err).Msg("failed to persist token")
		c.clearStoreLocked(ctx)
		notify = c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
		c.mu.Unlock()
		notify()
		c.metrics.Operation(op, metrics.ResultFailure)
		return models.Failed(adapter.GenericFailureMessage)
	}

	user := *res.User
	notify = c.commitLocked(models.SessionState{Status: models.SessionAuthenticated, User: &user})
	c.signal.Arm()
	c.mu.Unlock()
	notify()

	c.metrics.Operation(op, metrics.ResultSuccess)
	subject, _ := utils.TokenSubject(res.Token.AccessToken)
	log.Info().Str("user_id", user.ID).Str("sub", subject).Msg("signed in")

	return res
}

func (c *sessionController) Logout(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	// the caller may already be gone; the token must not outlive the session
	c.client.Logout(context.WithoutCancel(ctx))
	notify := c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
	c.mu.Unlock()
	notify()

	c.metrics.Operation(opLogout, metrics.ResultSuccess)
}

func (c *sessionController) UpdateUser(ctx context.Context, update models.UserUpdate) models.AuthResult {
	c.mu.Lock()
	if !c.state.IsAuthenticated() {
		c.mu.Unlock()
		c.metrics.Operation(opUpdateUser, metrics.ResultRejected)
		return models.Failed(ErrNotAuthenticated.Error())
	}
	gen := c.generation
	c.mu.Unlock()

	res := c.client.UpdateUser(ctx, update)

	c.mu.Lock()
	if gen != c.generation || ctx.Err() != nil || !c.state.IsAuthenticated() {
		c.mu.Unlock()
		c.metrics.Operation(opUpdateUser, metrics.ResultStale)
		if res.Success {
			return models.Failed(ErrSessionChanged.Error())
		}
		return res
	}
	if !res.Success || res.User == nil {
		c.mu.Unlock()
		c.metrics.Operation(opUpdateUser, metrics.ResultFailure)
		return res
	}

	merged := update.Apply(*c.state.User, *res.User)
	notify := c.commitLocked(models.SessionState{Status: models.SessionAuthenticated, User: &merged})
	c.mu.Unlock()
	notify()

	c.metrics.Operation(opUpdateUser, metrics.ResultSuccess)
	return models.Succeeded(nil, &merged)
}

func (c *sessionController) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	if !c.state.IsAuthenticated() {
		c.mu.Unlock()
		return false
	}
	gen := c.generation
	c.mu.Unlock()

	res := c.client.Profile(ctx)

	c.mu.Lock()
	if gen != c.generation || ctx.Err() != nil || !c.state.IsAuthenticated() {
		c.mu.Unlock()
		c.metrics.Operation(opRefresh, metrics.ResultStale)
		return false
	}
	if !res.Success || res.User == nil {
		c.mu.Unlock()
		c.metrics.Operation(opRefresh, metrics.ResultFailure)
		c.logger.Debug().Str("func", "sessionController.Refresh").Str("message", res.Message).Msg("profile refresh failed")
		return false
	}

	user := *res.User
	notify := c.commitLocked(models.SessionState{Status: models.SessionAuthenticated, User: &user})
	c.mu.Unlock()
	notify()

	c.metrics.Operation(opRefresh, metrics.ResultSuccess)
	return true
}

func (c *sessionController) Deactivate(ctx context.Context) models.AuthResult {
	c.mu.Lock()
	if !c.state.IsAuthenticated() {
		c.mu.Unlock()
		c.metrics.Operation(opDeactivate, metrics.ResultRejected)
		return models.Failed(ErrNotAuthenticated.Error())
	}
	gen := c.generation
	c.mu.Unlock()

	res := c.client.Deactivate(ctx)
	if !res.Success {
		c.metrics.Operation(opDeactivate, metrics.ResultFailure)
		return res
	}

	// the client cleared the store only if it still held the deactivated
	// session's token
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.metrics.Operation(opDeactivate, metrics.ResultStale)
		return res
	}
	c.generation++
	notify := c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
	c.mu.Unlock()
	notify()

	c.metrics.Operation(opDeactivate, metrics.ResultSuccess)
	return res
}

func (c *sessionController) State() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return snapshot(c.state)
}

func (c *sessionController) Subscribe(observer func(models.SessionState)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = observer

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// onAuthFailure runs when a session request was answered with 401. The
// pipeline has already cleared the store. A sign-in in progress is left
// alone: it has not stored its token yet.
func (c *sessionController) onAuthFailure(context.Context) {
	c.mu.Lock()
	if c.state.Status != models.SessionAuthenticated {
		c.mu.Unlock()
		return
	}
	c.generation++
	notify := c.commitLocked(models.SessionState{Status: models.SessionUnauthenticated})
	c.mu.Unlock()
	notify()

	c.metrics.ForcedLogout()
	c.logger.Info().Str("func", "sessionController.onAuthFailure").Msg("session ended by server")
}

// commitLocked replaces the state and returns the observer notification to
// run once mu is released. Must be called with mu held.
func (c *sessionController) commitLocked(next models.SessionState) (notify func()) {
	prev := c.state
	c.state = next
	if prev.Status == next.Status && sameUser(prev.User, next.User) {
		return func() {}
	}

	c.metrics.Transition(prev.Status, next.Status)
	c.logger.Debug().Stringer("from", prev.Status).Stringer("to", next.Status).Msg("session state changed")

	observers := make([]func(models.SessionState), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	published := snapshot(next)

	return func() {
		for _, fn := range observers {
			fn(published)
		}
	}
}

func (c *sessionController) clearStoreLocked(ctx context.Context) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Err(err).Str("func", "sessionController.clearStoreLocked").Msg("failed to clear token store")
	}
}

func snapshot(s models.SessionState) models.SessionState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
