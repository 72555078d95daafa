// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package apitest runs an in-process fake of the auth API for tests.
//
// The fake keeps users in memory, issues HS256 JWT access tokens and answers
// with the same status codes and {"detail": ...} bodies as the real backend:
//
//	POST   /auth/register  201 user | 400 "Email already registered" | 422 field list
//	POST   /auth/login     200 token | 401 "Incorrect email or password"
//	GET    /auth/me        200 user | 401 "Could not validate credentials" | 400 "Inactive user"
//	PUT    /auth/me        200 user
//	DELETE /auth/me        204
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/utils"
	"github.com/MKhiriev/go-auth-session/models"
)

const (
	tokenIssuer = "auth-session-apitest"
	tokenTTL    = 30 * time.Minute
)

type account struct {
	user     models.User
	password string
}

type injectedFailure struct {
	status int
	detail string
}

// Server is a running fake auth API. Use Server.URL as the client base URL.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account // by id
	signKey  string
	keyGen   int
	calls    []string
	failures map[string]injectedFailure
	delay    map[string]chan struct{}
	releases []func()

	requestIDs []string

	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// New starts a fake API that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]*account),
		failures: make(map[string]injectedFailure),
		delay:    make(map[string]chan struct{}),
		ids:      utils.NewUUIDGenerator(),
		logger:   logger.Nop(),
	}
	s.rotateKey()
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(func() {
		s.releaseAll()
		s.Close()
	})

	return s
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withRequestID)
	router.Use(s.withLogging)
	router.Use(s.record)
	router.Use(s.inject)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.me)
			r.Put("/me", s.updateMe)
			r.Delete("/me", s.deactivateMe)
		})
	})

	return router
}

// AddUser creates an active user directly, bypassing /auth/register.
func (s *Server) AddUser(email, username, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addLocked(email, username, password)
}

func (s *Server) addLocked(email, username, password string) models.User {
	now := time.Now().UTC().Truncate(time.Second)
	u := models.User{
		ID:        s.ids.Generate(),
		Email:     email,
		Username:  username,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

// User returns the server-side record for id.
func (s *Server) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

// IssueToken returns a valid access token for userID.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	key := s.signKey
	s.mu.Unlock()

	token, err := utils.GenerateJWTToken(tokenIssuer, userID, tokenTTL, key)
	if err != nil {
		panic(fmt.Sprintf("apitest: issue token: %v", err))
	}
	return token
}

// ExpireTokens invalidates every token issued so far.
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotateKey()
}

func (s *Server) rotateKey() {
	s.keyGen++
	s.signKey = fmt.Sprintf("apitest-key-%d-%s", s.keyGen, utils.NewUUIDGenerator().Generate())
}

// FailNext makes the next request to "METHOD /path" answer status with detail.
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = injectedFailure{status: status, detail: detail}
}

// Hold blocks the next request to "METHOD /path" until the returned release
// function is called. Later requests to the same route pass through.
func (s *Server) Hold(method, path string) (release func()) {
	key := method + " " + path
	ch := make(chan struct{})

	s.mu.Lock()
	s.delay[key] = ch
	s.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			s.mu.Lock()
			if s.delay[key] == ch {
				delete(s.delay, key)
			}
			s.mu.Unlock()
			close(ch)
		})
	}

	s.mu.Lock()
	s.releases = append(s.releases, release)
	s.mu.Unlock()

	return release
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	for _, release := range releases {
		release()
	}
}

// RequestIDs returns the X-Request-ID values sent by clients so far.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Calls returns "METHOD /path" of every request received so far.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.Path)
		key := r.Method + " " + r.URL.Path
		hold := s.delay[key]
		delete(s.delay, key)
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		failure, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if ok {
			_, _ = utils.WriteDetail(w, failure.detail, failure.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type fieldIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body models.RegisterCredentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_, _ = utils.WriteDetail(w, "Invalid JSON was passed", http.StatusUnprocessableEntity)
		return
	}

	var issues []fieldIssue
	if !strings.Contains(body.Email, "@") {
		issues = append(issues, fieldIssue{Loc: []string{"body", "email"}, Msg: "value is not a valid email address", Type: "value_error"})
	}
	if len(body.Password) < 6 {
		issues = append(issues, fieldIssue{Loc: []string{"body", "password"}, Msg: "ensure this value has at least 6 characters", Type: "value_error"})
	}
	if len(issues) > 0 {
		_, _ = utils.WriteDetail(w, issues, http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		switch {
		case strings.EqualFold(acc.user.Email, body.Email):
			_, _ = utils.WriteDetail(w, "Email already registered", http.StatusBadRequest)
			return
		case acc.user.Username == body.Username:
			_, _ = utils.WriteDetail(w, "Username already taken", http.StatusBadRequest)
			return
		}
	}

	u := s.addLocked(body.Email, body.Username, body.Password)
	_, _ = utils.WriteJSON(w, u, http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body models.LoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_, _ = utils.WriteDetail(w, "Invalid JSON was passed", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	var found *account
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.user.Email, body.Email) && acc.password == body.Password {
			found = acc
			break
		}
	}
	key := s.signKey
	s.mu.Unlock()

	if found == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		_, _ = utils.WriteDetail(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWTToken(tokenIssuer, found.user.ID, tokenTTL, key)
	if err != nil {
		_, _ = utils.WriteDetail(w, "Internal server error during login", http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(tokenTTL.Seconds()),
	}, http.StatusOK)
}

type userIDCtxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unauthorized := func() {
			w.Header().Set("WWW-Authenticate", "Bearer")
			_, _ = utils.WriteDetail(w, "Could not validate credentials", http.StatusUnauthorized)
		}

		token, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			unauthorized()
			return
		}

		s.mu.Lock()
		key := s.signKey
		s.mu.Unlock()

		userID, err := utils.ValidateAndParseJWTToken(token, key, tokenIssuer)
		if err != nil {
			unauthorized()
			return
		}

		s.mu.Lock()
		acc, ok := s.accounts[userID]
		active := ok && acc.user.IsActive
		s.mu.Unlock()

		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			_, _ = utils.WriteDetail(w, "User not found", http.StatusUnauthorized)
			return
		}
		if !active {
			_, _ = utils.WriteDetail(w, "Inactive user", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithUserID(r, userID)))
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, _ := s.User(userIDFromRequest(r))
	_, _ = utils.WriteJSON(w, u, http.StatusOK)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_, _ = utils.WriteDetail(w, "Invalid JSON was passed", http.StatusUnprocessableEntity)
		return
	}

	id := userIDFromRequest(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	for otherID, acc := range s.accounts {
		if otherID == id {
			continue
		}
		if update.Email != nil && strings.EqualFold(acc.user.Email, *update.Email) {
			_, _ = utils.WriteDetail(w, "Email already registered", http.StatusBadRequest)
			return
		}
		if update.Username != nil && acc.user.Username == *update.Username {
			_, _ = utils.WriteDetail(w, "Username already taken", http.StatusBadRequest)
			return
		}
	}

	acc := s.accounts[id]
	if update.Email != nil {
		acc.user.Email = *update.Email
	}
	if update.Username != nil {
		acc.user.Username = *update.Username
	}
	if update.Password != nil {
		acc.password = *update.Password
	}
	acc.user.UpdatedAt = time.Now().UTC()

	_, _ = utils.WriteJSON(w, acc.user, http.StatusOK)
}

func (s *Server) deactivateMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.accounts[userIDFromRequest(r)].user.IsActive = false
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
