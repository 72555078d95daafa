// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-auth-session/models"
)

func doJSON(t *testing.T, s *Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func detail(t *testing.T, raw []byte) any {
	t.Helper()
	var body struct {
		Detail any `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Detail
}

func TestRegister(t *testing.T) {
	s := New(t)

	resp, raw := doJSON(t, s, http.MethodPost, "/auth/register", "", models.RegisterCredentials{
		Email: "a@x.com", Username: "alice", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var u models.User
	require.NoError(t, json.Unmarshal(raw, &u))
	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)

	resp, raw = doJSON(t, s, http.MethodPost, "/auth/register", "", models.RegisterCredentials{
		Email: "A@x.com", Username: "other", Password: "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", detail(t, raw))

	resp, raw = doJSON(t, s, http.MethodPost, "/auth/register", "", models.RegisterCredentials{
		Email: "b@x.com", Username: "alice", Password: "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already taken", detail(t, raw))

	resp, raw = doJSON(t, s, http.MethodPost, "/auth/register", "", models.RegisterCredentials{
		Email: "broken", Username: "bob", Password: "123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	issues, ok := detail(t, raw).([]any)
	require.True(t, ok)
	assert.Len(t, issues, 2)
}

func TestLoginAndMe(t *testing.T) {
	s := New(t)
	u := s.AddUser("a@x.com", "alice", "secret1")

	resp, raw := doJSON(t, s, http.MethodPost, "/auth/login", "", models.LoginCredentials{Email: "a@x.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Incorrect email or password", detail(t, raw))

	resp, raw = doJSON(t, s, http.MethodPost, "/auth/login", "", models.LoginCredentials{Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token models.Token
	require.NoError(t, json.Unmarshal(raw, &token))
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	resp, raw = doJSON(t, s, http.MethodGet, "/auth/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me models.User
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, u.ID, me.ID)
}

func TestMe_Unauthorized(t *testing.T) {
	s := New(t)
	u := s.AddUser("a@x.com", "alice", "secret1")

	resp, raw := doJSON(t, s, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Could not validate credentials", detail(t, raw))

	token := s.IssueToken(u.ID)
	s.ExpireTokens()

	resp, _ = doJSON(t, s, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = doJSON(t, s, http.MethodGet, "/auth/me", s.IssueToken("missing"), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "User not found", detail(t, raw))
}

func TestUpdateAndDeactivate(t *testing.T) {
	s := New(t)
	u := s.AddUser("a@x.com", "alice", "secret1")
	s.AddUser("b@x.com", "bob", "secret1")
	token := s.IssueToken(u.ID)

	taken := "bob"
	resp, raw := doJSON(t, s, http.MethodPut, "/auth/me", token, models.UserUpdate{Username: &taken})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already taken", detail(t, raw))

	name := "alice2"
	resp, raw = doJSON(t, s, http.MethodPut, "/auth/me", token, models.UserUpdate{Username: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.True(t, updated.UpdatedAt.After(u.UpdatedAt) || updated.UpdatedAt.Equal(u.UpdatedAt))

	resp, _ = doJSON(t, s, http.MethodDelete, "/auth/me", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	stored, ok := s.User(u.ID)
	require.True(t, ok)
	assert.False(t, stored.IsActive)

	resp, raw = doJSON(t, s, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Inactive user", detail(t, raw))
}

func TestFailNext(t *testing.T) {
	s := New(t)
	u := s.AddUser("a@x.com", "alice", "secret1")
	token := s.IssueToken(u.ID)

	s.FailNext(http.MethodGet, "/auth/me", http.StatusServiceUnavailable, "maintenance")

	resp, raw := doJSON(t, s, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "maintenance", detail(t, raw))

	// сбой срабатывает только один раз
	resp, _ = doJSON(t, s, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHold(t *testing.T) {
	s := New(t)
	u := s.AddUser("a@x.com", "alice", "secret1")
	token := s.IssueToken(u.ID)

	release := s.Hold(http.MethodGet, "/auth/me")

	req, err := http.NewRequest(http.MethodGet, s.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	done := make(chan int, 1)
	go func() {
		resp, err := s.Client().Do(req)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	select {
	case <-done:
		t.Fatal("held request completed before release")
	case <-time.After(50 * time.Millisecond):
	}

	// задерживается только первый запрос
	require.Eventually(t, func() bool { return len(s.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	resp, _ := doJSON(t, s, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	release()
	release()

	select {
	case status := <-done:
		assert.Equal(t, http.StatusOK, status)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not released")
	}
}

func TestRequestIDsAndCalls(t *testing.T) {
	s := New(t)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "req-1")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-1", resp.Header.Get(requestIDHeader))
	assert.Equal(t, []string{"req-1"}, s.RequestIDs())

	resp, _ = doJSON(t, s, http.MethodGet, "/auth/me", "", nil)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	assert.Equal(t, []string{"req-1"}, s.RequestIDs())

	assert.Equal(t, []string{"GET /auth/me", "GET /auth/me"}, s.Calls())
}
