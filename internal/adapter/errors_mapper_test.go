// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-auth-session/models"
)

func TestDecodeErrorBody(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantErrors  models.FieldErrors
	}{
		{
			name:       "errors map",
			body:       `{"errors":{"email":["already taken"]}}`,
			wantErrors: models.FieldErrors{"email": {"already taken"}},
		},
		{
			name: "validation detail list",
			body: `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"loc":["body","password"],"msg":"field required"}]}`,
			wantErrors: models.FieldErrors{
				"email":    {"value is not a valid email address"},
				"password": {"field required"},
			},
		},
		{
			name:       "detail list without field",
			body:       `{"detail":[{"loc":["body"],"msg":"invalid json"}]}`,
			wantErrors: models.FieldErrors{"body": {"invalid json"}},
		},
		{
			name:        "detail string",
			body:        `{"detail":"Email already registered"}`,
			wantMessage: "Email already registered",
		},
		{
			name:        "message",
			body:        `{"message":" try later "}`,
			wantMessage: "try later",
		},
		{name: "plain text", body: "internal server error"},
		{name: "empty", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, errs := decodeErrorBody([]byte(tt.body))
			assert.Equal(t, tt.wantMessage, msg)
			assert.Equal(t, tt.wantErrors, errs)
		})
	}
}

func TestIssueField(t *testing.T) {
	assert.Equal(t, "email", issueField([]any{"body", "email"}))
	assert.Equal(t, "username", issueField([]any{"body", "username", float64(0)}))
	assert.Equal(t, "body", issueField([]any{"body"}))
	assert.Equal(t, "body", issueField(nil))
}

func TestAPIError_UnwrapsToSentinel(t *testing.T) {
	err := error(&APIError{StatusCode: http.StatusConflict, Message: "taken", sentinel: ErrConflict})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "conflict: taken", err.Error())

	wrapped := fmt.Errorf("update user: %w", err)
	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestFailureResult(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantField   string
	}{
		{
			name:        "network error",
			err:         errors.New("dial tcp: connection refused"),
			wantMessage: GenericFailureMessage,
		},
		{
			name:        "intercepted 401",
			err:         ErrUnauthorized,
			wantMessage: SessionExpiredMessage,
		},
		{
			name:        "401 without explanation",
			err:         &APIError{StatusCode: http.StatusUnauthorized, sentinel: ErrUnauthorized},
			wantMessage: GenericFailureMessage,
		},
		{
			name:        "4xx with explanation",
			err:         &APIError{StatusCode: http.StatusBadRequest, Message: "Inactive user", sentinel: ErrBadRequest},
			wantMessage: "Inactive user",
		},
		{
			name:        "5xx explanation is hidden",
			err:         &APIError{StatusCode: http.StatusInternalServerError, Message: "pq: relation missing", sentinel: ErrInternalServerError},
			wantMessage: GenericFailureMessage,
		},
		{
			name:        "field errors",
			err:         &APIError{StatusCode: http.StatusUnprocessableEntity, Errors: models.FieldErrors{"email": {"bad"}}, sentinel: ErrUnprocessable},
			wantMessage: "validation failed",
			wantField:   "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := failureResult(tt.err)
			assert.False(t, res.Success)
			assert.Nil(t, res.User)
			assert.Equal(t, tt.wantMessage, res.Message)
			if tt.wantField != "" {
				assert.True(t, res.Errors.Has(tt.wantField))
			} else {
				assert.Empty(t, res.Errors)
			}
		})
	}
}

func TestWithDetailFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField string
	}{
		{name: "email detail", err: &APIError{StatusCode: http.StatusBadRequest, Message: "Email already registered", sentinel: ErrBadRequest}, wantField: "email"},
		{name: "username detail", err: &APIError{StatusCode: http.StatusConflict, Message: "Username already taken", sentinel: ErrConflict}, wantField: "username"},
		{name: "unrelated detail", err: &APIError{StatusCode: http.StatusBadRequest, Message: "Inactive user", sentinel: ErrBadRequest}},
		{name: "server error", err: &APIError{StatusCode: http.StatusInternalServerError, Message: "email service down", sentinel: ErrInternalServerError}},
		{name: "not an api error", err: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := withDetailFieldErrors(tt.err)

			var apiErr *APIError
			if !errors.As(err, &apiErr) || tt.wantField == "" {
				if apiErr != nil {
					assert.Empty(t, apiErr.Errors)
				}
				return
			}
			assert.True(t, apiErr.Errors.Has(tt.wantField))
		})
	}
}
