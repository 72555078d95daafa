// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-auth-session/models"
)

func strPtr(s string) *string { return &s }

func TestCredentialsValidator(t *testing.T) {
	v := newCredentialsValidator()

	tests := []struct {
		name  string
		input any
		want  models.FieldErrors
	}{
		{
			name:  "valid login",
			input: models.LoginCredentials{Email: "user@x.com", Password: "secret"},
		},
		{
			name:  "empty login",
			input: models.LoginCredentials{},
			want: models.FieldErrors{
				"email":    {"email is required"},
				"password": {"password is required"},
			},
		},
		{
			name:  "bad email",
			input: models.LoginCredentials{Email: "user", Password: "x"},
			want:  models.FieldErrors{"email": {"email must be a valid email"}},
		},
		{
			name:  "valid register",
			input: models.RegisterCredentials{Email: "user@x.com", Username: "user", Password: "secret"},
		},
		{
			name:  "short register fields",
			input: models.RegisterCredentials{Email: "user@x.com", Username: "ab", Password: "12345"},
			want: models.FieldErrors{
				"username": {"username must be at least 3 characters"},
				"password": {"password must be at least 6 characters"},
			},
		},
		{
			name:  "partial update with only username",
			input: models.UserUpdate{Username: strPtr("new")},
		},
		{
			name:  "partial update with bad email",
			input: models.UserUpdate{Email: strPtr("nope")},
			want:  models.FieldErrors{"email": {"email must be a valid email"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.validate(tt.input))
		})
	}
}
