// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents the identity record returned by the auth API.
// It is owned by the session while the user is signed in and is replaced
// only through an explicit profile update.
type User struct {
	// ID is the server-assigned identifier (UUID string).
	ID string `json:"id"`

	// Email is the unique login e-mail of the account.
	Email string `json:"email"`

	// Username is the unique display name of the account.
	Username string `json:"username"`

	// IsActive reports whether the account is enabled on the server.
	IsActive bool `json:"is_active"`

	// IsSuperuser reports whether the account has administrative rights.
	IsSuperuser bool `json:"is_superuser"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last server-side modification.
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate is a partial profile update. Only non-nil fields are sent to
// the server and merged into the local user.
type UserUpdate struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Username == nil && u.Password == nil
}

// Apply returns a copy of current with the fields named by u taken from
// confirmed. confirmed is the user returned by the server after the update,
// so only values the server accepted end up in the result.
func (u UserUpdate) Apply(current, confirmed User) User {
	merged := current
	if u.Email != nil {
		merged.Email = confirmed.Email
	}
	if u.Username != nil {
		merged.Username = confirmed.Username
	}
	return merged
}
