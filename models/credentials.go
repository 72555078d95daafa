// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LoginCredentials is the body of POST /auth/login. It is transient and
// must never be persisted or logged.
type LoginCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// String masks the password so credentials are safe in log lines.
func (c LoginCredentials) String() string {
	return "LoginCredentials{Email: " + c.Email + ", Password: ***}"
}

// RegisterCredentials is the body of POST /auth/register.
type RegisterCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// String masks the password so credentials are safe in log lines.
func (c RegisterCredentials) String() string {
	return "RegisterCredentials{Email: " + c.Email + ", Username: " + c.Username + ", Password: ***}"
}

// Login returns the credentials used for the automatic sign-in that follows
// a successful registration.
func (c RegisterCredentials) Login() LoginCredentials {
	return LoginCredentials{Email: c.Email, Password: c.Password}
}
