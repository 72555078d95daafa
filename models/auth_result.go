// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// FieldErrors maps a request field name to its ordered validation messages.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Has reports whether field has at least one message.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// First returns the first message for field, or an empty string.
func (f FieldErrors) First(field string) string {
	if msgs := f[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// AuthResult is the outcome of an auth operation. Failures are values, not
// errors: on success Token and/or User are set, on failure Message and/or
// Errors are set.
type AuthResult struct {
	Success bool
	Token   *Token
	User    *User
	Message string
	Errors  FieldErrors
}

// Succeeded builds a successful result. token may be nil for operations that
// do not issue one (profile update).
func Succeeded(token *Token, user *User) AuthResult {
	return AuthResult{Success: true, Token: token, User: user}
}

// Failed builds a failed result carrying a human-readable message.
func Failed(message string) AuthResult {
	return AuthResult{Message: message}
}

// Invalid builds a failed result carrying field-level validation errors.
func Invalid(errs FieldErrors) AuthResult {
	return AuthResult{Message: "validation failed", Errors: errs}
}
