// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SessionStatus is the client's belief about whether it is signed in.
type SessionStatus int

const (
	// SessionUninitialized exists only before the first initialization.
	SessionUninitialized SessionStatus = iota
	// SessionLoading is entered during initialization, login and register.
	SessionLoading
	// SessionAuthenticated means a user and a stored token are present.
	SessionAuthenticated
	// SessionUnauthenticated means there is no session.
	SessionUnauthenticated
)

// String returns a lower-case name suitable for log fields.
func (s SessionStatus) String() string {
	switch s {
	case SessionUninitialized:
		return "uninitialized"
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	case SessionUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// SessionState is a snapshot of the session. User is non-nil only when
// Status is [SessionAuthenticated].
type SessionState struct {
	Status SessionStatus
	User   *User
}

// IsLoading reports whether the session is still resolving, which includes
// the state before the first initialization.
func (s SessionState) IsLoading() bool {
	return s.Status == SessionLoading || s.Status == SessionUninitialized
}

// IsAuthenticated reports whether a user is signed in.
func (s SessionState) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated && s.User != nil
}
