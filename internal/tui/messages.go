// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/MKhiriev/go-auth-session/models"

// sessionChangedMsg carries a state published by the session observer.
type sessionChangedMsg struct {
	state models.SessionState
}

// redirectMsg is sent by the navigator when the server ended the session.
type redirectMsg struct {
	returnTo string
}

type initializedMsg struct{}

type authOp int

const (
	opLogin authOp = iota
	opRegister
	opUpdate
	opDeactivate
)

type authResultMsg struct {
	op     authOp
	result models.AuthResult
}

type loggedOutMsg struct{}

type refreshedMsg struct {
	updated bool
}

type copiedMsg struct{}

type copyFailedMsg struct {
	err error
}

type clearStatusMsg struct{}
