// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-auth-session/internal/guard"
)

type screen int

const (
	screenWelcome screen = iota
	screenLogin
	screenRegister
	screenProfile
	screenEdit
)

// Locations that are not configurable. Login and home come from the guard.
const (
	locationWelcome  = "/"
	locationRegister = "/register"
	locationEdit     = "/profile/edit"
)

// maxRedirects bounds a chain of guard redirects within one resolve pass.
const maxRedirects = 4

type routeEntry struct {
	screen screen
	route  guard.Route
}

// routeFor maps a location to its screen and auth requirement. Unknown
// locations show the welcome screen.
func routeFor(g guard.Guard, location string) routeEntry {
	switch location {
	case g.LoginLocation:
		return routeEntry{screen: screenLogin}
	case g.HomeLocation:
		return routeEntry{screen: screenProfile, route: guard.Route{RequireAuth: true}}
	case locationRegister:
		return routeEntry{screen: screenRegister}
	case locationEdit:
		return routeEntry{screen: screenEdit, route: guard.Route{RequireAuth: true}}
	default:
		return routeEntry{screen: screenWelcome}
	}
}

// locationTracker publishes the current location to goroutines outside the
// Bubble Tea loop.
type locationTracker struct {
	v atomic.Value
}

func newLocationTracker(initial string) *locationTracker {
	t := &locationTracker{}
	t.set(initial)
	return t
}

func (t *locationTracker) set(location string) {
	t.v.Store(location)
}

func (t *locationTracker) get() string {
	s, _ := t.v.Load().(string)
	return s
}

// programNavigator delivers forced redirects into the Bubble Tea loop.
type programNavigator struct {
	send func(msg tea.Msg)
}

func (n programNavigator) RedirectToLogin(returnTo string) {
	n.send(redirectMsg{returnTo: returnTo})
}
