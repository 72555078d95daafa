// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package guard decides whether a view may be shown for the current session.
//
// [Guard.Evaluate] is a pure function of the session state, the route's auth
// requirement and the current location. It is meant to be called on every
// render and holds no state of its own.
package guard

import (
	"github.com/MKhiriev/go-auth-session/internal/config"
	"github.com/MKhiriev/go-auth-session/models"
)

// Action is what the caller should do with the guarded view.
type Action int

const (
	// ShowLoading renders a placeholder while the session is being resolved.
	ShowLoading Action = iota
	// Render renders the view.
	Render
	// Redirect moves to Decision.Location instead of rendering.
	Redirect
)

func (a Action) String() string {
	switch a {
	case ShowLoading:
		return "show_loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Route declares the auth requirement of a view.
type Route struct {
	// RequireAuth marks a protected view. Public-only views (login,
	// register) leave it false.
	RequireAuth bool
	// RedirectTo overrides the login location for this route.
	RedirectTo string
}

// Decision is the outcome of [Guard.Evaluate].
type Decision struct {
	Action Action
	// Location is the redirect target, or the current location when the view
	// is rendered.
	Location string
	// ReturnTo is the location to come back to after signing in. It is set
	// only when redirecting an unauthenticated user to the login view.
	ReturnTo string
}

// Target is the location the caller should end up at.
func (d Decision) Target() string {
	return d.Location
}

// Guard holds the configured login and landing locations.
type Guard struct {
	LoginLocation string
	HomeLocation  string
}

func New(routes config.ClientRoutes) Guard {
	return Guard{LoginLocation: routes.Login, HomeLocation: routes.Home}
}

// Evaluate maps (state, route, location) to a decision:
//
//	Loading / Uninitialized  any     -> ShowLoading
//	Unauthenticated          auth    -> Redirect to login, ReturnTo = location
//	Unauthenticated          public  -> Render
//	Authenticated            auth    -> Render
//	Authenticated            public  -> Redirect to home
func (g Guard) Evaluate(state models.SessionState, route Route, location string) Decision {
	switch {
	case state.IsLoading():
		return Decision{Action: ShowLoading, Location: location}

	case state.IsAuthenticated():
		if route.RequireAuth {
			return Decision{Action: Render, Location: location}
		}
		return Decision{Action: Redirect, Location: g.HomeLocation}

	default:
		if !route.RequireAuth {
			return Decision{Action: Render, Location: location}
		}
		target := route.RedirectTo
		if target == "" {
			target = g.LoginLocation
		}
		return Decision{Action: Redirect, Location: target, ReturnTo: location}
	}
}

// AfterLogin returns where to go once signed in: the remembered location if
// there is a usable one, the home location otherwise.
func (g Guard) AfterLogin(returnTo string) string {
	if returnTo == "" || returnTo == g.LoginLocation {
		return g.HomeLocation
	}
	return returnTo
}
