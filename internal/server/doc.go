// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the client's auxiliary HTTP listener.
//
// The only listener today serves the session metrics on /metrics. It is
// started and stopped as a background worker and never blocks the UI.
package server
