// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-auth-session/internal/adapter"
	"github.com/MKhiriev/go-auth-session/internal/logger"
	"github.com/MKhiriev/go-auth-session/internal/metrics"
	"github.com/MKhiriev/go-auth-session/internal/store"
)

type ClientServices struct {
	Session    SessionController
	RefreshJob ProfileRefreshJob
}

func NewClientServices(client adapter.AuthClient, tokenStore store.TokenStore, signal *adapter.AuthFailureSignal, recorder metrics.Recorder, log *logger.Logger) *ClientServices {
	session := NewSessionController(client, tokenStore, signal, recorder, log)

	return &ClientServices{
		Session:    session,
		RefreshJob: NewProfileRefreshJob(session, log),
	}
}
