// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"net/http"

	"github.com/MKhiriev/go-auth-session/internal/logger"
)

// NewServer creates an HTTP server for handler on address. It does not
// listen until RunServer is called.
func NewServer(address string, handler http.Handler, logger *logger.Logger) (Server, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	logger.Info().Str("address", address).Msg("creating new server...")
	return newHTTPServer(address, handler, logger), nil
}
