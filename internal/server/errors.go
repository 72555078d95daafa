// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	ErrEmptyAddress = errors.New("server address is empty")
	ErrNilHandler   = errors.New("server handler is nil")
)
