// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-auth-session/models"
)

const serverUnavailableMessage = "Отсутствует сеть или Сервер недоступен"

// humanizeResult turns the message of a failed result into the text shown to
// the user. Transport failures get one generic explanation.
func humanizeResult(result models.AuthResult) string {
	if result.Message == "" && len(result.Errors) > 0 {
		return "Проверьте правильность заполнения полей"
	}

	s := strings.ToLower(result.Message)
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return serverUnavailableMessage
	}
	if s == "validation failed" {
		return "Проверьте правильность заполнения полей"
	}

	return result.Message
}
