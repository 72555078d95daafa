// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-auth-session/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	rows := [][2]string{
		{"Приложение", "go-auth-session"},
		{"Версия", info.Version},
		{"Дата сборки", info.Date},
		{"Коммит", info.Commit},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row[0])
		b.WriteString(strings.Repeat(" ", 12-len([]rune(row[0]))))
		b.WriteString("│ ")
		b.WriteString(valueOrDash(row[1]))
		b.WriteString("\n")
	}

	return renderPage("ИНФОРМАЦИЯ О ПРОГРАММЕ", strings.TrimRight(b.String(), "\n"), "esc / v: назад")
}
