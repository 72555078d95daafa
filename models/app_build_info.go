// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

const buildValueNA = "N/A"

// AppBuildInfo is the build metadata injected with -ldflags. Empty values are
// reported as "N/A".
type AppBuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewAppBuildInfo normalises the linker-provided values.
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		Version: orNA(version),
		Date:    orNA(date),
		Commit:  orNA(commit),
	}
}

// Lines returns "Build version/date/commit" lines for stdout.
func (a AppBuildInfo) Lines() []string {
	return []string{
		"Build version: " + orNA(a.Version),
		"Build date: " + orNA(a.Date),
		"Build commit: " + orNA(a.Commit),
	}
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", orNA(a.Version), orNA(a.Commit), orNA(a.Date))
}

func orNA(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return buildValueNA
	}
	return v
}
