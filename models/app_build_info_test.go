// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("v1.2.0", " ", "")

	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "N/A", info.Date)
	assert.Equal(t, "N/A", info.Commit)
	assert.Equal(t, "v1.2.0 (N/A, N/A)", info.String())
	assert.Equal(t, []string{
		"Build version: v1.2.0",
		"Build date: N/A",
		"Build commit: N/A",
	}, info.Lines())
}

func TestAppBuildInfo_ZeroValue(t *testing.T) {
	var info AppBuildInfo
	assert.Equal(t, "Build version: N/A", info.Lines()[0])
}
