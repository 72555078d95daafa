// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
)

// configBuilder collects config layers in priority order. Each with* step
// appends one layer and records its name; errors are accumulated and reported
// by build.
type configBuilder struct {
	layers  []*StructuredConfig
	sources []string
	args    []string
	environ map[string]string
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		layers:  make([]*StructuredConfig, 0, 4),
		args:    os.Args[1:],
		environ: processEnv(),
	}
}

func (b *configBuilder) add(source string, layer *StructuredConfig) *configBuilder {
	b.layers = append(b.layers, layer)
	b.sources = append(b.sources, source)
	return b
}

func (b *configBuilder) fail(source string, err error) *configBuilder {
	b.err = errors.Join(b.err, fmt.Errorf("%s: %w", source, err))
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for i, layer := range b.layers {
		if err := mergo.Merge(merged, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging %s config: %w", b.sources[i], err)
		}
	}

	return merged, merged.validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	return b.add("defaults", defaults())
}

func (b *configBuilder) withEnv() *configBuilder {
	layer := new(StructuredConfig)
	if err := parseEnv(layer, b.environ); err != nil {
		return b.fail("env", err)
	}
	return b.add("env", layer)
}

func (b *configBuilder) withFlags() *configBuilder {
	layer, err := parseFlags(b.args)
	if err != nil {
		return b.fail("flags", err)
	}
	return b.add("flags", layer)
}

// withJSON loads the file named by the last layer that set -c / CONFIG.
func (b *configBuilder) withJSON() *configBuilder {
	path := ""
	for _, layer := range b.layers {
		if layer.JSONFilePath != "" {
			path = layer.JSONFilePath
		}
	}
	if path == "" {
		return b
	}

	layer, err := parseJSON(path)
	if err != nil {
		return b.fail("json", err)
	}
	return b.add("json", layer)
}
