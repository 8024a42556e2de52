// SPDX-License-Identifier: MIT
// Copyright (c) 2025 The faas3 Authors
//
// This file defines ProjectConfig, the typed form of a project's config.toml.
// A loaded config is treated as immutable for the rest of the command.
package model

// ProjectConfig mirrors the [basic] table of config.toml.
type ProjectConfig struct {
	Basic BasicConfig `toml:"basic"`
}

// BasicConfig holds the function metadata keys.
type BasicConfig struct {
	Template    string `toml:"template"`
	Version     string `toml:"version"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Owner       string `toml:"owner"`
}
