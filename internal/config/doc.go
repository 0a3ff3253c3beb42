// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// transit-tui.
//
// Configuration is read from ~/.transit/config.toml when present, then
// overridden by environment variables, falling back to built-in defaults.
package config
