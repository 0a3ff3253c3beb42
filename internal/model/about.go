// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the
// metadata returned by the transit agent service.
package model

// AboutInfo describes the running agent service, as returned by GET /about.
type AboutInfo struct {
	App            string            `json:"app"`
	Service        string            `json:"service"`
	Version        string            `json:"version"`
	BuildDate      string            `json:"build_date"`
	BuildTimestamp string            `json:"build_timestamp"`
	Image          string            `json:"image"`
	Dependencies   map[string]string `json:"dependencies"`
}
