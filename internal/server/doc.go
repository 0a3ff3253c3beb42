// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the transit assistant over HTTP.
//
// Endpoints:
//   - POST /agent/prompt      - Ask the assistant a question
//   - GET  /suggested-prompts - Starter prompts for the UI
//   - GET  /about             - Service build/version metadata
//   - GET  /health            - Health check
//   - GET  /ws                - WebSocket chat mirror
package server
