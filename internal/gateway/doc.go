// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway talks to the remote transit agent service and maps each
// request's outcome onto the chat log.
//
// Send appends a user message and a provisional placeholder as a pair, then
// rewrites the placeholder in place with either the agent's response or a
// fixed error fallback. Every resolution targets the placeholder it created,
// so overlapping sends cannot rewrite each other's entries.
package gateway
