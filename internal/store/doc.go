// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists the chat log for the transit TUI.
//
// The log is ordered and append-only, with one exception: the final element
// may be rewritten in place when an in-flight request resolves. Every
// mutation is written through to disk immediately using an atomic write, and
// the log is rehydrated from the same file on startup.
package store
