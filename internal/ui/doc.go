// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the terminal chat interface.
//
// The App model wires four concerns together:
//
//   - a chat transcript rendered from the message store, with markdown
//     formatting for assistant replies and a progressive reveal for the
//     newest animated reply
//   - a single-line prompt input with suggested-prompt cycling
//   - the agent node-graph panel, highlighted by the graph sequencer
//     while a request is in flight
//   - a status bar with connection state and key hints
//
// Layout is responsive: below 80 columns the graph panel is hidden and
// the transcript takes the full width. Panel geometry changes flow
// through a debounced HeightObserver before the graph fit is recomputed,
// so drag-resizes settle into a single fit pass.
package ui
