// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph holds the static agent-graph configuration and the
// animation sequencer that drives the highlight sweep across it.
//
// The graph is immutable at runtime; the only mutable visual state is the
// per-id active flag toggled by the sequencer. Sweeps are serialized by a
// single run loop, so two triggers can never interleave their highlight
// pulses.
package graph
