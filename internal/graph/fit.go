// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph holds the static agent-graph configuration and the
// animation sequencer that drives the highlight sweep across it.
package graph

import "time"

// =============================================================================
// VIEWPORT FIT
// =============================================================================

// FitTransition is how long the renderer takes to settle on new fit
// parameters.
const FitTransition = 300 * time.Millisecond

// FitParams are the derived zoom and padding parameters the graph canvas
// applies when re-centering. They are computed per fit request and never
// stored.
type FitParams struct {
	Padding float64
	MinZoom float64
	MaxZoom float64
}

// ComputeFit derives fit parameters from the window size and the chat
// panel geometry. Pure function, no side effects.
//
// The canvas loses a fixed 40 units of vertical chrome plus the chat panel,
// and 320 units of horizontal chrome (the sidebar). Padding shrinks in
// tiers as the available canvas shrinks; the zoom bounds open up only when
// the chat panel is expanded.
func ComputeFit(windowHeight, windowWidth, chatHeight float64, isExpanded bool) FitParams {
	availableHeight := windowHeight - chatHeight - 40
	availableWidth := windowWidth - 320

	var padding float64
	switch {
	case availableHeight < 400 || availableWidth < 600:
		padding = 0.15
	case availableHeight < 600 || availableWidth < 800:
		padding = 0.25
	default:
		padding = 0.35
	}

	if !isExpanded {
		return FitParams{Padding: padding, MinZoom: 0.6, MaxZoom: 1.8}
	}

	minZoom := availableHeight / 1200
	if minZoom < 0.4 {
		minZoom = 0.4
	}
	maxZoom := availableWidth / 600
	if maxZoom > 1.8 {
		maxZoom = 1.8
	}

	return FitParams{Padding: padding, MinZoom: minZoom, MaxZoom: maxZoom}
}
