// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// ColorPair is a light/dark color pair resolved by the active theme mode.
type ColorPair struct {
	Light string
	Dark  string
}

// Resolve picks the variant for the given background.
func (c ColorPair) Resolve(dark bool) lipgloss.Color {
	if dark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Purple - Primary accent, assistant messages, selections
var Purple = ColorPair{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, info, user highlights
var Cyan = ColorPair{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, healthy service indicator
var Emerald = ColorPair{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical alerts
var Rose = ColorPair{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, degraded service
var Amber = ColorPair{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = ColorPair{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = ColorPair{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = ColorPair{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = ColorPair{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = ColorPair{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = ColorPair{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = ColorPair{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Blue tones
var UserBubbleFg = ColorPair{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = ColorPair{Light: "#3B82F6", Dark: "#3B82F6"}

// Assistant message bubble - Soft purple tones
var AssistantBubbleFg = ColorPair{Light: "#5B4B8A", Dark: "#E9E4F5"}
var AssistantBubbleBorder = ColorPair{Light: "#C4B5FD", Dark: "#A78BFA"}

// =============================================================================
// TRANSIT LINE COLORS
// =============================================================================

// Official-ish MBTA line hues, bright enough for dark terminals.
var LineRed = ColorPair{Light: "#DA291C", Dark: "#F87171"}
var LineOrange = ColorPair{Light: "#ED8B00", Dark: "#FDBA74"}
var LineBlue = ColorPair{Light: "#003DA5", Dark: "#93C5FD"}
var LineGreen = ColorPair{Light: "#00843D", Dark: "#86EFAC"}

// =============================================================================
// GRAPH PANEL COLORS
// =============================================================================

// GraphNode - Idle node border and label
var GraphNode = ColorPair{Light: "#6B7280", Dark: "#A6ADC8"}

// GraphActive - Highlighted node/edge during a sweep
var GraphActive = ColorPair{Light: "#D97706", Dark: "#FBBF24"}

// GraphEdge - Idle edge glyphs
var GraphEdge = ColorPair{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// ASCII-only so they survive any terminal.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Active  string
}

// StatusIndicators provides shape indicators alongside colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Active:  "[*]",
}
