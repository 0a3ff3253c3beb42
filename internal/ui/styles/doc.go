// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the transit TUI.
//
// Colors are declared as light/dark pairs and resolved through the
// active theme mode (light, dark, or system), so a forced theme renders
// identically regardless of what the terminal reports. The selected
// mode persists under ~/.transit/theme.
package styles
