// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders assistant replies as terminal markdown. The
// underlying glamour renderer is rebuilt when the wrap width changes, which
// only happens on window resizes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	m := &MarkdownRenderer{}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the renderer for a new wrap width. Widths below 20
// columns are clamped so glamour has room to indent.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width && m.renderer != nil {
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Keep the previous renderer; Render falls back to raw text when
		// none was ever built.
		return
	}
	m.width = width
	m.renderer = r
}

// Render formats markdown for the terminal. On any failure the raw text is
// returned so a reply is never swallowed by a rendering problem.
func (m *MarkdownRenderer) Render(text string) string {
	m.mu.Lock()
	r := m.renderer
	m.mu.Unlock()

	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
