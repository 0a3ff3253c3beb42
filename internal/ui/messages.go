// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/transit-tui/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// GraphChangedMsg is sent by the sequencer whenever the highlighted set of
// graph ids changes, so the panel redraws mid-sweep.
type GraphChangedMsg struct{}

// heightSettledMsg is emitted by the height observer once a panel resize
// has stopped jittering.
type heightSettledMsg struct {
	height   float64
	expanded bool
}

// sendDoneMsg reports the outcome of one prompt round-trip.
type sendDoneMsg struct {
	err error
}

// suggestedMsg carries the starter prompts fetched from the service.
type suggestedMsg struct {
	prompts []string
}

// aboutMsg carries the service metadata for the about overlay.
type aboutMsg struct {
	info model.AboutInfo
}

// revealTickMsg advances the progressive reveal of an animated reply.
type revealTickMsg struct{}

// =============================================================================
// PROGRAM HANDLE
// =============================================================================

// programHandle lets background goroutines (the sequencer run loop, the
// height observer timer) inject messages into the running program. It is
// nil-safe until Attach is called.
type programHandle struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach binds the running program.
func (h *programHandle) Attach(p *tea.Program) {
	h.mu.Lock()
	h.p = p
	h.mu.Unlock()
}

// Send forwards a message if a program is attached.
func (h *programHandle) Send(msg tea.Msg) {
	h.mu.Lock()
	p := h.p
	h.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
