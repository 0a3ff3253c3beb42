// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"
	"time"
)

// =============================================================================
// HEIGHT OBSERVER
// =============================================================================

const (
	// DebounceStandalone is the settle delay when the chat panel is the
	// only resizable surface.
	DebounceStandalone = 150 * time.Millisecond

	// DebounceComposed is the shorter settle delay used when the panel is
	// embedded next to the graph view, which re-fits on every emission.
	DebounceComposed = 100 * time.Millisecond

	// ExpandThreshold is the panel height above which the chat counts as
	// expanded and the graph fit opens up its zoom bounds.
	ExpandThreshold = 76.0
)

// HeightObserver coalesces rapid chat-panel height changes into settled
// emissions. Observe may be called from any goroutine; the emit callback
// runs on the debounce timer goroutine.
//
// Emissions are change-driven: a settled height equal to the last emitted
// one is dropped, so jitter that returns to the starting size produces no
// downstream re-fit.
type HeightObserver struct {
	debounce time.Duration
	emit     func(height float64, expanded bool)

	mu      sync.Mutex
	timer   *time.Timer
	pending float64
	last    float64
	started bool
	closed  bool
}

// NewHeightObserver creates an observer with the given settle delay.
func NewHeightObserver(debounce time.Duration, emit func(height float64, expanded bool)) *HeightObserver {
	if debounce <= 0 {
		debounce = DebounceStandalone
	}
	return &HeightObserver{debounce: debounce, emit: emit}
}

// Start records the initial height and emits it immediately, without
// debouncing. Subsequent heights go through Observe.
func (o *HeightObserver) Start(height float64) {
	o.mu.Lock()
	if o.closed || o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.last = height
	o.mu.Unlock()

	o.emit(height, height > ExpandThreshold)
}

// Observe schedules an emission for the new height, resetting the settle
// timer if one is already running.
func (o *HeightObserver) Observe(height float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.pending = height
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, o.fire)
}

// fire runs on the timer goroutine after the settle delay.
func (o *HeightObserver) fire() {
	o.mu.Lock()
	if o.closed || o.pending == o.last {
		o.mu.Unlock()
		return
	}
	h := o.pending
	o.last = h
	o.mu.Unlock()

	o.emit(h, h > ExpandThreshold)
}

// Close cancels any pending emission. Further Observe calls are no-ops.
func (o *HeightObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}
