// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph holds the static agent-graph configuration and the
// animation sequencer that drives the highlight sweep across it.
package graph

import (
	"sync"
	"time"
)

// =============================================================================
// TRIGGERS
// =============================================================================

// TriggerKind identifies why a sweep was requested.
type TriggerKind int

const (
	// TriggerRequestStarted fires when a new user turn begins; it runs a
	// full highlight sweep.
	TriggerRequestStarted TriggerKind = iota

	// TriggerReplyArrived fires when the agent's reply lands; it
	// short-circuits any pending sweep so the diagram settles immediately.
	TriggerReplyArrived
)

// HighlightDuration is how long each step of the sequence stays lit before
// it is cleared and the sweep advances.
const HighlightDuration = 500 * time.Millisecond

// =============================================================================
// SEQUENCER
// =============================================================================

// Sequencer drives the timed highlight sweep over a static graph Config.
//
// Trigger requests set pending flags consumed by a single run loop, so at
// most one sweep is ever active and a trigger raised mid-sweep waits for
// the current sweep to finish. Repeated sweep requests coalesce into one
// pending sweep, and a reply cancels a pending sweep even if the sweep was
// requested first. No polling lock is involved; serialization is
// structural.
type Sequencer struct {
	cfg     *Config
	stepDur time.Duration

	// onChange is invoked after every active-set mutation so the renderer
	// can redraw. May be nil.
	onChange func()

	mu             sync.Mutex
	active         map[string]bool
	requestPending bool
	replyPending   bool

	wake     chan struct{}
	done     chan struct{}
	stopped  sync.Once
	loopDone chan struct{}
}

// SequencerOption customizes a Sequencer.
type SequencerOption func(*Sequencer)

// WithStepDuration overrides the per-step highlight duration. Used by tests
// to keep sweeps fast.
func WithStepDuration(d time.Duration) SequencerOption {
	return func(s *Sequencer) { s.stepDur = d }
}

// WithOnChange registers a callback invoked after every highlight toggle.
func WithOnChange(fn func()) SequencerOption {
	return func(s *Sequencer) { s.onChange = fn }
}

// NewSequencer creates a sequencer for the given configuration. Call Start
// to begin consuming triggers and Close to tear the run loop down.
func NewSequencer(cfg *Config, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		cfg:      cfg,
		stepDur:  HighlightDuration,
		active:   make(map[string]bool),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the run loop.
func (s *Sequencer) Start() {
	go s.run()
}

// Close stops the run loop. An in-flight sweep exits at its current pulse;
// pending triggers are dropped.
func (s *Sequencer) Close() {
	s.stopped.Do(func() { close(s.done) })
	<-s.loopDone
}

// Trigger requests a sweep (or a short-circuit, for TriggerReplyArrived).
// Never blocks the caller.
func (s *Sequencer) Trigger(kind TriggerKind) {
	s.mu.Lock()
	switch kind {
	case TriggerRequestStarted:
		s.requestPending = true
	case TriggerReplyArrived:
		s.replyPending = true
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// IsActive reports whether the given node or edge id is currently lit.
func (s *Sequencer) IsActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[id]
}

// ActiveIDs returns a snapshot of the currently lit ids.
func (s *Sequencer) ActiveIDs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.active))
	for id, on := range s.active {
		if on {
			out[id] = true
		}
	}
	return out
}

// =============================================================================
// RUN LOOP
// =============================================================================

func (s *Sequencer) run() {
	defer close(s.loopDone)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		// Consume the pending flags under the lock. A reply wins over a
		// pending sweep: both flags reset, no steps run.
		s.mu.Lock()
		replied := s.replyPending
		requested := s.requestPending
		s.replyPending = false
		s.requestPending = false
		s.mu.Unlock()

		switch {
		case replied:
			s.clearAll()
		case requested:
			s.sweep()
		}
	}
}

// sweep walks the animation sequence in order, lighting each step for the
// highlight duration and clearing it before advancing. Sequential, never
// parallel.
func (s *Sequencer) sweep() {
	for _, step := range s.cfg.Sequence {
		s.setActive(step.IDs, true)
		ok := s.pause()
		s.setActive(step.IDs, false)
		if !ok {
			return
		}
	}
}

// pause waits one highlight duration. Returns false if the sequencer was
// closed while waiting.
func (s *Sequencer) pause() bool {
	t := time.NewTimer(s.stepDur)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.done:
		return false
	}
}

func (s *Sequencer) setActive(ids []string, on bool) {
	s.mu.Lock()
	for _, id := range ids {
		if on {
			s.active[id] = true
		} else {
			delete(s.active, id)
		}
	}
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Sequencer) clearAll() {
	s.mu.Lock()
	changed := len(s.active) > 0
	s.active = make(map[string]bool)
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange()
	}
}
