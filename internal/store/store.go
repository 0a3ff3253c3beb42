// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists the chat log for the transit TUI.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/transit-tui/internal/model"
	"github.com/jeranaias/transit-tui/internal/util"
)

// DefaultFileName is the fixed file name the chat log is persisted under,
// inside the transit-tui state directory.
const DefaultFileName = "chat.json"

// ErrEmptyLog is returned by ReplaceLast when there is nothing to replace.
var ErrEmptyLog = errors.New("store: chat log is empty")

// MessageStore is an ordered chat log persisted to a single JSON file.
// All methods are safe for concurrent use.
type MessageStore struct {
	mu       sync.Mutex
	path     string
	messages []model.ChatMessage
}

// New creates a store backed by the given file path. The file is not read
// until Load is called.
func New(path string) *MessageStore {
	return &MessageStore{path: path}
}

// NewDefault creates a store at ~/.transit/chat.json.
func NewDefault() (*MessageStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("store: resolve home directory: %w", err)
	}
	return New(filepath.Join(home, ".transit", DefaultFileName)), nil
}

// Load rehydrates the chat log from disk. A missing file is not an error;
// it simply yields an empty log. A corrupt file is discarded the same way so
// a bad write can never wedge startup.
func (s *MessageStore) Load() ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.messages = nil
			return nil, nil
		}
		return nil, fmt.Errorf("store: read chat log: %w", err)
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		s.messages = nil
		return nil, nil
	}

	s.messages = msgs
	return s.snapshotLocked(), nil
}

// Append adds a user message and its provisional placeholder as one logical
// mutation, persisting the log before returning.
func (s *MessageStore) Append(userMsg, placeholder model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, userMsg, placeholder)
	return s.persistLocked()
}

// ReplaceLast rewrites the final element of the log in place. The log is
// append-only, so the final element is always the most recent placeholder;
// this is an ordering guarantee, not a search.
func (s *MessageStore) ReplaceLast(content string, animate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return ErrEmptyLog
	}
	last := &s.messages[len(s.messages)-1]
	last.Content = content
	last.Animate = animate
	return s.persistLocked()
}

// Replace rewrites the message with the given ID, searching from the tail.
// It returns false if no message carries that ID. Used by the gateway so a
// late response only ever lands on its own placeholder.
func (s *MessageStore) Replace(id, content string, animate bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			s.messages[i].Content = content
			s.messages[i].Animate = animate
			return true, s.persistLocked()
		}
	}
	return false, nil
}

// Clear removes every message and persists the empty log.
func (s *MessageStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	return s.persistLocked()
}

// Messages returns a copy of the current log.
func (s *MessageStore) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of messages in the log.
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Last returns the final message and true, or a zero message and false when
// the log is empty.
func (s *MessageStore) Last() (model.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return model.ChatMessage{}, false
	}
	return s.messages[len(s.messages)-1], true
}

func (s *MessageStore) snapshotLocked() []model.ChatMessage {
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *MessageStore) persistLocked() error {
	data, err := json.MarshalIndent(s.messages, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode chat log: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("store: persist chat log: %w", err)
	}
	return nil
}
