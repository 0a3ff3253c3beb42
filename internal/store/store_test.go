// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/transit-tui/internal/model"
)

func newTestStore(t *testing.T) *MessageStore {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "chat.json"))
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	msgs, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("Expected empty log, got %d messages", len(msgs))
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(path)
	msgs, err := s.Load()
	if err != nil {
		t.Fatalf("Load should discard corrupt file, got error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("Expected empty log after corrupt file, got %d", len(msgs))
	}
}

func TestAppend_PersistsImmediately(t *testing.T) {
	s := newTestStore(t)

	user := model.NewUserMessage("red line status")
	if err := s.Append(user, model.NewPlaceholderMessage()); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// A second store on the same path must see the mutation.
	reloaded := New(s.path)
	msgs, err := reloaded.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "red line status" {
		t.Errorf("Unexpected first message: %q", msgs[0].Content)
	}
	if !msgs[1].IsPlaceholder() {
		t.Errorf("Expected placeholder tail, got %q", msgs[1].Content)
	}
}

func TestReplaceLast(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(model.NewUserMessage("q"), model.NewPlaceholderMessage()); err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceLast("No current alerts.", true); err != nil {
		t.Fatalf("ReplaceLast failed: %v", err)
	}

	last, ok := s.Last()
	if !ok {
		t.Fatal("Expected a last message")
	}
	if last.Content != "No current alerts." || !last.Animate {
		t.Errorf("Unexpected last message: %+v", last)
	}
	if s.Len() != 2 {
		t.Errorf("Length changed on replace: %d", s.Len())
	}
}

func TestReplaceLast_Empty(t *testing.T) {
	s := newTestStore(t)
	s.Load()
	if err := s.ReplaceLast("x", false); err != ErrEmptyLog {
		t.Errorf("Expected ErrEmptyLog, got %v", err)
	}
}

func TestReplace_ByID(t *testing.T) {
	s := newTestStore(t)
	ph := model.NewPlaceholderMessage()
	if err := s.Append(model.NewUserMessage("q"), ph); err != nil {
		t.Fatal(err)
	}

	found, err := s.Replace(ph.ID, "answer", true)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if !found {
		t.Fatal("Expected the placeholder to be found")
	}

	found, err = s.Replace("nope", "x", false)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if found {
		t.Error("Replace of unknown ID should report not found")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(model.NewUserMessage("q"), model.NewPlaceholderMessage()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty log, got %d", s.Len())
	}

	reloaded := New(s.path)
	msgs, _ := reloaded.Load()
	if len(msgs) != 0 {
		t.Errorf("Clear did not persist: %d messages on disk", len(msgs))
	}
}

func TestMessages_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(model.NewUserMessage("q"), model.NewPlaceholderMessage()); err != nil {
		t.Fatal(err)
	}

	snap := s.Messages()
	snap[0].Content = "mutated"

	if msgs := s.Messages(); msgs[0].Content == "mutated" {
		t.Error("Messages must return a copy, not the backing slice")
	}
}
