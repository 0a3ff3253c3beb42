// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the
// metadata returned by the transit agent service.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/transit-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// PlaceholderContent is the provisional assistant content shown while a
// request is in flight. It is overwritten in place when the reply resolves.
const PlaceholderContent = "..."

// ChatMessage is a single turn in the chat log.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Animate   bool      `json:"animate"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPlaceholderMessage creates the provisional assistant message that is
// appended alongside each user message and later rewritten in place.
func NewPlaceholderMessage() ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   PlaceholderContent,
		Timestamp: time.Now(),
	}
}

// IsPlaceholder reports whether the message still holds provisional content.
func (m ChatMessage) IsPlaceholder() bool {
	return m.Role == RoleAssistant && m.Content == PlaceholderContent
}

// Preview returns a truncated preview of the message content.
func (m ChatMessage) Preview(maxLen int) string {
	return util.TruncateRunes(m.Content, maxLen)
}
