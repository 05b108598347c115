// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
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

// Message is a single transcript entry.
//
// An assistant placeholder is created with IsPlaceholder set and its Content
// showing the thinking marker. It is resolved exactly once, either with the
// answer or with the fixed error text (Failed set).
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	Content       string `json:"content"`
	IsPlaceholder bool   `json:"is_placeholder"`

	// Set when the placeholder is resolved.
	Failed     bool      `json:"failed,omitempty"`
	Sources    []string  `json:"sources,omitempty"`
	ResolvedAt time.Time `json:"resolved_at,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(content string, role Role, placeholder bool) Message {
	return Message{
		ID:            "msg_" + uuid.NewString(),
		Role:          role,
		Timestamp:     time.Now(),
		Content:       content,
		IsPlaceholder: placeholder,
	}
}

// Pending reports whether the message is a placeholder still waiting for
// its answer.
func (m Message) Pending() bool {
	return m.IsPlaceholder && m.ResolvedAt.IsZero()
}

// Latency returns how long the placeholder waited, or zero while pending.
func (m Message) Latency() time.Duration {
	if m.ResolvedAt.IsZero() {
		return 0
	}
	return m.ResolvedAt.Sub(m.Timestamp)
}

// Preview returns a rune-safe truncated preview of the content.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]string(nil), m.Sources...)
	}
	return m
}
