// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var (
	// ErrMessageNotFound is returned when a handle does not name a transcript entry.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotPending is returned when resolving an entry that is not an
	// unresolved placeholder.
	ErrNotPending = errors.New("message is not a pending placeholder")
)

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered, append-only list of chat messages.
//
// Entries are never removed. The only mutation allowed after Add is the single
// resolution of an assistant placeholder. All methods are safe for concurrent
// use; overlapping sends each resolve their own placeholder.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	index    map[string]int

	obsMu     sync.Mutex
	observers []func(Message)
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		index: make(map[string]int),
	}
}

// Subscribe registers fn to be called with the affected message after every
// Add and every placeholder resolution. fn runs on the mutating goroutine,
// outside the transcript lock.
func (t *Transcript) Subscribe(fn func(Message)) {
	if fn == nil {
		return
	}
	t.obsMu.Lock()
	t.observers = append(t.observers, fn)
	t.obsMu.Unlock()
}

// Add appends a message and returns it. The returned ID is the handle used to
// resolve a placeholder later.
func (t *Transcript) Add(content string, role Role, placeholder bool) Message {
	msg := NewMessage(content, role, placeholder)

	t.mu.Lock()
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	t.notify(msg)
	return msg.clone()
}

// Resolve replaces a pending placeholder's text with the answer.
func (t *Transcript) Resolve(id, content string, sources []string) (Message, error) {
	return t.settle(id, func(m *Message) {
		m.Content = content
		if len(sources) > 0 {
			m.Sources = append([]string(nil), sources...)
		}
	})
}

// Fail replaces a pending placeholder's text with a user-facing error text.
func (t *Transcript) Fail(id, content string) (Message, error) {
	return t.settle(id, func(m *Message) {
		m.Content = content
		m.Failed = true
	})
}

func (t *Transcript) settle(id string, apply func(*Message)) (Message, error) {
	t.mu.Lock()
	i, ok := t.index[id]
	if !ok {
		t.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}
	m := &t.messages[i]
	if !m.Pending() {
		t.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrNotPending, id)
	}
	apply(m)
	m.ResolvedAt = time.Now()
	out := m.clone()
	t.mu.Unlock()

	t.notify(out)
	return out, nil
}

// Get returns a copy of the message with the given ID.
func (t *Transcript) Get(id string) (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i, ok := t.index[id]
	if !ok {
		return Message{}, false
	}
	return t.messages[i].clone(), true
}

// Messages returns a snapshot of all messages in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Message, len(t.messages))
	for i, m := range t.messages {
		out[i] = m.clone()
	}
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// PendingCount returns the number of unresolved placeholders.
func (t *Transcript) PendingCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, m := range t.messages {
		if m.Pending() {
			n++
		}
	}
	return n
}

func (t *Transcript) notify(m Message) {
	t.obsMu.Lock()
	observers := slices.Clone(t.observers)
	t.obsMu.Unlock()

	for _, fn := range observers {
		fn(m.clone())
	}
}
