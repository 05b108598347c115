// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{Role("bot"), "bot"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%q.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewMessage("hello", RoleUser, false)

	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", msg.ID)
	}
	if msg.Content != "hello" || msg.Role != RoleUser {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Pending() {
		t.Error("a user message is never pending")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage("¿Cuál es el plazo de prescripción?", RoleUser, false)

	if got := msg.Preview(100); got != msg.Content {
		t.Errorf("Preview(100) = %q", got)
	}
	if got := msg.Preview(8); got != "¿Cuál..." {
		t.Errorf("Preview(8) = %q", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AddIsOrdered(t *testing.T) {
	tr := NewTranscript()

	user := tr.Add("hello", RoleUser, false)
	ph := tr.Add("Thinking...", RoleAssistant, true)

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, user.ID, msgs[0].ID)
	assert.Equal(t, ph.ID, msgs[1].ID)
	assert.True(t, msgs[1].Pending())
	assert.Equal(t, 1, tr.PendingCount())
}

func TestTranscript_ResolvePlaceholder(t *testing.T) {
	tr := NewTranscript()
	tr.Add("hello", RoleUser, false)
	ph := tr.Add("Thinking...", RoleAssistant, true)

	got, err := tr.Resolve(ph.ID, "hi", []string{"manual.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Content)
	assert.False(t, got.Failed)
	assert.Equal(t, []string{"manual.pdf"}, got.Sources)
	assert.False(t, got.Pending())

	stored, ok := tr.Get(ph.ID)
	require.True(t, ok)
	assert.Equal(t, "hi", stored.Content)
	assert.Equal(t, 0, tr.PendingCount())
}

func TestTranscript_FailPlaceholder(t *testing.T) {
	tr := NewTranscript()
	user := tr.Add("hello", RoleUser, false)
	ph := tr.Add("Thinking...", RoleAssistant, true)

	got, err := tr.Fail(ph.ID, "Sorry")
	require.NoError(t, err)
	assert.True(t, got.Failed)
	assert.Equal(t, "Sorry", got.Content)

	stillUser, _ := tr.Get(user.ID)
	assert.Equal(t, "hello", stillUser.Content)
}

func TestTranscript_ResolveOnlyOnce(t *testing.T) {
	tr := NewTranscript()
	ph := tr.Add("Thinking...", RoleAssistant, true)

	_, err := tr.Resolve(ph.ID, "first", nil)
	require.NoError(t, err)

	_, err = tr.Resolve(ph.ID, "second", nil)
	assert.True(t, errors.Is(err, ErrNotPending))

	_, err = tr.Fail(ph.ID, "oops")
	assert.True(t, errors.Is(err, ErrNotPending))

	stored, _ := tr.Get(ph.ID)
	assert.Equal(t, "first", stored.Content)
}

func TestTranscript_ResolveRejectsNonPlaceholder(t *testing.T) {
	tr := NewTranscript()
	user := tr.Add("hello", RoleUser, false)

	_, err := tr.Resolve(user.ID, "changed", nil)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestTranscript_ResolveUnknownID(t *testing.T) {
	tr := NewTranscript()

	_, err := tr.Resolve("msg_missing", "x", nil)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestTranscript_SnapshotsAreCopies(t *testing.T) {
	tr := NewTranscript()
	ph := tr.Add("Thinking...", RoleAssistant, true)
	_, err := tr.Resolve(ph.ID, "answer", []string{"a.pdf"})
	require.NoError(t, err)

	msgs := tr.Messages()
	msgs[0].Content = "mutated"
	msgs[0].Sources[0] = "mutated.pdf"

	stored, _ := tr.Get(ph.ID)
	assert.Equal(t, "answer", stored.Content)
	assert.Equal(t, "a.pdf", stored.Sources[0])
}

func TestTranscript_ObserversSeeEveryChange(t *testing.T) {
	tr := NewTranscript()

	var seen []string
	tr.Subscribe(func(m Message) {
		seen = append(seen, m.Content)
	})

	ph := tr.Add("Thinking...", RoleAssistant, true)
	_, _ = tr.Resolve(ph.ID, "done", nil)

	assert.Equal(t, []string{"Thinking...", "done"}, seen)
}

func TestTranscript_EveryObserverIsCalled(t *testing.T) {
	tr := NewTranscript()

	var first, second []string
	tr.Subscribe(func(m Message) { first = append(first, m.Content) })
	tr.Subscribe(func(m Message) { second = append(second, m.Content) })
	tr.Subscribe(nil)

	ph := tr.Add("Thinking...", RoleAssistant, true)
	_, _ = tr.Fail(ph.ID, "error")

	want := []string{"Thinking...", "error"}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestTranscript_SubscribeDuringNotify(t *testing.T) {
	tr := NewTranscript()

	calls := 0
	tr.Subscribe(func(m Message) {
		calls++
		// Registering from inside a callback must not deadlock or affect
		// the delivery already in progress.
		tr.Subscribe(func(Message) {})
	})

	tr.Add("a", RoleUser, false)
	tr.Add("b", RoleUser, false)
	assert.Equal(t, 2, calls)
}

func TestTranscript_ConcurrentResolves(t *testing.T) {
	tr := NewTranscript()

	const n = 50
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = tr.Add("Thinking...", RoleAssistant, true).ID
	}

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = tr.Resolve(id, "answer "+id, nil)
		}(ids[i])
	}
	wg.Wait()

	assert.Equal(t, n, tr.Len())
	assert.Equal(t, 0, tr.PendingCount())
	for i, m := range tr.Messages() {
		assert.Equal(t, ids[i], m.ID, "order must follow Add order, not completion order")
		assert.Equal(t, "answer "+ids[i], m.Content)
	}
}
