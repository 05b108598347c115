// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploadview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/askdesk/internal/upload"
)

// EventMsg carries the next event of an attempt. Closed is set once the
// attempt's stream has ended.
type EventMsg struct {
	AttemptID string
	Event     upload.Event
	Closed    bool
}

// waitEvent reads the next event from a.
func waitEvent(a *upload.Attempt) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-a.Events()
		if !ok {
			return EventMsg{AttemptID: a.ID, Closed: true}
		}
		return EventMsg{AttemptID: a.ID, Event: e}
	}
}
