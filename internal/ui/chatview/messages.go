// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/askdesk/internal/chat"
)

// TranscriptChangedMsg is delivered after the transcript gained or settled
// a message.
type TranscriptChangedMsg struct{}

// TurnDoneMsg is delivered once a sent question has been answered or failed.
type TurnDoneMsg struct {
	PlaceholderID string
}

// listenTranscript waits for the next transcript change.
func listenTranscript(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return TranscriptChangedMsg{}
	}
}

// waitTurn waits for turn to resolve.
func waitTurn(turn *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		<-turn.Done()
		return TurnDoneMsg{PlaceholderID: turn.PlaceholderID}
	}
}
