// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import "github.com/jeranaias/askdesk/internal/simulate"

// EventKind identifies what the rendering adapter should do.
type EventKind int

const (
	// EventOverlayShown opens the overlay at 0% with the first status line.
	EventOverlayShown EventKind = iota

	// EventProgress carries a new simulation frame.
	EventProgress

	// EventCompleted carries the forced 100% frame with the completion text.
	EventCompleted

	// EventOverlayHidden closes the overlay.
	EventOverlayHidden

	// EventAlert carries the blocking message shown to the user.
	EventAlert

	// EventFormReset clears the file selection and extra fields.
	EventFormReset
)

var eventNames = map[EventKind]string{
	EventOverlayShown:  "overlay_shown",
	EventProgress:      "progress",
	EventCompleted:     "completed",
	EventOverlayHidden: "overlay_hidden",
	EventAlert:         "alert",
	EventFormReset:     "form_reset",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one step of an attempt's lifecycle.
type Event struct {
	Kind EventKind

	// Snapshot is set for OverlayShown, Progress and Completed.
	Snapshot simulate.Snapshot

	// Alert is the message for EventAlert.
	Alert string

	// Success is set on EventAlert when the upload succeeded.
	Success bool
}
