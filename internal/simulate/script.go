// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import "errors"

// ErrEmptyScript is returned when a status script has no phases.
var ErrEmptyScript = errors.New("status script must contain at least one phase")

// DefaultScript is the seven-phase status script shown while a document is
// being uploaded and indexed.
var DefaultScript = Script{
	"Starting text extraction...",
	"Analyzing document structure...",
	"Semantic chunking in progress...",
	"Generating high-dimensional vectors...",
	"Indexing into the vector database...",
	"Optimizing the index for search...",
	"Finishing up...",
}

// Script is a fixed, ordered sequence of status phases cycled with wraparound.
type Script []string

// Validate reports whether the script can be cycled.
func (s Script) Validate() error {
	if len(s) == 0 {
		return ErrEmptyScript
	}
	return nil
}

// Phase returns the phase at index i, wrapping around the script length.
func (s Script) Phase(i int) string {
	if len(s) == 0 {
		return ""
	}
	i %= len(s)
	if i < 0 {
		i += len(s)
	}
	return s[i]
}

// Next returns the index following i with wraparound.
func (s Script) Next(i int) int {
	if len(s) == 0 {
		return 0
	}
	return (i + 1) % len(s)
}

// Clone returns an independent copy so a running attempt is unaffected by
// later edits to the source slice.
func (s Script) Clone() Script {
	return append(Script(nil), s...)
}
