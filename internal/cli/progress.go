// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/jeranaias/askdesk/internal/simulate"
)

// Reporter shows upload progress frames.
type Reporter interface {
	Start(s simulate.Snapshot)
	Update(s simulate.Snapshot)
	Finish(success bool)
}

// NewReporter returns a live bar for terminals and a line-per-status
// reporter otherwise.
func NewReporter(w io.Writer) Reporter {
	if isTerminalWriter(w) {
		return &TerminalReporter{w: w}
	}
	return &LineReporter{w: w}
}

// TerminalReporter draws a progress bar.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(s simulate.Snapshot) {
	r.bar = progressbar.NewOptions(int(simulate.Done),
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(s.Status),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(s simulate.Snapshot) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(s.Status)
	_ = r.bar.Set(int(s.Value))
}

func (r *TerminalReporter) Finish(success bool) {
	if r.bar == nil {
		return
	}
	if success {
		_ = r.bar.Finish()
	} else {
		_ = r.bar.Clear()
	}
	r.bar = nil
}

// LineReporter prints one line per status change, for logs and pipes.
type LineReporter struct {
	w    io.Writer
	last string
}

func (r *LineReporter) Start(s simulate.Snapshot) {
	r.last = ""
	r.Update(s)
}

func (r *LineReporter) Update(s simulate.Snapshot) {
	if s.Status == r.last {
		return
	}
	r.last = s.Status
	fmt.Fprintf(r.w, "[%4s] %s\n", s.Percent, s.Status)
}

func (r *LineReporter) Finish(bool) {}
