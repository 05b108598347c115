// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/askdesk/internal/client"
	"github.com/jeranaias/askdesk/internal/logging"
	"github.com/jeranaias/askdesk/internal/simulate"
)

// Default user-facing texts and timings.
const (
	DefaultCompletionText   = "Process complete!"
	DefaultNoFileText       = "Please select a file before continuing."
	DefaultUnknownErrorText = "An unknown error occurred."
	DefaultSuccessDelay     = 1000 * time.Millisecond

	successPrefix = "Success: "
	errorPrefix   = "Error: "
)

// ErrNoFile is returned by Submit when the form has no file selected. No
// request is sent and no simulation is started.
var ErrNoFile = errors.New("no file selected")

// Uploader is the part of the API client the controller needs.
type Uploader interface {
	Upload(ctx context.Context, r client.UploadRequest) (*client.UploadResponse, error)
}

// Form is the upload form's content.
type Form struct {
	// FilePath is the selected file. Ignored when File is set.
	FilePath string

	// File and FileName supply the content directly.
	File     io.Reader
	FileName string

	// Fields are the other form fields, sent alongside the file.
	Fields map[string]string
}

// HasFile reports whether a file is selected.
func (f Form) HasFile() bool {
	return f.File != nil || strings.TrimSpace(f.FilePath) != ""
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives the upload surface.
type Controller struct {
	uploader Uploader
	log      *slog.Logger

	script       simulate.Script
	timing       simulate.Timing
	rng          simulate.Rand
	successDelay time.Duration

	completionText   string
	noFileText       string
	unknownErrorText string
}

// Option configures a Controller.
type Option func(*Controller)

// WithScript replaces the status script. Empty scripts are ignored.
func WithScript(s simulate.Script) Option {
	return func(c *Controller) {
		if len(s) > 0 {
			c.script = s.Clone()
		}
	}
}

// WithTiming sets the simulation tick intervals.
func WithTiming(t simulate.Timing) Option {
	return func(c *Controller) {
		c.timing = t
	}
}

// WithRand injects the simulation's randomness.
func WithRand(r simulate.Rand) Option {
	return func(c *Controller) {
		c.rng = r
	}
}

// WithSuccessDelay sets how long the completed overlay stays visible.
func WithSuccessDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.successDelay = d
		}
	}
}

// WithCompletionText sets the status line shown at 100%.
func WithCompletionText(s string) Option {
	return func(c *Controller) {
		if s != "" {
			c.completionText = s
		}
	}
}

// WithNoFileText sets the alert shown when no file is selected.
func WithNoFileText(s string) Option {
	return func(c *Controller) {
		if s != "" {
			c.noFileText = s
		}
	}
}

// WithUnknownErrorText sets the failure text used when the server gave none.
func WithUnknownErrorText(s string) Option {
	return func(c *Controller) {
		if s != "" {
			c.unknownErrorText = s
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = logging.OrDiscard(l)
	}
}

// New creates a controller that submits through uploader.
func New(uploader Uploader, opts ...Option) *Controller {
	c := &Controller{
		uploader:         uploader,
		log:              logging.Discard(),
		script:           simulate.DefaultScript.Clone(),
		timing:           simulate.DefaultTiming(),
		successDelay:     DefaultSuccessDelay,
		completionText:   DefaultCompletionText,
		noFileText:       DefaultNoFileText,
		unknownErrorText: DefaultUnknownErrorText,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NoFileText is the alert to show when Submit returns ErrNoFile.
func (c *Controller) NoFileText() string {
	return c.noFileText
}

// Submit validates the form and starts an attempt.
//
// Without a file it returns ErrNoFile. A file that cannot be opened is
// returned as an error before anything is shown. Otherwise the simulation
// starts, the request is issued on its own goroutine, and the returned
// Attempt streams the lifecycle events. Cancelling ctx fails the attempt.
func (c *Controller) Submit(ctx context.Context, form Form) (*Attempt, error) {
	if !form.HasFile() {
		return nil, ErrNoFile
	}

	req := client.UploadRequest{
		FileName: form.FileName,
		File:     form.File,
		Fields:   form.Fields,
	}
	var closer io.Closer
	if req.File == nil {
		f, err := os.Open(form.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", form.FilePath, err)
		}
		req.File, closer = f, f
		if req.FileName == "" {
			req.FileName = filepath.Base(form.FilePath)
		}
	}

	session, err := simulate.Start(c.script, c.timing, c.rng)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("start simulation: %w", err)
	}

	a := newAttempt(session)
	c.log.Info("upload started", "attempt", a.ID, "file", req.FileName)

	// Overlay, reset progress and the first status line come before the
	// request is issued.
	initial := session.Snapshot()
	a.send(Event{Kind: EventOverlayShown, Snapshot: initial})
	a.send(Event{Kind: EventProgress, Snapshot: initial})

	results := make(chan uploadResult, 1)
	go func() {
		if closer != nil {
			defer closer.Close()
		}
		resp, err := c.uploader.Upload(ctx, req)
		results <- uploadResult{resp: resp, err: err}
	}()

	go c.run(ctx, a, results)
	return a, nil
}

type uploadResult struct {
	resp *client.UploadResponse
	err  error
}

// run owns the attempt's event stream until it closes.
func (c *Controller) run(ctx context.Context, a *Attempt, results <-chan uploadResult) {
	defer a.finish()

	updates := a.session.Updates()
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			a.sendProgress(snap)

		case res := <-results:
			if res.err != nil {
				c.fail(a, res.err)
				return
			}
			c.succeed(ctx, a, res.resp)
			return

		case <-ctx.Done():
			c.fail(a, ctx.Err())
			return
		}
	}
}

func (c *Controller) succeed(ctx context.Context, a *Attempt, resp *client.UploadResponse) {
	final := a.session.Complete(c.completionText)
	a.send(Event{Kind: EventCompleted, Snapshot: final})

	// The completed frame stays up for the delay. Cancellation only cuts
	// the pause short; the upload itself already succeeded.
	if c.successDelay > 0 {
		timer := time.NewTimer(c.successDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	msg := strings.TrimSpace(resp.Message)
	if msg == "" {
		msg = c.completionText
	}
	alert := successPrefix + msg

	a.send(Event{Kind: EventOverlayHidden})
	a.send(Event{Kind: EventAlert, Alert: alert, Success: true})
	a.send(Event{Kind: EventFormReset})

	a.setOutcome(Outcome{
		Success: true,
		Message: resp.Message,
		Alert:   alert,
		Final:   final,
	})
	c.log.Info("upload finished", "attempt", a.ID, "message", resp.Message)
}

func (c *Controller) fail(a *Attempt, err error) {
	a.session.Stop()
	final := a.session.Snapshot()

	msg := client.ServerMessage(err)
	if msg == "" {
		msg = c.unknownErrorText
	}
	alert := errorPrefix + msg

	a.send(Event{Kind: EventOverlayHidden})
	a.send(Event{Kind: EventAlert, Alert: alert})

	a.setOutcome(Outcome{
		Message: msg,
		Alert:   alert,
		Err:     err,
		Final:   final,
	})
	c.log.Error("upload failed", "attempt", a.ID, "error", err)
}

// =============================================================================
// ATTEMPT
// =============================================================================

// eventBuffer is the event channel capacity. terminalReserve slots are kept
// free for the closing events so progress frames can never block them.
const (
	eventBuffer     = 16
	terminalReserve = 4
)

// Outcome is the final result of an attempt.
type Outcome struct {
	Success bool
	// Message is the server's message on success, or the failure text shown
	// after the error prefix.
	Message string
	// Alert is the exact text of the final alert.
	Alert string
	// Err is the underlying failure; nil on success.
	Err error
	// Final is the last simulation frame shown.
	Final simulate.Snapshot
}

// Attempt is one upload submission. It owns one simulation session.
type Attempt struct {
	ID string

	session *simulate.Session
	events  chan Event
	done    chan struct{}
	outcome Outcome
}

func newAttempt(session *simulate.Session) *Attempt {
	return &Attempt{
		ID:      uuid.NewString(),
		session: session,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
}

// Events returns the ordered lifecycle events. The channel is closed after
// the last one. Readers that fall behind miss intermediate progress frames
// but never a lifecycle event.
func (a *Attempt) Events() <-chan Event {
	return a.events
}

// Done is closed once the attempt has resolved.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt resolves and returns its outcome.
func (a *Attempt) Wait() Outcome {
	<-a.done
	return a.outcome
}

// Snapshot returns the current simulation frame.
func (a *Attempt) Snapshot() simulate.Snapshot {
	return a.session.Snapshot()
}

// send delivers a lifecycle event. Blocks if the reader is behind.
func (a *Attempt) send(e Event) {
	a.events <- e
}

// sendProgress drops the frame when the buffer is close to full.
func (a *Attempt) sendProgress(s simulate.Snapshot) {
	// Only this goroutine sends, so len can only shrink underneath us.
	if len(a.events) >= eventBuffer-terminalReserve {
		return
	}
	a.events <- Event{Kind: EventProgress, Snapshot: s}
}

func (a *Attempt) setOutcome(o Outcome) {
	a.outcome = o
}

func (a *Attempt) finish() {
	a.session.Stop()
	close(a.events)
	close(a.done)
}
