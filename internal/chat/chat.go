// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jeranaias/askdesk/internal/client"
	"github.com/jeranaias/askdesk/internal/logging"
	"github.com/jeranaias/askdesk/internal/model"
)

// Default user-facing texts.
const (
	DefaultThinkingText = "Thinking..."
	DefaultErrorText    = "Sorry, there was an error contacting the assistant."

	questionPreviewLen = 60
)

var (
	// ErrEmptyInput is returned when the input is empty after trimming.
	// Nothing is added to the transcript and no request is made.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy is returned in serialize mode while a send is in flight.
	ErrBusy = errors.New("a question is already in flight")
)

// Mode selects how overlapping sends are handled.
type Mode int

const (
	// ModeConcurrent lets sends overlap. Each has its own placeholder and
	// they may resolve in any order.
	ModeConcurrent Mode = iota

	// ModeSerialize rejects a send while another is in flight.
	ModeSerialize
)

// ParseMode maps a config value to a Mode. Unknown values mean concurrent.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "serialize") {
		return ModeSerialize
	}
	return ModeConcurrent
}

func (m Mode) String() string {
	if m == ModeSerialize {
		return "serialize"
	}
	return "concurrent"
}

// Asker is the part of the API client the controller needs.
type Asker interface {
	Ask(ctx context.Context, question string) (*client.AskResponse, error)
}

// Recorder persists resolved exchanges.
type Recorder interface {
	Record(ctx context.Context, question, answer string, failed bool) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives the chat surface.
type Controller struct {
	asker      Asker
	transcript *model.Transcript
	recorder   Recorder
	log        *slog.Logger

	mode         Mode
	thinkingText string
	errorText    string
	onSent       func()

	inFlight atomic.Int32
}

// Option configures a Controller.
type Option func(*Controller)

// WithTranscript uses t instead of a fresh transcript.
func WithTranscript(t *model.Transcript) Option {
	return func(c *Controller) {
		if t != nil {
			c.transcript = t
		}
	}
}

// WithMode sets the overlapping-send policy.
func WithMode(m Mode) Option {
	return func(c *Controller) {
		c.mode = m
	}
}

// WithThinkingText sets the placeholder text shown while waiting.
func WithThinkingText(s string) Option {
	return func(c *Controller) {
		if s != "" {
			c.thinkingText = s
		}
	}
}

// WithErrorText sets the text a failed placeholder is replaced with.
func WithErrorText(s string) Option {
	return func(c *Controller) {
		if s != "" {
			c.errorText = s
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = logging.OrDiscard(l)
	}
}

// WithRecorder records every resolved exchange.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithInputCleared registers fn to run once a send is accepted, before the
// request starts. The rendering adapter clears its input field here.
func WithInputCleared(fn func()) Option {
	return func(c *Controller) {
		c.onSent = fn
	}
}

// New creates a controller that asks questions through asker.
func New(asker Asker, opts ...Option) *Controller {
	c := &Controller{
		asker:        asker,
		transcript:   model.NewTranscript(),
		log:          logging.Discard(),
		thinkingText: DefaultThinkingText,
		errorText:    DefaultErrorText,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcript returns the transcript the controller appends to.
func (c *Controller) Transcript() *model.Transcript {
	return c.transcript
}

// Mode returns the overlapping-send policy.
func (c *Controller) Mode() Mode {
	return c.mode
}

// InFlight returns the number of unresolved sends.
func (c *Controller) InFlight() int {
	return int(c.inFlight.Load())
}

// Busy reports whether a send would be rejected with ErrBusy.
func (c *Controller) Busy() bool {
	return c.mode == ModeSerialize && c.InFlight() > 0
}

// AddMessage appends a message to the transcript and returns it. The
// returned ID is the handle for resolving a placeholder.
func (c *Controller) AddMessage(text string, role model.Role, isPlaceholder bool) model.Message {
	return c.transcript.Add(text, role, isPlaceholder)
}

// Send submits input as a question.
//
// The input is trimmed. Empty input returns ErrEmptyInput and changes
// nothing. Otherwise the user message and a placeholder are appended, the
// input-cleared hook runs, and the request is issued on its own goroutine.
// The returned Turn reports when the placeholder has been resolved.
func (c *Controller) Send(ctx context.Context, input string) (*Turn, error) {
	question := strings.TrimSpace(input)
	if question == "" {
		return nil, ErrEmptyInput
	}

	if c.mode == ModeSerialize {
		if !c.inFlight.CompareAndSwap(0, 1) {
			return nil, ErrBusy
		}
	} else {
		c.inFlight.Add(1)
	}

	user := c.AddMessage(question, model.RoleUser, false)
	if c.onSent != nil {
		c.onSent()
	}
	placeholder := c.AddMessage(c.thinkingText, model.RoleAssistant, true)

	turn := &Turn{
		Question:      question,
		UserMessage:   user,
		PlaceholderID: placeholder.ID,
		done:          make(chan struct{}),
	}

	c.log.Debug("question sent", "message_id", placeholder.ID, "question", user.Preview(questionPreviewLen))
	go c.run(ctx, turn)

	return turn, nil
}

func (c *Controller) run(ctx context.Context, turn *Turn) {
	defer func() {
		c.inFlight.Add(-1)
		close(turn.done)
	}()

	resp, err := c.asker.Ask(ctx, turn.Question)

	var (
		msg       model.Message
		settleErr error
	)
	if err != nil {
		c.log.Error("ask failed",
			"message_id", turn.PlaceholderID,
			"error", err)
		msg, settleErr = c.transcript.Fail(turn.PlaceholderID, c.errorText)
	} else {
		msg, settleErr = c.transcript.Resolve(turn.PlaceholderID, resp.Text(), resp.Sources)
	}
	if settleErr != nil {
		c.log.Error("resolve placeholder", "message_id", turn.PlaceholderID, "error", settleErr)
		// Report the entry as the transcript holds it.
		if stored, ok := c.transcript.Get(turn.PlaceholderID); ok {
			msg = stored
		}
	}

	turn.mu.Lock()
	turn.result = msg
	turn.err = err
	turn.mu.Unlock()

	c.record(ctx, turn.Question, msg)
}

func (c *Controller) record(ctx context.Context, question string, msg model.Message) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(context.WithoutCancel(ctx), question, msg.Content, msg.Failed); err != nil {
		c.log.Warn("record exchange", "error", err)
	}
}

// =============================================================================
// TURN
// =============================================================================

// Turn is one send: the user message, its placeholder and the request
// resolving it.
type Turn struct {
	Question      string
	UserMessage   model.Message
	PlaceholderID string

	done chan struct{}

	mu     sync.Mutex
	result model.Message
	err    error
}

// Done is closed once the placeholder has been resolved.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the turn resolves or ctx ends. It returns the resolved
// assistant message and the request error, if any. The error is informative
// only; the transcript already shows the failure text.
func (t *Turn) Wait(ctx context.Context) (model.Message, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.result, t.err
	case <-ctx.Done():
		return model.Message{}, ctx.Err()
	}
}
