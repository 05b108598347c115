// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/askdesk/internal/chat"
	"github.com/jeranaias/askdesk/internal/model"
	"github.com/jeranaias/askdesk/internal/ui/styles"
)

// Options control how answers are displayed.
type Options struct {
	// RenderMarkdown renders answers with glamour.
	RenderMarkdown bool
	// ShowSources lists the source documents under each answer.
	ShowSources bool
}

const busyNotice = "Waiting for the current answer..."

// Model is the chat view.
type Model struct {
	ctx   context.Context
	ctrl  *chat.Controller
	theme *styles.Theme
	keys  KeyMap
	opts  Options

	// input is shared with the controller's input-cleared hook.
	input    *textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	md       *markdown

	changes chan struct{}

	width   int
	height  int
	focused bool
	notice  string
}

// New creates the chat view and the controller behind it. Questions are
// asked through asker; chatOpts configure the controller.
func New(ctx context.Context, asker chat.Asker, theme *styles.Theme, opts Options, chatOpts ...chat.Option) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question..."
	ti.CharLimit = 4096
	ti.Focus()
	input := &ti

	all := make([]chat.Option, 0, len(chatOpts)+1)
	all = append(all, chatOpts...)
	all = append(all, chat.WithInputCleared(input.Reset))
	ctrl := chat.New(asker, all...)

	changes := make(chan struct{}, 1)
	ctrl.Transcript().Subscribe(func(model.Message) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	vp := viewport.New(80, 20)

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		theme:    theme,
		keys:     DefaultKeyMap(),
		opts:     opts,
		input:    input,
		viewport: vp,
		spinner:  sp,
		md:       newMarkdown(theme.IsDark),
		changes:  changes,
		focused:  true,
	}
	m.refresh(false)
	return m
}

// Controller returns the controller driving the view.
func (m Model) Controller() *chat.Controller {
	return m.ctrl
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// Notice returns the status notice, if any.
func (m Model) Notice() string {
	return m.notice
}

// Init starts listening for transcript changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenTranscript(m.changes),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// Focus gives the input field keyboard focus.
func (m Model) Focus() (Model, tea.Cmd) {
	m.focused = true
	return m, m.input.Focus()
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focused = false
	m.input.Blur()
	return m
}

// SetSize lays the view out in width x height cells.
func (m Model) SetSize(width, height int) Model {
	const (
		inputHeight  = 3 // bordered single line
		statusHeight = 1
	)

	m.width, m.height = width, height

	vpHeight := height - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := width
	if vpWidth < 1 {
		vpWidth = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight

	inputWidth := width - 4 - len(m.input.Prompt)
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.md.setWidth(width - 4)
	m.refresh(true)
	return m
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TranscriptChangedMsg:
		m.refresh(true)
		return m, listenTranscript(m.changes)

	case TurnDoneMsg:
		if m.notice == busyNotice && !m.ctrl.Busy() {
			m.notice = ""
		}
		m.refresh(false)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.Transcript().PendingCount() > 0 {
			m.refresh(false)
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	*m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send()
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	*m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send() (Model, tea.Cmd) {
	turn, err := m.ctrl.Send(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return m, nil
	case errors.Is(err, chat.ErrBusy):
		m.notice = busyNotice
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}

	m.notice = ""
	return m, waitTurn(turn)
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh(toBottom bool) {
	m.viewport.SetContent(m.renderTranscript())
	if toBottom {
		m.viewport.GotoBottom()
	}
}
