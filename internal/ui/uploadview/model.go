// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploadview

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/askdesk/internal/simulate"
	"github.com/jeranaias/askdesk/internal/ui/styles"
	"github.com/jeranaias/askdesk/internal/upload"
	"github.com/jeranaias/askdesk/internal/util"
)

const (
	fieldFile = iota
	fieldExtra
	fieldCount
)

// Model is the upload view.
type Model struct {
	ctx   context.Context
	ctrl  *upload.Controller
	theme *styles.Theme
	keys  KeyMap

	inputs  [fieldCount]textinput.Model
	focus   int
	focused bool

	bar     progress.Model
	spinner spinner.Model

	attempt *upload.Attempt
	overlay bool
	snap    simulate.Snapshot

	alert        string
	alertSuccess bool

	width  int
	height int
}

// New creates the upload view and the controller behind it. Files are sent
// through uploader; uploadOpts configure the controller.
func New(ctx context.Context, uploader upload.Uploader, theme *styles.Theme, uploadOpts ...upload.Option) Model {
	file := textinput.New()
	file.Prompt = "File:   "
	file.Placeholder = "path/to/document.pdf"
	file.CharLimit = 1024
	file.Focus()

	extra := textinput.New()
	extra.Prompt = "Fields: "
	extra.Placeholder = "key=value, key2=value2 (optional)"
	extra.CharLimit = 1024

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return Model{
		ctx:     ctx,
		ctrl:    upload.New(uploader, uploadOpts...),
		theme:   theme,
		keys:    DefaultKeyMap(),
		inputs:  [fieldCount]textinput.Model{file, extra},
		focused: true,
		bar: progress.New(
			progress.WithGradient(styles.ProgressStart, styles.ProgressEnd),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
		spinner: sp,
	}
}

// Controller returns the controller driving the view.
func (m Model) Controller() *upload.Controller {
	return m.ctrl
}

// Overlay reports whether the progress overlay is showing.
func (m Model) Overlay() bool {
	return m.overlay
}

// Alert returns the alert text and whether it reports success. The text is
// empty when no alert is showing.
func (m Model) Alert() (string, bool) {
	return m.alert, m.alertSuccess
}

// Snapshot returns the last simulation frame received.
func (m Model) Snapshot() simulate.Snapshot {
	return m.snap
}

// Busy reports whether an attempt is running.
func (m Model) Busy() bool {
	return m.attempt != nil
}

// Init starts the overlay spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Focus gives the form keyboard focus.
func (m Model) Focus() (Model, tea.Cmd) {
	m.focused = true
	return m, m.inputs[m.focus].Focus()
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focused = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m
}

// SetSize lays the view out in width x height cells.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height

	for i := range m.inputs {
		w := width - 4 - len(m.inputs[i].Prompt)
		if w < 10 {
			w = 10
		}
		m.inputs[i].Width = w
	}

	barWidth := width / 2
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 60 {
		barWidth = 60
	}
	m.bar.Width = barWidth
	return m
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m.handleEvent(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// The alert blocks until dismissed.
	if m.alert != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = ""
			m.alertSuccess = false
		}
		return m, nil
	}
	// So does the overlay, until the attempt settles.
	if m.overlay || m.attempt != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.PrevField):
		return m.moveFocus(-1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m, m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	fields, err := upload.ParseFieldList(m.inputs[fieldExtra].Value())
	if err != nil {
		m.showAlert(errorAlert(err.Error()), false)
		return m, nil
	}

	form := upload.Form{
		FilePath: util.ExpandHome(strings.TrimSpace(m.inputs[fieldFile].Value())),
		Fields:   fields,
	}

	a, err := m.ctrl.Submit(m.ctx, form)
	switch {
	case errors.Is(err, upload.ErrNoFile):
		m.showAlert(m.ctrl.NoFileText(), false)
		return m, nil
	case err != nil:
		m.showAlert(errorAlert(err.Error()), false)
		return m, nil
	}

	m.attempt = a
	return m, waitEvent(a)
}

func (m Model) handleEvent(msg EventMsg) (Model, tea.Cmd) {
	if m.attempt == nil || msg.AttemptID != m.attempt.ID {
		return m, nil
	}
	if msg.Closed {
		m.attempt = nil
		return m, nil
	}

	e := msg.Event
	switch e.Kind {
	case upload.EventOverlayShown:
		m.overlay = true
		m.snap = e.Snapshot
	case upload.EventProgress, upload.EventCompleted:
		m.snap = e.Snapshot
	case upload.EventOverlayHidden:
		m.overlay = false
	case upload.EventAlert:
		m.showAlert(e.Alert, e.Success)
	case upload.EventFormReset:
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
	}
	return m, waitEvent(m.attempt)
}

func (m *Model) showAlert(text string, success bool) {
	m.alert = text
	m.alertSuccess = success
}

// errorAlert formats a local failure the way attempt failures read.
func errorAlert(msg string) string {
	return "Error: " + msg
}
