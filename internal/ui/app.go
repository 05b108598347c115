// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/askdesk/internal/ui/chatview"
	"github.com/jeranaias/askdesk/internal/ui/styles"
	"github.com/jeranaias/askdesk/internal/ui/uploadview"
)

// Tab identifies a surface.
type Tab int

const (
	TabChat Tab = iota
	TabUpload
)

func (t Tab) String() string {
	switch t {
	case TabChat:
		return "Chat"
	case TabUpload:
		return "Upload"
	default:
		return "Unknown"
	}
}

// App is the root Bubble Tea model.
type App struct {
	theme  *styles.Theme
	keys   KeyMap
	server string

	chat   *chatview.Model
	upload *uploadview.Model

	tabs   []Tab
	active int

	width  int
	height int
}

// AppOption configures an App.
type AppOption func(*App)

// WithChat enables the chat tab.
func WithChat(m chatview.Model) AppOption {
	return func(a *App) {
		a.chat = &m
	}
}

// WithUpload enables the upload tab.
func WithUpload(m uploadview.Model) AppOption {
	return func(a *App) {
		a.upload = &m
	}
}

// WithServer sets the server address shown in the header.
func WithServer(url string) AppOption {
	return func(a *App) {
		a.server = url
	}
}

// NewApp creates the application. Tabs appear in the order chat, upload
// for whichever surfaces were given.
func NewApp(theme *styles.Theme, opts ...AppOption) *App {
	a := &App{
		theme: theme,
		keys:  DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.chat != nil {
		a.tabs = append(a.tabs, TabChat)
	}
	if a.upload != nil {
		a.tabs = append(a.tabs, TabUpload)
		if a.chat != nil {
			*a.upload = a.upload.Blur()
		}
	}
	return a
}

// Tabs returns the enabled tabs in display order.
func (a *App) Tabs() []Tab {
	return a.tabs
}

// ActiveTab returns the tab receiving keys.
func (a *App) ActiveTab() Tab {
	if len(a.tabs) == 0 {
		return TabChat
	}
	return a.tabs[a.active]
}

// Init starts both views.
func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.chat != nil {
		cmds = append(cmds, a.chat.Init())
	}
	if a.upload != nil {
		cmds = append(cmds, a.upload.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles a message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Async results and ticks go to both views; each ignores what is not
	// addressed to it.
	var cmds []tea.Cmd
	if a.chat != nil {
		m, cmd := a.chat.Update(msg)
		*a.chat = m
		cmds = append(cmds, cmd)
	}
	if a.upload != nil {
		m, cmd := a.upload.Update(msg)
		*a.upload = m
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.NextTab):
		return a, a.switchTab()
	}

	var cmd tea.Cmd
	switch a.ActiveTab() {
	case TabChat:
		if a.chat != nil {
			var m chatview.Model
			m, cmd = a.chat.Update(msg)
			*a.chat = m
		}
	case TabUpload:
		if a.upload != nil {
			var m uploadview.Model
			m, cmd = a.upload.Update(msg)
			*a.upload = m
		}
	}
	return a, cmd
}

func (a *App) switchTab() tea.Cmd {
	if len(a.tabs) < 2 {
		return nil
	}

	switch a.ActiveTab() {
	case TabChat:
		*a.chat = a.chat.Blur()
	case TabUpload:
		*a.upload = a.upload.Blur()
	}

	a.active = (a.active + 1) % len(a.tabs)

	var cmd tea.Cmd
	switch a.ActiveTab() {
	case TabChat:
		var m chatview.Model
		m, cmd = a.chat.Focus()
		*a.chat = m
	case TabUpload:
		var m uploadview.Model
		m, cmd = a.upload.Focus()
		*a.upload = m
	}
	return cmd
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.theme.SetSize(width, height)

	contentHeight := height - lipgloss.Height(a.renderHeader())
	if contentHeight < 1 {
		contentHeight = 1
	}
	if a.chat != nil {
		*a.chat = a.chat.SetSize(width, contentHeight)
	}
	if a.upload != nil {
		*a.upload = a.upload.SetSize(width, contentHeight)
	}
}

// View renders the header and the active tab.
func (a *App) View() string {
	var body string
	switch a.ActiveTab() {
	case TabChat:
		if a.chat != nil {
			body = a.chat.View()
		}
	case TabUpload:
		if a.upload != nil {
			body = a.upload.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body)
}

func (a *App) renderHeader() string {
	title := a.theme.Title.Render("askdesk")
	if a.server != "" {
		title += " " + a.theme.Subtitle.Render(a.server)
	}
	if len(a.tabs) < 2 {
		return title
	}

	tabs := make([]string, 0, len(a.tabs))
	for i, t := range a.tabs {
		if i == a.active {
			tabs = append(tabs, a.theme.TabActive.Render(t.String()))
		} else {
			tabs = append(tabs, a.theme.Tab.Render(t.String()))
		}
	}
	h := a.keys.NextTab.Help()
	hint := a.theme.HelpKey.Render(h.Key) + " " + a.theme.HelpDesc.Render(h.Desc)

	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "  " + hint
	if a.width > 0 {
		bar = a.theme.TabBar.Width(a.width).Render(bar)
	} else {
		bar = a.theme.TabBar.Render(bar)
	}
	return strings.Join([]string{title, bar}, "\n")
}
