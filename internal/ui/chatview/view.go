// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/askdesk/internal/model"
	"github.com/jeranaias/askdesk/internal/util"
)

const emptyTranscript = "Ask a question about your documents."

// View renders the chat view.
func (m Model) View() string {
	box := m.theme.InputBox
	if m.focused {
		box = m.theme.InputBoxFocused
	}
	inputWidth := m.width - 2
	if inputWidth < 1 {
		inputWidth = 1
	}
	input := box.Width(inputWidth).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		input,
		m.renderStatus(),
	)
}

func (m Model) renderStatus() string {
	if m.notice != "" {
		return m.theme.StatusLine.Render(m.notice)
	}

	parts := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, m.renderBinding(b))
	}
	if n := m.ctrl.InFlight(); n > 0 {
		parts = append(parts, m.theme.PendingText.Render(fmt.Sprintf("%d waiting", n)))
	}
	return m.theme.StatusLine.Render(strings.Join(parts, "  "))
}

func (m Model) renderBinding(b key.Binding) string {
	h := b.Help()
	return m.theme.HelpKey.Render(h.Key) + " " + m.theme.HelpDesc.Render(h.Desc)
}

func (m Model) renderTranscript() string {
	msgs := m.ctrl.Transcript().Messages()
	if len(msgs) == 0 {
		return m.theme.Placeholder.Render(emptyTranscript)
	}

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg model.Message) string {
	width := m.width - 2
	if width < 10 {
		width = 10
	}

	var header string
	if msg.Role == model.RoleUser {
		header = m.theme.UserLabel.Render(msg.Role.DisplayName())
	} else {
		header = m.theme.AssistantLabel.Render(msg.Role.DisplayName())
	}
	stamp := msg.Timestamp.Format("15:04")
	if !msg.Pending() && msg.Role == model.RoleAssistant && msg.Latency() > 0 {
		stamp += " · " + formatLatency(msg.Latency())
	}
	header += " " + m.theme.Timestamp.Render(stamp)

	var body string
	switch {
	case msg.Role == model.RoleUser:
		body = m.theme.UserText.Width(width).Render(msg.Content)
	case msg.Pending():
		body = m.spinner.View() + " " + m.theme.PendingText.Render(msg.Content)
	case msg.Failed:
		body = m.theme.FailedText.Width(width).Render(msg.Content)
	case m.opts.RenderMarkdown:
		body = strings.TrimRight(m.md.render(msg.ID, msg.Content), "\n")
	default:
		body = m.theme.AssistantText.Width(width).Render(msg.Content)
	}

	out := header + "\n" + body
	if m.opts.ShowSources && len(msg.Sources) > 0 {
		line := "Sources: " + strings.Join(msg.Sources, ", ")
		out += "\n" + m.theme.Sources.Render(util.TruncateWidth(line, width))
	}
	return out
}

func formatLatency(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// =============================================================================
// MARKDOWN
// =============================================================================

// markdown renders settled answers once per width.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdown(dark bool) *markdown {
	style := "light"
	if dark {
		style = "dark"
	}
	md := &markdown{style: style, cache: make(map[string]string)}
	md.setWidth(76)
	return md
}

func (md *markdown) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == md.width && md.renderer != nil {
		return
	}
	md.width = width
	md.cache = make(map[string]string)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(md.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Plain text is still readable.
		md.renderer = nil
		return
	}
	md.renderer = r
}

func (md *markdown) render(id, content string) string {
	if out, ok := md.cache[id]; ok {
		return out
	}
	if md.renderer == nil {
		return content
	}
	out, err := md.renderer.Render(content)
	if err != nil {
		out = content
	}
	md.cache[id] = out
	return out
}
