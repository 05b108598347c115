// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploadview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the upload view. The overlay and alert replace the form
// while they are showing.
func (m Model) View() string {
	var body string
	switch {
	case m.alert != "":
		body = m.renderAlert()
	case m.overlay:
		body = m.renderOverlay()
	default:
		return m.renderForm()
	}
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderForm() string {
	width := m.width - 2
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Upload a document"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("The file is indexed by the server once uploaded."))
	b.WriteString("\n\n")

	for i := range m.inputs {
		box := m.theme.InputBox
		if m.focused && i == m.focus {
			box = m.theme.InputBoxFocused
		}
		b.WriteString(box.Width(width).Render(m.inputs[i].View()))
		b.WriteString("\n")
	}

	help := make([]string, 0, 2)
	for _, kb := range m.keys.ShortHelp() {
		h := kb.Help()
		help = append(help, m.theme.HelpKey.Render(h.Key)+" "+m.theme.HelpDesc.Render(h.Desc))
	}
	b.WriteString(m.theme.StatusLine.Render(strings.Join(help, "  ")))
	return b.String()
}

func (m Model) renderOverlay() string {
	status := m.theme.OverlayStatus.Render(m.snap.Status)
	if !m.snap.Complete {
		status = m.spinner.View() + " " + status
	}

	bar := m.bar.ViewAs(m.snap.Fraction())
	percent := m.theme.OverlayPercent.Render(m.snap.Percent)

	return m.theme.Overlay.Render(lipgloss.JoinVertical(lipgloss.Center,
		status,
		"",
		bar,
		percent,
	))
}

func (m Model) renderAlert() string {
	title := m.theme.AlertError.Render("Upload failed")
	if m.alertSuccess {
		title = m.theme.AlertSuccess.Render("Upload finished")
	}
	h := m.keys.Dismiss.Help()
	hint := m.theme.AlertHint.Render(h.Key + " to " + h.Desc)

	return m.theme.AlertBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.alert,
		"",
		hint,
	))
}
