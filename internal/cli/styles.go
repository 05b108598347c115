// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Styling for the one-shot commands.
//
// The commands reuse the TUI palette so an answer printed by `askdesk ask`
// looks like the same answer in the chat tab. Colors drop out entirely
// when stdout is not a terminal or NO_COLOR is set.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/askdesk/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle heads `config show` and `version`.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)

	// LabelStyle pads "key:" columns.
	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(16)

	// ValueStyle is for answers in history listings.
	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	// SuccessStyle and ErrorStyle color the final upload alert and a failed
	// answer.
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.SuccessHighContrast)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.ErrorHighContrast)

	// DimStyle is for sources, timestamps and hints.
	DimStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	separatorStyle = lipgloss.NewStyle().Foreground(styles.OverlayDim)
)

// RenderSeparator renders a horizontal rule, 60 columns unless given.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return separatorStyle.Render(strings.Repeat("-", w))
}

// RenderLabel renders a label padded to the label column.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}
