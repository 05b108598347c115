// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND TABS
	// ==========================================================================

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	TabBar      lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
	StatusLine  lipgloss.Style
	Placeholder lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserLabel      lipgloss.Style
	UserText       lipgloss.Style
	AssistantLabel lipgloss.Style
	AssistantText  lipgloss.Style
	PendingText    lipgloss.Style
	FailedText     lipgloss.Style
	Sources        lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// INPUTS
	// ==========================================================================

	InputBox        lipgloss.Style
	InputBoxFocused lipgloss.Style
	InputLabel      lipgloss.Style

	// ==========================================================================
	// UPLOAD OVERLAY AND ALERT
	// ==========================================================================

	Overlay        lipgloss.Style
	OverlayStatus  lipgloss.Style
	OverlayPercent lipgloss.Style
	AlertBox       lipgloss.Style
	AlertSuccess   lipgloss.Style
	AlertError     lipgloss.Style
	AlertHint      lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; auto asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Header and tabs
	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 2)

	t.TabBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusLine = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Transcript
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.UserText = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.AssistantText = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)

	t.PendingText = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.FailedText = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(1)

	t.Sources = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Inputs
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.InputBoxFocused = t.InputBox.
		BorderForeground(Cyan)

	t.InputLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	// Upload overlay and alert
	t.Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.OverlayStatus = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.OverlayPercent = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AlertBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.AlertSuccess = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.AlertError = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.AlertHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// ContentWidth is the usable width inside the app padding, never below 20.
func (t *Theme) ContentWidth() int {
	w := t.Width - 4
	if w < 20 {
		return 20
	}
	return w
}
