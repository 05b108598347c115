// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the askdesk TUI.
//
// All colors use Lip Gloss AdaptiveColor so they follow the terminal's
// light or dark background. The ui.theme setting can pin either variant.
//
// # Color Palette
//
//   - Purple: primary accent, assistant messages, active tab
//   - Cyan: brand color, user messages, focus ring
//   - Emerald: success alerts, completed progress
//   - Rose: error alerts, failed answers
//   - Amber: warnings, pending placeholders
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	title := theme.Title.Render("askdesk")
//
// Status helpers always prefix an ASCII indicator so meaning does not rely
// on color alone:
//
//	styles.RenderSuccess("Indexed 3 files")   // [OK] Indexed 3 files
//	styles.RenderError("Bad file")            // [X] Bad file
package styles
