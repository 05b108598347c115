// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui hosts the askdesk terminal application.
//
// The App model shows a header and one tab per enabled surface:
//   - Chat: see package chatview
//   - Upload: see package uploadview
//
// Usage:
//
//	theme := styles.NewTheme("auto")
//	app := ui.NewApp(theme,
//		ui.WithChat(chatview.New(ctx, api, theme, chatview.Options{})),
//		ui.WithUpload(uploadview.New(ctx, api, theme)),
//	)
//	p := tea.NewProgram(app, tea.WithAltScreen())
//	_, err := p.Run()
//
// Subpackages:
//   - styles: colors, theme and layout helpers
//   - chatview: transcript, input and pending spinner
//   - uploadview: upload form, progress overlay and alert
package ui
