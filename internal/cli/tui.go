// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/askdesk/internal/ui"
	"github.com/jeranaias/askdesk/internal/ui/chatview"
	"github.com/jeranaias/askdesk/internal/ui/styles"
	"github.com/jeranaias/askdesk/internal/ui/uploadview"
)

// runTUI opens the interactive client.
func runTUI(ctx context.Context, o *rootOptions) error {
	if !IsTTY() || !IsStdoutTTY() {
		return &ValidationError{
			Field:   "terminal",
			Reason:  "the interactive client needs a terminal",
			Example: "askdesk ask \"your question\"",
		}
	}

	// Questions and uploads still in flight end with the program.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	api := o.apiClient()
	theme := styles.NewTheme(o.cfg.UI.Theme)

	store := o.openHistory()
	if store != nil {
		defer store.Close()
	}

	opts := []ui.AppOption{ui.WithServer(api.BaseURL())}
	if o.cfg.UI.ChatEnabled {
		opts = append(opts, ui.WithChat(chatview.New(ctx, api, theme,
			chatview.Options{
				RenderMarkdown: o.cfg.Chat.RenderMarkdown,
				ShowSources:    o.cfg.Chat.ShowSources,
			},
			o.chatOptions(store)...,
		)))
	}
	if o.cfg.UI.UploadEnabled {
		opts = append(opts, ui.WithUpload(uploadview.New(ctx, api, theme, o.uploadOptions()...)))
	}

	o.log.Info("starting tui",
		"server", api.BaseURL(),
		"chat", o.cfg.UI.ChatEnabled,
		"upload", o.cfg.UI.UploadEnabled)

	p := tea.NewProgram(ui.NewApp(theme, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
