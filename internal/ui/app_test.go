// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/askdesk/internal/client"
	"github.com/jeranaias/askdesk/internal/ui/chatview"
	"github.com/jeranaias/askdesk/internal/ui/styles"
	"github.com/jeranaias/askdesk/internal/ui/uploadview"
)

func newTestApp(t *testing.T, chat, upload bool) *App {
	t.Helper()
	ctx := context.Background()
	theme := styles.NewTheme("dark")
	api := client.New(nil)

	var opts []AppOption
	if chat {
		opts = append(opts, WithChat(chatview.New(ctx, api, theme, chatview.Options{})))
	}
	if upload {
		opts = append(opts, WithUpload(uploadview.New(ctx, api, theme)))
	}
	opts = append(opts, WithServer("http://127.0.0.1:5000"))

	app := NewApp(theme, opts...)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func TestNewApp_TabsFollowEnabledSurfaces(t *testing.T) {
	tests := []struct {
		name   string
		chat   bool
		upload bool
		want   []Tab
	}{
		{"both", true, true, []Tab{TabChat, TabUpload}},
		{"chat only", true, false, []Tab{TabChat}},
		{"upload only", false, true, []Tab{TabUpload}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, tc.chat, tc.upload)
			got := app.Tabs()
			if len(got) != len(tc.want) {
				t.Fatalf("tabs = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("tab %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
			if app.ActiveTab() != tc.want[0] {
				t.Errorf("active = %v, want %v", app.ActiveTab(), tc.want[0])
			}
		})
	}
}

func TestApp_SwitchTab(t *testing.T) {
	app := newTestApp(t, true, true)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if app.ActiveTab() != TabUpload {
		t.Fatalf("active = %v, want Upload", app.ActiveTab())
	}
	if !strings.Contains(app.View(), "Upload a document") {
		t.Error("upload form should be shown")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if app.ActiveTab() != TabChat {
		t.Errorf("active = %v, want Chat", app.ActiveTab())
	}
}

func TestApp_SingleTabIgnoresSwitch(t *testing.T) {
	app := newTestApp(t, false, true)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if cmd != nil {
		t.Error("switching with one tab should do nothing")
	}
	if app.ActiveTab() != TabUpload {
		t.Errorf("active = %v", app.ActiveTab())
	}
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, true, true)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestApp_KeysGoToActiveTab(t *testing.T) {
	app := newTestApp(t, true, true)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	if app.chat.Input() != "hello" {
		t.Errorf("chat input = %q", app.chat.Input())
	}
}

func TestApp_HeaderShowsServerAndTabs(t *testing.T) {
	app := newTestApp(t, true, true)
	view := app.View()

	for _, want := range []string{"askdesk", "http://127.0.0.1:5000", "Chat", "Upload", "switch tab"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestTab_String(t *testing.T) {
	if TabChat.String() != "Chat" || TabUpload.String() != "Upload" || Tab(9).String() != "Unknown" {
		t.Error("unexpected tab names")
	}
}
