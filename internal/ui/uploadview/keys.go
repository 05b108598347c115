// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploadview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings for the upload view.
type KeyMap struct {
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Dismiss   key.Binding
}

// DefaultKeyMap returns the default upload bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "upload"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("Enter/Esc", "dismiss"),
		),
	}
}

// ShortHelp returns the bindings shown under the form.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField}
}
