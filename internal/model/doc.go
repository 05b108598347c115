// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat state shared by the controllers and the
// rendering adapters: messages and the append-only transcript.
//
// Nothing in this package touches the terminal or the network, so transcript
// transitions can be tested without a UI.
//
// # Key Types
//
//   - Message: one transcript entry (user text or assistant answer)
//   - Role: who sent the message (user, assistant)
//   - Transcript: ordered, append-only, goroutine-safe list of messages
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Add("hello", model.RoleUser, false)
//	ph := t.Add("Thinking...", model.RoleAssistant, true)
//	_ = t.Resolve(ph.ID, "hi", nil)
package model
