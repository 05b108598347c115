// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatview renders the chat surface in the TUI.
//
// The view owns the input field, the transcript viewport and the pending
// spinner. All conversation state lives in a chat.Controller; the view
// subscribes to its transcript and re-renders on every change, scrolling
// to the newest message.
package chatview
