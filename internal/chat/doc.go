// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat controller: it appends the user's
// question and an assistant placeholder to a transcript, calls the ask
// endpoint in the background and resolves the placeholder exactly once.
//
// # Usage
//
//	ctrl := chat.New(apiClient, chat.WithLogger(log))
//	turn, err := ctrl.Send(ctx, input)
//	if errors.Is(err, chat.ErrEmptyInput) {
//	    return // nothing to do
//	}
//	<-turn.Done()
//
// Transport and server failures never surface as errors from Send. They
// replace the placeholder with a fixed apology and are logged.
package chat
