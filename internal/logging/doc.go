// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the log/slog logger shared by the controllers.
//
// The TUI owns the terminal, so its logger writes to a file under the config
// directory. One-shot commands log to stderr.
package logging
