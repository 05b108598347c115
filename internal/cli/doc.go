// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the askdesk command line.
//
// Without a command, askdesk opens the interactive client. The
// subcommands cover the same operations for scripts.
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
//
// # Commands Overview
//
//   - (none): interactive client with chat and upload tabs
//   - ask: single question, answer on stdout
//   - upload: single file upload with a progress display on stderr
//   - history: list, search or clear the local question log
//   - config: show, path, init, get and set
//   - version: build information
//
// Global flags --config, --url, --no-chat, --no-upload, --verbose and
// --json apply to every command.
//
// # Exit Codes
//
//   - 0: success
//   - 1: general error
//   - 2: usage error
//   - 3: configuration error
//   - 5: the server could not be reached or answered with an error
//   - 7: file not found
//   - 8: request timed out
package cli
