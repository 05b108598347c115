// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the askdesk packages.
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation (CJK counts double)
//   - OneLine: collapse whitespace for single-line listings
//
// Paths:
//   - ExpandHome: resolve a leading ~ for paths typed into the TUI
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
