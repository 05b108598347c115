// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploadview renders the upload surface in the TUI: the form, the
// blocking progress overlay and the result alert.
//
// The view follows an upload.Attempt's event stream. While the overlay or
// an alert is up the form does not take input.
package uploadview
