// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload implements the upload controller: it validates the form,
// submits the file to the upload endpoint and plays the cosmetic progress
// simulation while the request is in flight.
//
// Each submission is an Attempt. The attempt emits an ordered stream of
// Events that a rendering adapter turns into an overlay, a progress bar and
// a final alert:
//
//	success: OverlayShown, Progress..., Completed, OverlayHidden, Alert, FormReset
//	failure: OverlayShown, Progress..., OverlayHidden, Alert
//
// Progress never reaches 100% on the failure path.
package upload
