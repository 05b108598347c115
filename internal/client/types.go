// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import "io"

// =============================================================================
// ASK
// =============================================================================

// AskRequest is the request body for the ask endpoint.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the success body of the ask endpoint.
type AskResponse struct {
	// Response is the answer text.
	Response *string `json:"response,omitempty"`

	// Answer is the field name used by some backends instead of response.
	Answer *string `json:"answer,omitempty"`

	// Sources lists the documents the answer was drawn from, when provided.
	Sources []string `json:"sources,omitempty"`
}

// Text returns the answer, preferring the response field.
func (r *AskResponse) Text() string {
	switch {
	case r.Response != nil:
		return *r.Response
	case r.Answer != nil:
		return *r.Answer
	default:
		return ""
	}
}

func (r *AskResponse) hasText() bool {
	return r.Response != nil || r.Answer != nil
}

// =============================================================================
// UPLOAD
// =============================================================================

// FileField is the multipart field name carrying the uploaded file.
const FileField = "file"

// UploadRequest describes one multipart submission.
type UploadRequest struct {
	// FileName is the name sent in the file part's Content-Disposition.
	FileName string

	// File is streamed into the request body; it is not buffered in memory.
	File io.Reader

	// Fields are the other form fields sent alongside the file.
	Fields map[string]string
}

// UploadResponse is the body of the upload endpoint.
type UploadResponse struct {
	Message string `json:"message"`
}

// errorBody is the optional JSON carried by failed responses.
type errorBody struct {
	Message string `json:"message"`
}
