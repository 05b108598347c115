// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"errors"
	"net"
	"strconv"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeCanceled
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeInvalidRequest
)

// String returns a short name for logs.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeCanceled:
		return "canceled"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the service client.
type ClientError struct {
	Type    ErrorType
	Message string

	// StatusCode is the HTTP status for ErrTypeStatus errors.
	StatusCode int

	// ServerMessage is the "message" field of a failed response body, if any.
	ServerMessage string

	Cause error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg += " (HTTP " + strconv.Itoa(e.StatusCode) + ")"
	}
	if e.ServerMessage != "" {
		msg += ": " + e.ServerMessage
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type, so errors.Is(err, ErrTimeout) holds for
// any timeout regardless of its message.
func (e *ClientError) Is(target error) bool {
	var t *ClientError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type && t.Message == ""
}

// Sentinel errors for easy checking with errors.Is.
var (
	ErrConnection      = &ClientError{Type: ErrTypeConnection}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout}
	ErrCanceled        = &ClientError{Type: ErrTypeCanceled}
	ErrBadStatus       = &ClientError{Type: ErrTypeStatus}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse}
	ErrInvalidRequest  = &ClientError{Type: ErrTypeInvalidRequest}
)

// ServerMessage extracts the server-provided message from err, if any.
func ServerMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.ServerMessage
	}
	return ""
}

// transportError classifies an error returned by http.Client.Do.
func transportError(ctx context.Context, op string, err error) *ClientError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &ClientError{Type: ErrTypeTimeout, Message: op + " timed out", Cause: err}
		}
		return &ClientError{Type: ErrTypeCanceled, Message: op + " canceled", Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: op + " timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: op + " failed to reach the server", Cause: err}
}
