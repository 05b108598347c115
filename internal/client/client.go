// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the service client.
type Config struct {
	// BaseURL is the service root (default: http://127.0.0.1:5000).
	BaseURL string

	// AskPath is the question-answering endpoint (default: /ask).
	AskPath string

	// UploadPath is the document upload endpoint (default: /upload).
	UploadPath string

	// Timeout bounds a whole request including the upload body.
	// Zero disables the timeout.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://127.0.0.1:5000",
		AskPath:    "/ask",
		UploadPath: "/upload",
		Timeout:    5 * time.Minute,
		UserAgent:  "askdesk",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the ask and upload endpoints.
// It is safe for concurrent use; overlapping Ask calls are independent.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// New creates a client. Zero fields in config take their defaults.
func New(config *Config) *Client {
	return NewWithHTTPClient(config, nil)
}

// NewWithHTTPClient creates a client on top of an existing http.Client.
func NewWithHTTPClient(config *Config, hc *http.Client) *Client {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.AskPath == "" {
		cfg.AskPath = defaults.AskPath
	}
	if cfg.UploadPath == "" {
		cfg.UploadPath = defaults.UploadPath
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{config: &cfg, httpClient: hc}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", err
	}
	return u.JoinPath(path).String(), nil
}

// =============================================================================
// ASK
// =============================================================================

// Ask posts a question and returns the answer.
//
// A non-2xx status, an undecodable body, or a body without an answer field
// are all errors; the error body of a failed ask is not inspected.
func (c *Client) Ask(ctx context.Context, question string) (*AskResponse, error) {
	body, err := json.Marshal(AskRequest{Question: question})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err}
	}

	endpoint, err := c.endpoint(c.config.AskPath)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "invalid base URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, "ask", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &ClientError{
			Type:       ErrTypeStatus,
			Message:    "ask request failed",
			StatusCode: resp.StatusCode,
		}
	}

	var result AskResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode ask response", Cause: err}
	}
	if !result.hasText() {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "ask response has no response field"}
	}

	return &result, nil
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload streams a multipart form to the upload endpoint.
//
// Success requires a 2xx status and a JSON object body. On any other status the
// body's "message" field, when present, is returned as ServerMessage.
func (c *Client) Upload(ctx context.Context, r UploadRequest) (*UploadResponse, error) {
	if r.File == nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "no file to upload"}
	}

	endpoint, err := c.endpoint(c.config.UploadPath)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "invalid base URL", Cause: err}
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(mw, r))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, "upload", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportError(ctx, "upload", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return nil, &ClientError{
			Type:          ErrTypeStatus,
			Message:       "upload request failed",
			StatusCode:    resp.StatusCode,
			ServerMessage: eb.Message,
		}
	}

	// Only a JSON object counts; a literal null leaves result nil.
	var result *UploadResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode upload response", Cause: err}
	}
	if result == nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "upload response is not a JSON object"}
	}
	return result, nil
}

// writeForm writes the extra fields in key order, then the file part.
func writeForm(mw *multipart.Writer, r UploadRequest) error {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		if k == FileField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := mw.WriteField(k, r.Fields[k]); err != nil {
			return fmt.Errorf("write field %q: %w", k, err)
		}
	}

	name := filepath.Base(r.FileName)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	part, err := mw.CreateFormFile(FileField, name)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, r.File); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return mw.Close()
}
