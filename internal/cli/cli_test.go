// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/askdesk/internal/chat"
	"github.com/jeranaias/askdesk/internal/client"
	"github.com/jeranaias/askdesk/internal/config"
	"github.com/jeranaias/askdesk/internal/simulate"
)

// isolate points HOME at a temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"ASKDESK_URL", "ASKDESK_SEND_MODE", "ASKDESK_LOG_LEVEL", "ASKDESK_HISTORY"} {
		t.Setenv(k, "")
	}
	return home
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	root, o := newRootCmd()

	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetIn(strings.NewReader(stdin))

	code := execute(context.Background(), root, o, args)
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

// fastConfig writes a config file with short upload timings.
func fastConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fast.toml")
	content := `
[upload]
status_interval_ms = 10
progress_interval_ms = 5
success_delay_ms = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func askServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestAsk_PrintsAnswerAndSources(t *testing.T) {
	isolate(t)
	srv := askServer(t, http.StatusOK, `{"response":"Thirty days.","sources":["lease.pdf"]}`)

	res := run(t, "", "--url", srv.URL, "ask", "What", "is", "the", "notice", "period?")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Thirty days.")
	assert.Contains(t, res.stdout, "Sources: lease.pdf")
}

func TestAsk_RecordsHistory(t *testing.T) {
	isolate(t)
	srv := askServer(t, http.StatusOK, `{"response":"Yes."}`)

	require.Equal(t, ExitSuccess, run(t, "", "--url", srv.URL, "ask", "Is it signed?").code)

	res := run(t, "", "history", "--json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var resp struct {
		Success bool           `json:"success"`
		Data    []historyEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Is it signed?", resp.Data[0].Question)
	assert.Equal(t, "Yes.", resp.Data[0].Answer)
}

func TestAsk_ServerErrorPrintsFixedText(t *testing.T) {
	isolate(t)
	srv := askServer(t, http.StatusInternalServerError, `{"response":"boom"}`)

	res := run(t, "", "--url", srv.URL, "ask", "q")

	assert.Equal(t, ExitNetworkError, res.code)
	assert.Contains(t, res.stdout, chat.DefaultErrorText)
	assert.NotContains(t, res.stdout, "boom")
	assert.Contains(t, res.stderr, "[ERROR]")
}

func TestAsk_ReadsStdin(t *testing.T) {
	isolate(t)
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req client.AskRequest
		json.NewDecoder(r.Body).Decode(&req)
		got = req.Question
		w.Write([]byte(`{"response":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	res := run(t, "  from stdin  \n", "--url", srv.URL, "ask")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "from stdin", got)
}

func TestAsk_JSON(t *testing.T) {
	isolate(t)
	srv := askServer(t, http.StatusOK, `{"answer":"From answer field"}`)

	res := run(t, "", "--url", srv.URL, "--json", "ask", "q")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var resp struct {
		Success bool      `json:"success"`
		Command string    `json:"command"`
		Data    askResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ask", resp.Command)
	assert.Equal(t, "From answer field", resp.Data.Answer)
	assert.Equal(t, []string{}, resp.Data.Sources)
}

func TestAsk_JSONFailure(t *testing.T) {
	isolate(t)
	srv := askServer(t, http.StatusBadGateway, ``)

	res := run(t, "", "--url", srv.URL, "--json", "ask", "q")
	assert.Equal(t, ExitNetworkError, res.code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "HTTP 502")
	assert.Empty(t, res.stderr, "JSON failures are reported once, on stdout")
}

func TestAsk_EmptyQuestionIsUsageError(t *testing.T) {
	isolate(t)
	res := run(t, "", "ask", "   ")
	assert.Equal(t, ExitUsageError, res.code)
}

func TestAsk_ChatDisabled(t *testing.T) {
	isolate(t)
	res := run(t, "", "--no-chat", "ask", "q")
	assert.Equal(t, ExitConfigError, res.code)
	assert.Contains(t, res.stderr, "chat surface is disabled")
}

func TestBothSurfacesDisabled(t *testing.T) {
	isolate(t)
	res := run(t, "", "--no-chat", "--no-upload", "history")
	assert.Equal(t, ExitConfigError, res.code)
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

// uploadServer replies with status and body and records the form fields.
func uploadServer(t *testing.T, status int, body string) (*httptest.Server, map[string]string) {
	t.Helper()
	fields := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				fields[k] = v[0]
			}
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, fields
}

func TestUpload_Success(t *testing.T) {
	home := isolate(t)
	cfgPath := fastConfig(t, home)
	file := filepath.Join(home, "contract.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0600))

	srv, fields := uploadServer(t, http.StatusOK, `{"message":"Indexed 3 pages"}`)

	res := run(t, "", "--config", cfgPath, "--url", srv.URL, "upload", file, "--field", "category=civil")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Success: Indexed 3 pages")
	assert.Contains(t, res.stderr, config.DefaultStatusPhases[0])
	assert.Equal(t, "civil", fields["category"])
}

func TestUpload_FailureShowsServerMessage(t *testing.T) {
	home := isolate(t)
	cfgPath := fastConfig(t, home)
	file := filepath.Join(home, "bad.bin")
	require.NoError(t, os.WriteFile(file, []byte{0, 1}, 0600))

	srv, _ := uploadServer(t, http.StatusBadRequest, `{"message":"Bad file"}`)

	res := run(t, "", "--config", cfgPath, "--url", srv.URL, "upload", file)

	assert.Equal(t, ExitNetworkError, res.code)
	assert.Contains(t, res.stdout, "Error: Bad file")
	assert.NotContains(t, res.stderr, "[ERROR]", "the alert already reported the failure")
}

func TestUpload_JSON(t *testing.T) {
	home := isolate(t)
	cfgPath := fastConfig(t, home)
	file := filepath.Join(home, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	srv, _ := uploadServer(t, http.StatusOK, `{"message":"ok"}`)

	res := run(t, "", "--config", cfgPath, "--url", srv.URL, "--json", "upload", file)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var resp struct {
		Data uploadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, uploadResult{File: "a.txt", Success: true, Message: "ok", Alert: "Success: ok"}, resp.Data)
	assert.Empty(t, res.stderr, "no progress display in JSON mode")
}

func TestUpload_UsageAndFileErrors(t *testing.T) {
	home := isolate(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no file", []string{"upload"}, ExitUsageError},
		{"missing file", []string{"upload", filepath.Join(home, "nope.pdf")}, ExitNotFoundError},
		{"bad field", []string{"upload", "x.pdf", "--field", "novalue"}, ExitUsageError},
		{"unknown flag", []string{"upload", "x.pdf", "--bogus"}, ExitUsageError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, "", tc.args...)
			assert.Equal(t, tc.code, res.code, res.stderr)
		})
	}
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistory_EmptyAndClear(t *testing.T) {
	isolate(t)

	res := run(t, "", "history")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No history yet.")

	res = run(t, "", "history", "clear")
	assert.Equal(t, ExitUsageError, res.code)

	res = run(t, "", "history", "clear", "--yes")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Deleted 0 entries.")
}

func TestHistory_Disabled(t *testing.T) {
	isolate(t)
	t.Setenv("ASKDESK_HISTORY", "false")

	res := run(t, "", "history")
	assert.Equal(t, ExitConfigError, res.code)
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestConfig_InitGetSet(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".askdesk", "config.toml")

	res := run(t, "", "config", "init")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.FileExists(t, path)

	res = run(t, "", "config", "init")
	assert.Equal(t, ExitUsageError, res.code, "init must not overwrite without --force")

	res = run(t, "", "config", "set", "chat.send_mode", "serialize")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	res = run(t, "", "config", "get", "chat.send_mode")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "serialize\n", res.stdout)

	res = run(t, "", "config", "set", "chat.send_mode", "parallel")
	assert.Equal(t, ExitConfigError, res.code)

	res = run(t, "", "config", "set", "server.port", "1")
	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "server.port")

	res = run(t, "", "config", "get", "server.port")
	assert.Equal(t, ExitUsageError, res.code)
}

func TestConfig_SetDoesNotPersistEnv(t *testing.T) {
	home := isolate(t)
	t.Setenv("ASKDESK_URL", "http://from-env:1")

	res := run(t, "", "config", "set", "history.list_limit", "5")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data, err := os.ReadFile(filepath.Join(home, ".askdesk", "config.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
}

func TestConfig_ShowAndPath(t *testing.T) {
	home := isolate(t)

	res := run(t, "", "--url", "http://shown:9", "config", "show")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "http://shown:9")

	res = run(t, "", "config", "path")
	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, filepath.Join(home, ".askdesk", "config.toml")+"\n", res.stdout)
}

func TestConfig_InvalidFileIsConfigError(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\n"), 0600))

	res := run(t, "", "--config", path, "history")
	assert.Equal(t, ExitConfigError, res.code)
}

// =============================================================================
// MISC
// =============================================================================

func TestVersion(t *testing.T) {
	res := run(t, "", "version")
	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "askdesk "+Version)
}

func TestRoot_NeedsTerminal(t *testing.T) {
	isolate(t)
	if IsTTY() && IsStdoutTTY() {
		t.Skip("running in a terminal")
	}
	res := run(t, "")
	assert.Equal(t, ExitUsageError, res.code)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("plain"), ExitGeneralError},
		{&ValidationError{Field: "x"}, ExitUsageError},
		{NewValidationError("key", "server.port", "unknown field"), ExitUsageError},
		{&ConfigError{Err: errors.New("x")}, ExitConfigError},
		{config.ValidateErrors{{Field: "a", Message: "b"}}, ExitConfigError},
		{&client.ClientError{Type: client.ErrTypeConnection}, ExitNetworkError},
		{fmt.Errorf("wrapped: %w", &client.ClientError{Type: client.ErrTypeStatus}), ExitNetworkError},
		{&client.ClientError{Type: client.ErrTypeTimeout}, ExitTimeoutError},
		{reported(&client.ClientError{Type: client.ErrTypeStatus}), ExitNetworkError},
		{fmt.Errorf("open: %w", os.ErrNotExist), ExitNotFoundError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, GetExitCode(tc.err), "%v", tc.err)
	}
}

func TestDisplayError_SkipsReported(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "ask", reported(errors.New("shown already")), false)
	assert.Empty(t, buf.String())

	DisplayError(&buf, "ask", errors.New("boom"), false)
	assert.Contains(t, buf.String(), "[ERROR] boom")
}

func TestLineReporter_OnePerStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Start(simulate.Snapshot{Percent: "0%", Status: "Reading"})
	r.Update(simulate.Snapshot{Percent: "3%", Status: "Reading"})
	r.Update(simulate.Snapshot{Percent: "9%", Status: "Indexing"})
	r.Finish(true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"[  0%] Reading", "[  9%] Indexing"}, lines)
}
