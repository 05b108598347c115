// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/askdesk/internal/chat"
	"github.com/jeranaias/askdesk/internal/client"
	"github.com/jeranaias/askdesk/internal/config"
	"github.com/jeranaias/askdesk/internal/history"
	"github.com/jeranaias/askdesk/internal/logging"
	"github.com/jeranaias/askdesk/internal/simulate"
	"github.com/jeranaias/askdesk/internal/upload"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipConfig marks commands that must work without a valid config.
const skipConfig = "skip-config"

// rootOptions holds the global flags and what PersistentPreRunE derives
// from them.
type rootOptions struct {
	configPath string
	url        string
	noChat     bool
	noUpload   bool
	verbose    bool
	json       bool

	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error

	// tui is set when the root command runs, so logging goes to a file
	// instead of the terminal it is drawing on.
	tui bool
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root, o := newRootCmd()
	return execute(ctx, root, o, os.Args[1:])
}

func execute(ctx context.Context, root *cobra.Command, o *rootOptions, args []string) int {
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	defer o.close()

	if err != nil {
		name := root.Name()
		if cmd != nil {
			name = cmd.Name()
		}
		DisplayError(root.ErrOrStderr(), name, err, o.json)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// newRootCmd builds the command tree.
func newRootCmd() (*cobra.Command, *rootOptions) {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:   "askdesk",
		Short: "Terminal client for a document question-answering service",
		Long: `askdesk talks to a document question-answering server.

Run without a command to open the interactive client with a chat tab and
an upload tab. Use the subcommands to ask a single question, upload a
file, or inspect the local history from scripts.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			o.tui = !cmd.HasParent()
			return o.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), o)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ValidationError{Field: "flag", Reason: err.Error(), Example: cmd.UseLine()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default ~/.askdesk/config.toml)")
	pf.StringVar(&o.url, "url", "", "server base URL (overrides config)")
	pf.BoolVar(&o.noChat, "no-chat", false, "disable the chat surface")
	pf.BoolVar(&o.noUpload, "no-upload", false, "disable the upload surface")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "verbose logging to stderr")
	pf.BoolVar(&o.json, "json", false, "machine-readable JSON output")

	root.AddCommand(
		newAskCmd(o),
		newUploadCmd(o),
		newHistoryCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)
	return root, o
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads the config, applies the global flags and opens the logger.
func (o *rootOptions) setup() error {
	cfg, err := o.loadFileConfig()
	if err != nil {
		return err
	}

	if o.url != "" {
		cfg.Server.URL = strings.TrimSpace(o.url)
	}
	if o.noChat {
		cfg.UI.ChatEnabled = false
	}
	if o.noUpload {
		cfg.UI.UploadEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	o.cfg = cfg

	log, closer, err := logging.New(o.logOptions())
	if err != nil {
		return &ConfigError{Path: cfg.Log.File, Err: err}
	}
	o.log, o.closeLog = log, closer
	return nil
}

// loadFileConfig loads the config file named by --config, or the default
// location, without the flag overrides.
func (o *rootOptions) loadFileConfig() (*config.Config, error) {
	if o.configPath != "" {
		cfg, err := config.LoadFromPath(o.configPath)
		if err != nil {
			return nil, &ConfigError{Path: o.configPath, Err: err}
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// saveFileConfig writes cfg to the file configFilePath names.
func (o *rootOptions) saveFileConfig(cfg *config.Config) (string, error) {
	path, err := o.configFilePath()
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(path, ".json") {
		return path, config.SaveJSON(cfg, path)
	}
	return path, config.SaveTOML(cfg, path)
}

func (o *rootOptions) logOptions() logging.Options {
	opts := logging.Options{
		Level:  o.cfg.Log.Level,
		Format: o.cfg.Log.Format,
		Output: o.cfg.Log.File,
	}
	if o.verbose {
		opts.Level = "debug"
	}
	if opts.Output != "" {
		return opts
	}

	if o.tui {
		// The TUI owns the terminal.
		if path, err := o.cfg.LogPath(); err == nil {
			opts.Output = path
		} else {
			opts.Output = logging.OutputDiscard
		}
		return opts
	}

	opts.Output = logging.OutputStderr
	if !o.verbose {
		opts.Level = "warn"
	}
	return opts
}

func (o *rootOptions) close() {
	if o.closeLog != nil {
		_ = o.closeLog()
		o.closeLog = nil
	}
}

// =============================================================================
// WIRING
// =============================================================================

func (o *rootOptions) apiClient() *client.Client {
	return client.New(&client.Config{
		BaseURL:    o.cfg.Server.URL,
		AskPath:    o.cfg.Server.AskPath,
		UploadPath: o.cfg.Server.UploadPath,
		Timeout:    o.cfg.Server.Timeout(),
		UserAgent:  o.cfg.Server.UserAgent,
	})
}

// openHistory opens the history store, or returns nil when history is
// disabled. A store that fails to open is logged and skipped; history is
// never worth failing a question over.
func (o *rootOptions) openHistory() *history.Store {
	if !o.cfg.History.Enabled {
		return nil
	}
	path, err := o.cfg.HistoryPath()
	if err != nil {
		o.log.Warn("history disabled", "error", err)
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		o.log.Warn("history disabled", "path", path, "error", err)
		return nil
	}
	return store
}

func (o *rootOptions) chatOptions(store *history.Store) []chat.Option {
	opts := []chat.Option{
		chat.WithMode(chat.ParseMode(o.cfg.Chat.SendMode)),
		chat.WithThinkingText(o.cfg.Chat.ThinkingText),
		chat.WithErrorText(o.cfg.Chat.ErrorText),
		chat.WithLogger(o.log),
	}
	if store != nil {
		opts = append(opts, chat.WithRecorder(store))
	}
	return opts
}

func (o *rootOptions) uploadOptions() []upload.Option {
	u := o.cfg.Upload
	return []upload.Option{
		upload.WithScript(simulate.Script(u.StatusPhases)),
		upload.WithTiming(simulate.Timing{
			StatusInterval:   u.StatusInterval(),
			ProgressInterval: u.ProgressInterval(),
		}),
		upload.WithSuccessDelay(u.SuccessDelay()),
		upload.WithCompletionText(u.CompletionText),
		upload.WithNoFileText(u.NoFileText),
		upload.WithUnknownErrorText(u.UnknownErrorText),
		upload.WithLogger(o.log),
	}
}

// errSurfaceDisabled is returned by commands whose surface is turned off.
var errSurfaceDisabled = errors.New("surface is disabled")

func (o *rootOptions) requireSurface(name string, enabled bool) error {
	if enabled {
		return nil
	}
	return &ConfigError{Err: fmt.Errorf("%s %w (ui.%s_enabled = false)", name, errSurfaceDisabled, name)}
}
