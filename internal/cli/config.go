// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/askdesk/internal/config"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, o)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, o)
		},
	}

	path := &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.configFilePath()
			if err != nil {
				return &ConfigError{Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("(file does not exist; defaults are in use)"))
			}
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the defaults",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.configFilePath()
			if err != nil {
				return &ConfigError{Err: err}
			}
			if _, err := os.Stat(p); err == nil && !force {
				return &ValidationError{
					Field:   "config",
					Value:   p,
					Reason:  "file already exists",
					Example: "askdesk config init --force",
				}
			}
			if _, err := o.saveFileConfig(config.Default()); err != nil {
				return &ConfigError{Path: p, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", SuccessStyle.Render("[OK]"), p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one setting",
		Example: "  askdesk config get server.url",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrMissingArgument("key", "askdesk config get server.url")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.cfg.Get(args[0])
			if err != nil {
				return NewValidationError("key", args[0], err.Error())
			}
			if o.json {
				return NewJSONResponse("config get", map[string]interface{}{"key": args[0], "value": v}).Write(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting in the config file",
		Example: `  askdesk config set server.url http://docs.internal:5000
  askdesk config set upload.status_phases "Reading|Indexing|Finishing"`,
		Annotations: map[string]string{skipConfig: "true"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return ErrMissingArgument("key and value", "askdesk config set chat.send_mode serialize")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, o, args[0], args[1])
		},
	}

	cmd.AddCommand(show, path, initCmd, get, set)
	return cmd
}

func runConfigShow(cmd *cobra.Command, o *rootOptions) error {
	out := cmd.OutOrStdout()
	if o.json {
		return NewJSONResponse("config show", o.cfg).Write(out)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o.cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	fmt.Fprintln(out, TitleStyle.Render("askdesk configuration"))
	fmt.Fprintln(out, RenderSeparator(41))
	fmt.Fprint(out, buf.String())
	fmt.Fprintln(out, RenderSeparator(41))
	if p, err := o.configFilePath(); err == nil {
		fmt.Fprintf(out, "%s%s\n", RenderLabel("Config file:"), p)
	}
	return nil
}

// runConfigSet edits the file as written. Environment and flag overrides
// are not applied, so they never leak into the saved file.
func runConfigSet(cmd *cobra.Command, o *rootOptions, key, value string) error {
	p, err := o.configFilePath()
	if err != nil {
		return &ConfigError{Err: err}
	}

	cfg := config.Default()
	if _, statErr := os.Stat(p); statErr == nil {
		if strings.HasSuffix(p, ".json") {
			err = config.LoadJSON(cfg, p)
		} else {
			err = config.LoadTOML(cfg, p)
		}
		if err != nil {
			return &ConfigError{Path: p, Err: err}
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return NewValidationError("key", key, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: p, Err: err}
	}
	if _, err := o.saveFileConfig(cfg); err != nil {
		return &ConfigError{Path: p, Err: err}
	}

	v, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, formatValue(v))
	return nil
}

// configFilePath is --config, or the existing default file (TOML before
// JSON), or the default TOML path.
func (o *rootOptions) configFilePath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := config.ConfigPathJSON()
	if err == nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath, nil
		}
	}
	return tomlPath, nil
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case []string:
		return strings.Join(x, "|")
	default:
		return fmt.Sprint(x)
	}
}
