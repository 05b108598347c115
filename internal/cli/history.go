// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/askdesk/internal/history"
	"github.com/jeranaias/askdesk/internal/util"
)

// historyEntry is the --json form of a history entry.
type historyEntry struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Failed    bool      `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

func newHistoryCmd(o *rootOptions) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past questions and answers",
		Example: `  askdesk history --limit 5
  askdesk history --search "notice period"
  askdesk history clear --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if limit <= 0 {
				limit = o.cfg.History.ListLimit
			}

			var entries []history.Entry
			if search != "" {
				entries, err = store.Search(cmd.Context(), search, limit)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			return printHistory(cmd, o, entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries (default history.list_limit)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries whose question or answer contains this text")
	cmd.AddCommand(newHistoryClearCmd(o))
	return cmd
}

func newHistoryClearCmd(o *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return &ValidationError{
					Field:   "confirmation",
					Reason:  "clearing history cannot be undone",
					Example: "askdesk history clear --yes",
				}
			}
			store, err := o.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if o.json {
				return NewJSONResponse("history clear", map[string]int64{"deleted": n}).Write(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

// requireHistory opens the store or explains why it is unavailable.
func (o *rootOptions) requireHistory() (*history.Store, error) {
	if !o.cfg.History.Enabled {
		return nil, &ConfigError{Err: fmt.Errorf("history is disabled (history.enabled = false)")}
	}
	path, err := o.cfg.HistoryPath()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func printHistory(cmd *cobra.Command, o *rootOptions, entries []history.Entry) error {
	out := cmd.OutOrStdout()

	if o.json {
		data := make([]historyEntry, 0, len(entries))
		for _, e := range entries {
			data = append(data, historyEntry(e))
		}
		return NewJSONResponse("history", data).Write(out)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No history yet."))
		return nil
	}

	width := GetTerminalWidth() - 20
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(out, RenderSeparator(40))
		}
		stamp := e.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Fprintf(out, "%s %s\n", DimStyle.Render(stamp), TitleStyle.Render(util.TruncateWidth(util.OneLine(e.Question), width)))

		answer := util.TruncateWidth(util.OneLine(e.Answer), width)
		if e.Failed {
			fmt.Fprintf(out, "  %s\n", ErrorStyle.Render(answer))
		} else {
			fmt.Fprintf(out, "  %s\n", ValueStyle.Render(answer))
		}
	}
	return nil
}
