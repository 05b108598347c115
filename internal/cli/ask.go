// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/askdesk/internal/chat"
)

// askResult is the --json payload of the ask command.
type askResult struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	Failed    bool     `json:"failed"`
	LatencyMs int64    `json:"latency_ms"`
}

func newAskCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a single question and print the answer",
		Long: `Ask a single question and print the answer.

The question is taken from the arguments, or from stdin when none are
given and stdin is not a terminal. Answers are rendered as markdown when
stdout is a terminal.`,
		Example: `  askdesk ask "What is the notice period?"
  echo "Summarize the lease" | askdesk ask --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.requireSurface("chat", o.cfg.UI.ChatEnabled); err != nil {
				return err
			}
			question, err := readQuestion(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runAsk(cmd, o, question)
		},
	}
}

// readQuestion joins args, or reads stdin when there are none and stdin
// is piped.
func readQuestion(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok && f == os.Stdin && IsTTY() {
		return "", ErrMissingArgument("question", `askdesk ask "your question"`)
	}

	var b strings.Builder
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read question: %w", err)
	}
	return b.String(), nil
}

func runAsk(cmd *cobra.Command, o *rootOptions, question string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store := o.openHistory()
	if store != nil {
		defer store.Close()
	}

	ctrl := chat.New(o.apiClient(), o.chatOptions(store)...)
	turn, err := ctrl.Send(ctx, question)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyInput) {
			return ErrMissingArgument("question", `askdesk ask "your question"`)
		}
		return err
	}

	answer, askErr := turn.Wait(ctx)
	if askErr == nil && ctx.Err() != nil {
		askErr = ctx.Err()
	}

	if o.json {
		res := askResult{
			Question:  turn.Question,
			Answer:    answer.Content,
			Sources:   answer.Sources,
			Failed:    answer.Failed,
			LatencyMs: answer.Latency().Milliseconds(),
		}
		if res.Sources == nil {
			res.Sources = []string{}
		}
		if askErr != nil {
			if err := NewJSONErrorResponse("ask", askErr).WithData(res).Write(out); err != nil {
				return err
			}
			return reported(askErr)
		}
		return NewJSONResponse("ask", res).Write(out)
	}

	if askErr != nil {
		if answer.Content != "" {
			fmt.Fprintln(out, ErrorStyle.Render(answer.Content))
		}
		o.log.Debug("ask failed", "error", askErr)
		// The failure text is the answer; the cause goes to stderr.
		return askErr
	}

	if isTerminalWriter(out) && o.cfg.Chat.RenderMarkdown {
		fmt.Fprint(out, renderMarkdown(answer.Content, GetTerminalWidth()))
	} else {
		fmt.Fprintln(out, answer.Content)
	}
	if o.cfg.Chat.ShowSources && len(answer.Sources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, DimStyle.Render("Sources: "+strings.Join(answer.Sources, ", ")))
	}
	return nil
}
