// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jeranaias/askdesk/internal/upload"
)

// uploadResult is the --json payload of the upload command.
type uploadResult struct {
	File    string `json:"file"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Alert   string `json:"alert"`
}

func newUploadCmd(o *rootOptions) *cobra.Command {
	var fieldArgs []string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for indexing",
		Long: `Upload a document for indexing.

While the request runs a progress display cycles through the processing
phases. The display is an estimate; only the server's reply decides the
outcome.`,
		Example: `  askdesk upload contract.pdf
  askdesk upload scan.pdf --field category=civil --field year=2024`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrMissingArgument("file", "askdesk upload <file>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.requireSurface("upload", o.cfg.UI.UploadEnabled); err != nil {
				return err
			}
			fields, err := upload.ParseFields(fieldArgs)
			if err != nil {
				return &ValidationError{Field: "field", Reason: err.Error(), Example: "--field category=civil"}
			}
			return runUpload(cmd, o, upload.Form{FilePath: args[0], Fields: fields})
		},
	}

	cmd.Flags().StringArrayVarP(&fieldArgs, "field", "f", nil, "extra form field as key=value (repeatable)")
	return cmd
}

func runUpload(cmd *cobra.Command, o *rootOptions, form upload.Form) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ctrl := upload.New(o.apiClient(), o.uploadOptions()...)
	a, err := ctrl.Submit(ctx, form)
	if errors.Is(err, upload.ErrNoFile) {
		return ErrMissingArgument("file", "askdesk upload <file>")
	}
	if err != nil {
		return err
	}

	var rep Reporter
	if !o.json {
		rep = NewReporter(cmd.ErrOrStderr())
	}

	for e := range a.Events() {
		if rep == nil {
			continue
		}
		switch e.Kind {
		case upload.EventOverlayShown:
			rep.Start(e.Snapshot)
		case upload.EventProgress, upload.EventCompleted:
			rep.Update(e.Snapshot)
		case upload.EventOverlayHidden:
			rep.Finish(a.Snapshot().Complete)
		}
	}

	outcome := a.Wait()

	if o.json {
		res := uploadResult{
			File:    filepath.Base(form.FilePath),
			Success: outcome.Success,
			Message: outcome.Message,
			Alert:   outcome.Alert,
		}
		if !outcome.Success {
			if err := NewJSONErrorResponse("upload", outcome.Err).WithData(res).Write(out); err != nil {
				return err
			}
			return reported(outcome.Err)
		}
		return NewJSONResponse("upload", res).Write(out)
	}

	if outcome.Success {
		fmt.Fprintln(out, SuccessStyle.Render(outcome.Alert))
		return nil
	}
	fmt.Fprintln(out, ErrorStyle.Render(outcome.Alert))
	return reported(outcome.Err)
}
