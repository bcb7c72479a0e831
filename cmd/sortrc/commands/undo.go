// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/journal"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/operation"
	"github.com/walteh/sortrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var ErrNotConfirmed = errors.Base("undo needs confirmation, pass --yes")

// UndoOptions holds the flags of the undo command
type UndoOptions struct {
	Yes  bool
	List bool

	// Confirm asks the user; defaults to an interactive prompt
	Confirm func(question string) (bool, error)
}

// NewUndoCmd creates the undo command
func NewUndoCmd(rootOpts *opts.RootOpts) *cobra.Command {
	undoOpts := &UndoOptions{}

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the last batch",
		Long: `Revert every transfer of the last batch, newest first, then clear the journal.
Files whose sorted copy no longer exists are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(cmd.Context(), rootOpts, undoOpts)
		},
	}

	cmd.Flags().BoolVarP(&undoOpts.Yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVarP(&undoOpts.List, "list", "l", false, "print the journal without undoing anything")

	return cmd
}

func runUndo(ctx context.Context, rootOpts *opts.RootOpts, undoOpts *UndoOptions) error {
	console := log.FromContext(ctx)
	j := journal.New(rootOpts.Config.JournalFile)

	if undoOpts.List {
		records, err := j.Records(ctx)
		if err != nil {
			return errors.Errorf("reading journal: %w", err)
		}
		if len(records) == 0 {
			console.Info("journal is empty")
			return nil
		}
		console.Println(log.JournalTable(records))
		return nil
	}

	n, err := j.Len()
	if err != nil {
		return errors.Errorf("reading journal: %w", err)
	}
	if n == 0 {
		console.Infof("nothing to undo in %s", j.Path())
		return nil
	}

	if !undoOpts.Yes {
		confirm := undoOpts.Confirm
		if confirm == nil {
			if !rootOpts.Interactive {
				return ErrNotConfirmed
			}
			confirm = promptConfirm
		}
		ok, err := confirm(fmt.Sprintf("Revert %d transfers recorded in %s?", n, j.Path()))
		if err != nil {
			return errors.Errorf("asking for confirmation: %w", err)
		}
		if !ok {
			console.Info("undo aborted")
			return nil
		}
	}

	var bar *progressbar.ProgressBar
	if rootOpts.Interactive {
		bar = progressbar.Default(-1, "Undoing")
	}
	formatter := status.NewDefaultFileFormatter()

	stats, err := operation.Undo(ctx, j, func(current, total int) {
		if bar == nil {
			// plain lines for pipes and logs
			console.Println(formatter.FormatProgress(current, total))
			return
		}
		if total > 0 && bar.GetMax() == -1 {
			bar.ChangeMax(total)
		}
		_ = bar.Set(current)
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	console.LogNewline()
	console.Println(log.UndoTable(stats))

	if stats.Failed > 0 {
		console.Errorf("%d transfers could not be reverted", stats.Failed)
	} else {
		console.Success("undo complete")
	}
	return nil
}

func promptConfirm(question string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultText(question).Show()
}
