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
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/category"
	"github.com/walteh/sortrc/pkg/classify"
	"github.com/walteh/sortrc/pkg/conflict"
	"github.com/walteh/sortrc/pkg/journal"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/operation"
	"github.com/walteh/sortrc/pkg/status"
	"github.com/walteh/sortrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

var ErrBatchFailed = errors.Base("some files could not be sorted")

type runFlags struct {
	mode      string
	action    string
	conflict  string
	dryRun    bool
	recursive bool
	sniff     bool
	ignore    []string
}

// NewRunCmd creates the run command
func NewRunCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [SOURCE] [DEST]",
		Short: "Sort the files of SOURCE into DEST",
		Long: `Sort every file of SOURCE into folders under DEST.

SOURCE defaults to the configured source, then the working directory.
DEST defaults to the configured destination, then SOURCE/Organized_Files.

Modes:
  type          by category of the file extension (Images, Documents, ...)
  name          one folder per file name without extension
  date          YYYY/MM-Month of the modification time
  day           YYYY/MM/DD of the modification time
  size          Small (Under 1MB), Medium (1-100MB), Large (Over 100MB)
  first_letter  upper-cased first letter, "#" for anything else`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyRunFlags(cmd, rootOpts, &flags, args); err != nil {
				return err
			}
			return runBatch(cmd.Context(), rootOpts)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "classification mode: "+joinModes())
	cmd.Flags().StringVarP(&flags.action, "action", "a", "", "move or copy")
	cmd.Flags().StringVar(&flags.conflict, "conflict", "", "what to do when the target exists: skip, overwrite or rename")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "only log what would happen")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().BoolVar(&flags.sniff, "sniff", false, "detect the type of unmapped files from their content")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob of files to leave alone, relative to SOURCE (repeatable)")

	return cmd
}

func joinModes() string {
	names := make([]string, 0, len(classify.Modes()))
	for _, m := range classify.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// applyRunFlags layers arguments and explicitly set flags over the config
func applyRunFlags(cmd *cobra.Command, rootOpts *opts.RootOpts, flags *runFlags, args []string) error {
	cfg := rootOpts.Config

	if len(args) > 0 {
		cfg.Source = args[0]
	}
	if len(args) > 1 {
		cfg.Destination = args[1]
	}
	if cfg.Source == "" {
		cfg.Source = "."
	}

	if cmd.Flags().Changed("mode") {
		mode, err := classify.ParseMode(flags.mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("action") {
		action, err := transfer.ParseAction(flags.action)
		if err != nil {
			return err
		}
		cfg.Action = action
	}
	if cmd.Flags().Changed("conflict") {
		policy, err := conflict.ParsePolicy(flags.conflict)
		if err != nil {
			return err
		}
		cfg.Conflict = policy
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Recursive = flags.recursive
	}
	if cmd.Flags().Changed("sniff") {
		cfg.Sniff = flags.sniff
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = append(cfg.Ignore, flags.ignore...)
	}

	for _, p := range []*string{&cfg.Source, &cfg.Destination} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return errors.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}

	return cfg.Validate()
}

func runBatch(ctx context.Context, rootOpts *opts.RootOpts) error {
	cfg := rootOpts.Config
	console := log.FromContext(ctx)
	logger := zerolog.Ctx(ctx)

	table := category.Load(ctx, cfg.CategoriesFile)
	conflicts := table.Conflicts()
	for _, ext := range sortedKeys(conflicts) {
		names := conflicts[ext]
		logger.Warn().Str("extension", ext).Strs("categories", names).Msgf("extension claimed twice, %s wins", names[0])
	}

	org, err := operation.New(operation.Options{
		Source:       cfg.Source,
		Destination:  cfg.Destination,
		Mode:         cfg.Mode,
		Action:       cfg.Action,
		Policy:       cfg.Conflict,
		DryRun:       cfg.DryRun,
		Recursive:    cfg.Recursive,
		Sniff:        cfg.Sniff,
		Categories:   table,
		Ignore:       cfg.Ignore,
		Journal:      journal.New(cfg.JournalFile),
		FreshJournal: !cfg.DryRun,
		OnScan: func(total int) {
			logger.Debug().Int("files", total).Msg("scan complete")
		},
		OnProgress: console.FileProcessed,
	})
	if err != nil {
		return err
	}

	resolved := org.Options()
	console.StartBatch(ctx, log.BatchInfo{
		RunID:       rootOpts.RunID,
		Source:      resolved.Source,
		Destination: resolved.Destination,
		Mode:        string(resolved.Mode),
		Action:      string(resolved.Action),
		DryRun:      resolved.DryRun,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := operation.Start(ctx, org).Wait()
	console.EndBatch(ctx, stats)

	return batchResult(console, stats, err)
}

func batchResult(console *log.Logger, stats status.Stats, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		console.Warningf("cancelled with %d files not processed (%s)", stats.Remaining(), status.NewDefaultFileFormatter().FormatSummary(stats))
		return nil
	case err != nil:
		return err
	case stats.Failed > 0:
		return errors.Errorf("%w: %d of %d", ErrBatchFailed, stats.Failed, stats.Total)
	}
	return nil
}
