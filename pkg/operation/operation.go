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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/category"
	"github.com/walteh/sortrc/pkg/classify"
	"github.com/walteh/sortrc/pkg/conflict"
	"github.com/walteh/sortrc/pkg/journal"
	"github.com/walteh/sortrc/pkg/scan"
	"github.com/walteh/sortrc/pkg/status"
	"github.com/walteh/sortrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// DefaultDestinationName is the folder created inside the source when no
// destination is given
const DefaultDestinationName = "Organized_Files"

var ErrInvalidOptions = errors.Base("invalid options")

// 🔧 Options is the immutable configuration of one batch
type Options struct {
	// Source is the directory to organize
	Source string
	// Destination root; empty means <Source>/Organized_Files
	Destination string

	Mode   classify.Mode
	Action transfer.Action
	Policy conflict.Policy

	DryRun    bool
	Recursive bool
	// Sniff falls back to magic bytes for unmapped extensions in type mode
	Sniff bool

	// Categories drives type mode; nil means category.Default()
	Categories category.Table
	// Ignore holds doublestar patterns relative to Source
	Ignore []string
	// Location for date folders; nil means time.Local
	Location *time.Location

	// Journal records completed transfers. Required unless DryRun.
	Journal *journal.Journal
	// FreshJournal clears the journal once the lock is held, so the
	// journal only ever describes the latest batch
	FreshJournal bool

	// OnScan is called once with the number of files found
	OnScan func(total int)
	// OnProgress is called after every file
	OnProgress func(p status.Progress)
}

// 🎮 Organizer runs batches for one set of options
type Organizer struct {
	opts     Options
	executor *transfer.Executor
}

// 🏭 New validates opts and returns an organizer. Nothing on disk is changed.
func New(opts Options) (*Organizer, error) {
	if opts.Source == "" {
		return nil, errors.Errorf("%w: source is required", ErrInvalidOptions)
	}
	if info, err := os.Stat(opts.Source); err != nil {
		return nil, errors.Errorf("%w: reading source: %w", ErrInvalidOptions, err)
	} else if !info.IsDir() {
		return nil, errors.Errorf("%w: %w: %s", ErrInvalidOptions, scan.ErrNotDirectory, opts.Source)
	}
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Action.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if opts.Journal == nil && !opts.DryRun {
		return nil, errors.Errorf("%w: journal is required unless dry run", ErrInvalidOptions)
	}

	if opts.Destination == "" {
		opts.Destination = filepath.Join(opts.Source, DefaultDestinationName)
	}
	if opts.Categories == nil {
		opts.Categories = category.Default()
	}

	var recorder transfer.Recorder
	if opts.Journal != nil {
		recorder = opts.Journal
	}

	return &Organizer{
		opts:     opts,
		executor: transfer.NewExecutor(recorder),
	}, nil
}

// Options returns the options with defaults applied
func (o *Organizer) Options() Options {
	return o.opts
}

// 🏃 Run organizes every file under the source. Per-file failures are
// counted, never returned. A cancelled context stops the batch between
// files; the partial stats come back together with ctx.Err().
func (o *Organizer) Run(ctx context.Context) (status.Stats, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("source", o.opts.Source).
		Str("destination", o.opts.Destination).
		Str("mode", string(o.opts.Mode)).
		Bool("dry_run", o.opts.DryRun).
		Logger()
	ctx = logger.WithContext(ctx)

	var stats status.Stats

	info, err := os.Stat(o.opts.Source)
	if err != nil {
		return stats, errors.Errorf("reading source: %w", err)
	}
	if !info.IsDir() {
		return stats, errors.Errorf("%w: %s", scan.ErrNotDirectory, o.opts.Source)
	}

	if !o.opts.DryRun {
		unlock, err := o.opts.Journal.Lock(ctx)
		if err != nil {
			return stats, err
		}
		defer unlock()

		if o.opts.FreshJournal {
			o.opts.Journal.Clear(ctx)
		}
	}

	files, err := scan.ListFiles(ctx, o.opts.Source, scan.Options{
		Recursive: o.opts.Recursive,
		Exclude:   []string{o.opts.Destination},
		Ignore:    o.opts.Ignore,
	})
	if err != nil {
		return stats, errors.Errorf("listing files: %w", err)
	}

	stats.Total = len(files)
	if o.opts.OnScan != nil {
		o.opts.OnScan(stats.Total)
	}
	logger.Info().Int("total", stats.Total).Msg("starting batch")

	cctx := classify.Context{
		Sniff:    o.opts.Sniff,
		Location: o.opts.Location,
	}
	if o.opts.Mode == classify.ModeType {
		cctx.Index = category.BuildIndex(o.opts.Categories)
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			logger.Info().Int("processed", stats.Processed).Msg("cancellation requested, stopping")
			return stats, err
		}

		p := o.processFile(ctx, file, cctx)
		p.Index = i + 1
		p.Total = stats.Total

		stats.Record(p.Outcome)
		if o.opts.OnProgress != nil {
			o.opts.OnProgress(p)
		}
	}

	logger.Info().
		Int("total", stats.Total).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msg("batch finished")

	return stats, nil
}

// 📄 processFile classifies, resolves and transfers a single file
func (o *Organizer) processFile(ctx context.Context, file string, cctx classify.Context) status.Progress {
	logger := zerolog.Ctx(ctx)
	p := status.Progress{File: file}

	dst, err := classify.Destination(o.opts.Mode, file, o.opts.Destination, cctx)
	if err != nil {
		logger.Error().Err(err).Str("file", file).Msg("classifying file")
		p.Outcome, p.Err = status.Failed, err
		return p
	}

	resolve := conflict.Resolve
	if o.opts.DryRun {
		resolve = conflict.Plan
	}

	final, ok, err := resolve(ctx, dst, o.opts.Policy)
	if err != nil {
		p.Outcome, p.Err = status.Failed, err
		return p
	}
	if !ok {
		logger.Info().Str("file", file).Str("destination", dst).Msg("skipped, destination exists")
		p.Outcome = status.Skipped
		return p
	}

	if err := o.executor.Transfer(ctx, file, final, o.opts.Action, o.opts.DryRun); err != nil {
		p.Outcome, p.Err = status.Failed, err
		return p
	}

	p.Outcome, p.Destination = status.Succeeded, final
	return p
}
