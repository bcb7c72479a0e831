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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile     string
	categoriesFile string
	journalFile    string
	logFile        string
	debugLogging   bool
	noColor        bool
)

// newRootOpts creates a new rootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(ctx, configFile, cwd)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if categoriesFile != "" {
		cfg.CategoriesFile = config.ExpandHome(categoriesFile)
	}
	if journalFile != "" {
		cfg.JournalFile = config.ExpandHome(journalFile)
	}

	return &opts.RootOpts{
		Config:      cfg,
		RunID:       uuid.NewString(),
		Interactive: isTerminal(os.Stdout) && isTerminal(os.Stdin),
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: .sortrc in the working directory)")
	cmd.PersistentFlags().StringVar(&categoriesFile, "categories-file", "", "category table path (json or yaml)")
	cmd.PersistentFlags().StringVar(&journalFile, "journal-file", "", "undo journal path")
	cmd.PersistentFlags().BoolVarP(&debugLogging, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write structured logs to this file")
	cmd.PersistentFlags().Lookup("log-file").NoOptDefVal = config.DefaultLogFile()
}

// setupLogging builds the context logger from flags. Warnings go to stderr
// (everything with --debug); --log-file receives every level at or above
// the chosen one as JSON.
func setupLogging(ctx context.Context) (context.Context, func(), error) {
	level := zerolog.InfoLevel
	if debugLogging {
		level = zerolog.DebugLevel
	}

	if noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	stderrLevel := zerolog.WarnLevel
	if debugLogging {
		stderrLevel = zerolog.DebugLevel
	}

	writers := []io.Writer{
		&levelFilter{
			min: stderrLevel,
			w: zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.Kitchen,
				NoColor:    color.NoColor,
			},
		},
	}

	closer := func() {}
	if logFile != "" {
		path := config.ExpandHome(logFile)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, errors.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, errors.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
		closer = func() { _ = f.Close() }
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	logger.Debug().Str("log_file", logFile).Str("level", level.String()).Msg("logger initialized")

	return logger.WithContext(ctx), closer, nil
}

// levelFilter drops events below min
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f *levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f *levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
