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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/status"
)

// 📦 BatchInfo describes the batch being displayed
type BatchInfo struct {
	RunID       string
	Source      string
	Destination string
	Mode        string
	Action      string
	DryRun      bool
}

// 🎯 Logger prints per-file progress to a console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	current *BatchInfo
	bytes   uint64
	started time.Time
}

// 🏭 New creates a new logger. zlog receives a structured copy of every line.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartBatch prints the batch header and resets the counters
func (l *Logger) StartBatch(ctx context.Context, info BatchInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &info
	l.bytes = 0
	l.started = time.Now()

	verb := info.Action
	if info.DryRun {
		verb += " (dry run)"
	}

	fmt.Fprintf(l.console, "[sorting %s]\n",
		color.New(color.FgCyan).Sprint(info.Source))

	fmt.Fprintf(l.console, "%s %s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(info.Mode),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(verb),
		color.New(color.Faint).Sprint("→"),
		info.Destination)

	l.zlog.Info().
		Str("run_id", info.RunID).
		Str("source", info.Source).
		Str("destination", info.Destination).
		Str("mode", info.Mode).
		Str("action", info.Action).
		Bool("dry_run", info.DryRun).
		Msg("starting batch")
}

// 📝 FileProcessed prints one progress line. It matches the signature of
// operation.Options.OnProgress.
func (l *Logger) FileProcessed(p status.Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p.Outcome == status.Succeeded && p.Destination != "" {
		if info, err := os.Stat(p.Destination); err == nil {
			l.bytes += uint64(info.Size())
		}
	}

	fmt.Fprintln(l.console, status.FormatFileOperation(p))

	ev := l.zlog.Info()
	if p.Outcome == status.Failed {
		ev = l.zlog.Warn().Err(p.Err)
	}
	ev.
		Int("index", p.Index).
		Int("total", p.Total).
		Str("file", p.File).
		Str("destination", p.Destination).
		Str("outcome", p.Outcome.String()).
		Msg("file processed")
}

// 📝 EndBatch prints the summary table for the current batch
func (l *Logger) EndBatch(ctx context.Context, stats status.Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	elapsed := time.Since(l.started)
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, SummaryTable(stats, l.bytes, elapsed))

	l.zlog.Info().
		Str("run_id", l.current.RunID).
		Int("total", stats.Total).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Uint64("bytes", l.bytes).
		Dur("elapsed", elapsed).
		Msg("batch complete")

	l.current = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("sortrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Println writes raw text, used for tables
func (l *Logger) Println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, s)
}
