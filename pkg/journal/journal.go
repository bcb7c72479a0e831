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

package journal

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/fileop"
	"gitlab.com/tozd/go/errors"
)

var ErrLocked = errors.Base("journal is locked by another run")

// 📒 Journal is the append-only undo log stored at a single path
type Journal struct {
	path string
}

// 🏭 New returns a journal backed by path. The file is created on first append.
func New(path string) *Journal {
	return &Journal{path: filepath.Clean(path)}
}

// Path returns the journal file location
func (j *Journal) Path() string {
	return j.path
}

// ➕ Append writes one record at the end of the journal
func (j *Journal) Append(ctx context.Context, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return errors.Errorf("creating journal directory: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(rec.String() + "\n"); err != nil {
		return errors.Errorf("writing journal record: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("record", rec.String()).Msg("journal record appended")
	return f.Close()
}

// readLines returns every line of the journal; a missing file is no lines
func (j *Journal) readLines() ([]string, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading journal: %w", err)
	}
	return lines, nil
}

// 📋 Records parses the whole journal in chronological order
func (j *Journal) Records(ctx context.Context) ([]Record, error) {
	lines, err := j.readLines()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(lines))
	for i, line := range lines {
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, errors.Errorf("line %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Len returns the number of lines in the journal, malformed ones included
func (j *Journal) Len() (int, error) {
	lines, err := j.readLines()
	return len(lines), err
}

// 🧹 Clear deletes the journal. Failure is logged, never returned.
func (j *Journal) Clear(ctx context.Context) {
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		zerolog.Ctx(ctx).Error().Err(err).Str("path", j.path).Msg("could not clear undo journal")
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", j.path).Msg("undo journal cleared")
}

// 🔒 Lock takes an exclusive advisory lock next to the journal so two runs
// cannot interleave records. The returned func releases it.
func (j *Journal) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return nil, errors.Errorf("creating journal directory: %w", err)
	}

	lock := flock.New(j.path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring journal lock: %w", err)
	}
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrLocked, lock.Path())
	}

	zerolog.Ctx(ctx).Debug().Str("lock", lock.Path()).Msg("journal lock acquired")

	return func() {
		if err := lock.Unlock(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("lock", lock.Path()).Msg("releasing journal lock")
		}
	}, nil
}

// 📊 ReplayStats summarizes an undo. Missing destinations are counted apart
// from failures.
type ReplayStats struct {
	Total     int
	Succeeded int
	Failed    int
	Missing   int
}

// ProgressFunc is called after every replayed line
type ProgressFunc func(current, total int)

// ⏪ Replay undoes every record, newest first, then clears the journal
// whatever the outcome.
func (j *Journal) Replay(ctx context.Context, onProgress ProgressFunc) ReplayStats {
	logger := zerolog.Ctx(ctx)

	if !fileop.Exists(j.path) {
		logger.Info().Msg("no undo journal found, nothing to revert")
		if onProgress != nil {
			onProgress(0, 0)
		}
		return ReplayStats{}
	}

	lines, err := j.readLines()
	if err != nil {
		// the journal exists but cannot be read; keep it for a later attempt
		logger.Error().Err(err).Str("path", j.path).Msg("could not read undo journal")
		return ReplayStats{}
	}

	stats := ReplayStats{Total: len(lines)}

	for i := range lines {
		line := lines[len(lines)-1-i]

		switch err := undoLine(ctx, line); {
		case err == nil:
			stats.Succeeded++
		case errors.Is(err, errMissingDestination):
			logger.Warn().Str("line", line).Msg("undo skipped, transferred file no longer exists")
			stats.Missing++
		default:
			logger.Error().Err(err).Str("line", line).Msg("undo failed")
			stats.Failed++
		}

		if onProgress != nil {
			onProgress(i+1, stats.Total)
		}
	}

	j.Clear(ctx)

	logger.Info().
		Int("total", stats.Total).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("missing", stats.Missing).
		Msg("undo finished")

	return stats
}

var errMissingDestination = errors.Base("recorded destination is missing")

func undoLine(ctx context.Context, line string) error {
	rec, err := ParseRecord(line)
	if err != nil {
		return err
	}

	if !fileop.Exists(rec.Destination) {
		return errors.Errorf("%w: %s", errMissingDestination, rec.Destination)
	}

	if err := os.MkdirAll(filepath.Dir(rec.Source), 0755); err != nil {
		return errors.Errorf("recreating source directory: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("from", rec.Destination).
		Str("to", rec.Source).
		Str("action", string(rec.Action)).
		Msg("undo")

	if err := fileop.Move(rec.Destination, rec.Source); err != nil {
		return errors.Errorf("moving file back: %w", err)
	}
	return nil
}
