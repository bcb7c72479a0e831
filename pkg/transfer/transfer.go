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

package transfer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/fileop"
	"github.com/walteh/sortrc/pkg/journal"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrTransfer      = errors.Base("transfer failed")
	ErrInvalidAction = errors.Base("invalid transfer action")
)

// 🚚 Action is what happens to the source file
type Action string

const (
	ActionMove Action = "move"
	ActionCopy Action = "copy"
)

// Actions lists every action
func Actions() []Action {
	return []Action{ActionMove, ActionCopy}
}

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

func (a Action) Validate() error {
	switch a {
	case ActionMove, ActionCopy:
		return nil
	}
	return errors.Errorf("%w: %q", ErrInvalidAction, string(a))
}

func (a Action) record() journal.Action {
	if a == ActionCopy {
		return journal.ActionCopy
	}
	return journal.ActionMove
}

// Recorder receives a record for every completed transfer
type Recorder interface {
	Append(ctx context.Context, rec journal.Record) error
}

// ⚙️ Executor performs single file transfers
type Executor struct {
	recorder Recorder
}

// 🏭 NewExecutor creates an executor. A nil recorder disables journaling.
func NewExecutor(recorder Recorder) *Executor {
	return &Executor{recorder: recorder}
}

// 📦 Transfer moves or copies src to dst. The destination directory is
// always created, even on a dry run, so the planned layout is visible.
func (e *Executor) Transfer(ctx context.Context, src, dst string, action Action, dryRun bool) error {
	logger := zerolog.Ctx(ctx).With().
		Str("action", string(action)).
		Str("from", src).
		Str("to", dst).
		Logger()

	if err := action.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		logger.Error().Err(err).Msg("creating destination directory")
		return errors.Errorf("%w: creating destination directory: %w", ErrTransfer, err)
	}

	if dryRun {
		logger.Info().Msgf("[DRY-RUN] would %s %s -> %s", action, src, dst)
		return nil
	}

	var err error
	switch action {
	case ActionMove:
		err = fileop.Move(src, dst)
	case ActionCopy:
		err = fileop.Copy(src, dst)
	}
	if err != nil {
		logger.Error().Err(err).Msg("transfer failed")
		return errors.Errorf("%w: %s %s: %w", ErrTransfer, action, src, err)
	}

	logger.Info().Msg("transferred")

	if e.recorder == nil {
		return nil
	}

	rec, err := newRecord(action, src, dst)
	if err != nil {
		logger.Error().Err(err).Msg("resolving journal paths")
		return nil
	}
	if err := e.recorder.Append(ctx, rec); err != nil {
		// the file is already in place; an unrecorded transfer is still a transfer
		logger.Error().Err(err).Msg("could not append to undo journal")
	}
	return nil
}

func newRecord(action Action, src, dst string) (journal.Record, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return journal.Record{}, errors.Errorf("absolute source: %w", err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return journal.Record{}, errors.Errorf("absolute destination: %w", err)
	}
	return journal.Record{Action: action.record(), Source: absSrc, Destination: absDst}, nil
}
