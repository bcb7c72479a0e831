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

	"github.com/walteh/sortrc/pkg/journal"
	"gitlab.com/tozd/go/errors"
)

// ⏪ Undo reverts every transfer recorded in j, newest first. The only
// error is failing to take the journal lock; per-record failures are counted.
func Undo(ctx context.Context, j *journal.Journal, onProgress journal.ProgressFunc) (journal.ReplayStats, error) {
	if j == nil {
		return journal.ReplayStats{}, errors.Errorf("%w: journal is required", ErrInvalidOptions)
	}

	unlock, err := j.Lock(ctx)
	if err != nil {
		return journal.ReplayStats{}, err
	}
	defer unlock()

	return j.Replay(ctx, onProgress), nil
}
