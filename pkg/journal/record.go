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
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const separator = "|"

var ErrMalformedRecord = errors.Base("malformed journal record")

// Action is the transfer a record undoes
type Action string

const (
	ActionMove Action = "MOVE"
	ActionCopy Action = "COPY"
)

// 📝 Record is one completed transfer
type Record struct {
	Action      Action
	Source      string // absolute path the file came from
	Destination string // absolute path the file was written to
}

// String renders the record as a journal line, without the newline
func (r Record) String() string {
	return string(r.Action) + separator + r.Source + separator + r.Destination
}

// 🔍 ParseRecord parses one journal line
func ParseRecord(line string) (Record, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), separator)
	if len(parts) != 3 {
		return Record{}, errors.Errorf("%w: expected 3 fields, got %d: %q", ErrMalformedRecord, len(parts), line)
	}

	rec := Record{
		Action:      Action(strings.ToUpper(strings.TrimSpace(parts[0]))),
		Source:      parts[1],
		Destination: parts[2],
	}

	switch rec.Action {
	case ActionMove, ActionCopy:
	default:
		return Record{}, errors.Errorf("%w: unknown action %q", ErrMalformedRecord, parts[0])
	}

	if !filepath.IsAbs(rec.Source) || !filepath.IsAbs(rec.Destination) {
		return Record{}, errors.Errorf("%w: paths must be absolute: %q", ErrMalformedRecord, line)
	}

	return rec, nil
}
