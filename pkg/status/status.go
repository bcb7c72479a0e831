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

package status

// 📊 Outcome is what happened to a single file
type Outcome int

const (
	Pending   Outcome = iota
	Succeeded         // transferred, or planned on a dry run
	Failed            // classification or transfer error
	Skipped           // conflict resolved to skip
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "pending"
	}
}

// 📈 Stats counts outcomes over a batch
type Stats struct {
	Total     int // files found by the scan
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// Record counts one finished file. Pending is ignored.
func (s *Stats) Record(o Outcome) {
	switch o {
	case Succeeded:
		s.Succeeded++
	case Failed:
		s.Failed++
	case Skipped:
		s.Skipped++
	default:
		return
	}
	s.Processed++
}

// Remaining is the number of files not yet processed
func (s Stats) Remaining() int {
	if s.Processed >= s.Total {
		return 0
	}
	return s.Total - s.Processed
}

// 📄 Progress is reported once for every file
type Progress struct {
	Index       int    // 1-based position in the batch
	Total       int    // batch size
	File        string // source path
	Destination string // final path, empty when skipped or failed before resolution
	Outcome     Outcome
	Err         error
}
