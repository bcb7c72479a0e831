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

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 35 // Base width for filename
	counterWidth  = 11 // Width for [index/total]
	outcomeWidth  = 10 // Width for outcome text
	destSeparator = "→"
)

// 🎯 FormatFileOperation formats one progress event for display
func FormatFileOperation(p Progress) string {
	var prefix string
	switch p.Outcome {
	case Succeeded:
		prefix = color.GreenString("✓")
	case Failed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	counterPart := fmt.Sprintf("%-*s", counterWidth, fmt.Sprintf("[%d/%d]", p.Index, p.Total))
	namePart := fmt.Sprintf("%-*s", nameWidth, filepath.Base(p.File))
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, p.Outcome.String())

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		counterPart,
		namePart,
		outcomePart,
	)

	switch {
	case p.Err != nil:
		line += color.RedString(" %v", p.Err)
	case p.Destination != "":
		line += color.HiBlackString(" %s %s", destSeparator, p.Destination)
	}

	return strings.TrimRight(line, " ")
}
