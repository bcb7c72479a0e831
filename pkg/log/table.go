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
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/walteh/sortrc/pkg/journal"
	"github.com/walteh/sortrc/pkg/status"
)

type ColumnAlignment int

const (
	AlignLeft ColumnAlignment = iota
	AlignRight
)

// RenderTable draws a rounded table; missing cells are left blank
func RenderTable(headers []string, rows [][]string, aligns []ColumnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// 📊 SummaryTable renders batch stats, the bytes transferred and the run time
func SummaryTable(stats status.Stats, bytes uint64, elapsed time.Duration) string {
	rows := [][]string{
		{"Total", strconv.Itoa(stats.Total)},
		{"Succeeded", strconv.Itoa(stats.Succeeded)},
		{"Failed", strconv.Itoa(stats.Failed)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
	}
	if remaining := stats.Remaining(); remaining > 0 {
		rows = append(rows, []string{"Not processed", strconv.Itoa(remaining)})
	}
	rows = append(rows,
		[]string{"Transferred", humanize.Bytes(bytes)},
		[]string{"Elapsed", elapsed.Round(time.Millisecond).String()},
	)
	return RenderTable([]string{"Result", "Count"}, rows, []ColumnAlignment{AlignLeft, AlignRight})
}

// 📊 UndoTable renders the outcome of a journal replay
func UndoTable(stats journal.ReplayStats) string {
	return RenderTable(
		[]string{"Result", "Count"},
		[][]string{
			{"Total", strconv.Itoa(stats.Total)},
			{"Restored", strconv.Itoa(stats.Succeeded)},
			{"Failed", strconv.Itoa(stats.Failed)},
			{"Missing", strconv.Itoa(stats.Missing)},
		},
		[]ColumnAlignment{AlignLeft, AlignRight},
	)
}

// 📋 JournalTable lists journal records newest first, the order undo uses
func JournalTable(records []journal.Record) string {
	rows := make([][]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		rows = append(rows, []string{strconv.Itoa(i + 1), string(r.Action), r.Source, r.Destination})
	}
	return RenderTable([]string{"#", "Action", "Source", "Destination"}, rows, []ColumnAlignment{AlignRight})
}
