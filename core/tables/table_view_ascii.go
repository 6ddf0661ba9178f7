/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tables

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/esgtable/core/values"
)

// ToASCII renders the current page with ASCII borders, marking the sorted
// column and summarizing the pager position underneath.
func (tv *TableView) ToASCII() string {
	cols := tv.baseTable.Columns()
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
		if tv.sort.Key == col.Key {
			if tv.sort.Direction == Desc {
				headers[i] += " v"
			} else {
				headers[i] += " ^"
			}
		}
	}

	page := tv.CurrentPage()
	data := make([][]string, 0, len(page.Rows))
	for _, row := range page.Rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = col.Display(row).String()
		}
		data = append(data, cells)
	}

	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers(headers...).
		Rows(data...)

	var sb strings.Builder
	sb.WriteString(t.String())
	sb.WriteString("\n")
	if page.TotalRows == 0 {
		sb.WriteString("No entries")
	} else {
		fmt.Fprintf(&sb, "Showing %d to %d of %d entries", page.First, page.Last, page.TotalRows)
	}
	if page.ShowPager() {
		fmt.Fprintf(&sb, " (page %d of %d)", page.Page, page.TotalPages)
	}
	if n := tv.ActiveFilterCount(); n > 0 {
		label := "filters"
		if n == 1 {
			label = "filter"
		}
		fmt.Fprintf(&sb, ", %d %s", n, label)
	}
	sb.WriteString("\n")
	return sb.String()
}

// InsightsToASCII renders the insights of every summarized column.
func (tv *TableView) InsightsToASCII() string {
	stats := tv.Insights()
	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers("Column", "Type", "Count", "Unique", "Min", "Max", "Mean", "Median")
	for _, col := range tv.baseTable.Columns() {
		st, ok := stats[col.Key]
		if !ok {
			continue
		}
		row := []string{col.Header, string(st.Type), strconv.Itoa(st.Count), strconv.Itoa(st.Unique), "", "", "", ""}
		if st.Type == Numeric {
			row[4] = FormatFixed(st.Min, 2)
			row[5] = FormatFixed(st.Max, 2)
			row[6] = FormatFixed(st.Mean, 2)
			row[7] = FormatFixed(st.Median, 2)
		}
		t.Row(row...)
	}
	return t.String() + "\n"
}

// FormatFixed formats f with a fixed number of decimals.
func FormatFixed(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return values.FormatNumber(f)
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}
