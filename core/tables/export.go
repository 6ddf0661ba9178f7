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
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/esgtable/core/values"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportCSV writes a header line of column headers followed by one line per
// row of accessor values. Fields are quoted per RFC 4180 when needed; lines
// are separated by "\n" with no trailing newline.
func ExportCSV(w io.Writer, rows []values.Row, columns []Column) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = col.Header
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		for i, col := range columns {
			record[i] = col.Display(row).String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ExportFilename returns "{title}_{YYYY-MM-DD}.csv" with whitespace runs in
// the title replaced by underscores. The date is taken in UTC.
func ExportFilename(title string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", whitespaceRun.ReplaceAllString(title, "_"), now.UTC().Format("2006-01-02"))
}
