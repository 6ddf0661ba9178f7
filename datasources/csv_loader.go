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

package datasources

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/esgtable/core/values"
)

// CsvLoader implements DataSourceLoader for CSV files. Column types are
// inferred from the data: a column whose non-empty cells are all numeric is
// loaded as numbers, everything else as strings. Empty cells are null.
//
// Required config keys:
//   - file_path: Path to the CSV file
//
// Optional config keys:
//   - has_header: "true" or "false" (default: "true")
//   - delimiter: Field delimiter (default: ",")
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

// DiscoverSchema discovers the table schema from the CSV header and data.
func (l *CsvLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	names, records, err := l.read(config)
	if err != nil {
		return nil, err
	}
	return inferSchema(names, records), nil
}

// Load loads every record of a CSV file.
func (l *CsvLoader) Load(config map[string]string) ([]values.Row, error) {
	names, records, err := l.read(config)
	if err != nil {
		return nil, err
	}
	return buildRows(inferSchema(names, records), records), nil
}

func (l *CsvLoader) read(config map[string]string) ([]string, [][]string, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, nil, fmt.Errorf("file_path is required")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, config)
}

// ReadCSV parses CSV from r using the has_header and delimiter config keys.
// It returns the column names and the data records.
func ReadCSV(r io.Reader, config map[string]string) ([]string, [][]string, error) {
	hasHeader := config["has_header"] != "false"

	reader := csv.NewReader(r)
	if d := config["delimiter"]; d != "" {
		reader.Comma = []rune(d)[0]
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV is empty")
	}

	var columnNames []string
	if hasHeader {
		for _, name := range records[0] {
			columnNames = append(columnNames, strings.TrimSpace(name))
		}
		records = records[1:]
	} else {
		for i := range records[0] {
			columnNames = append(columnNames, fmt.Sprintf("col_%d", i))
		}
	}
	return columnNames, records, nil
}

// RowsFromCSV parses CSV from r into rows, inferring numeric columns.
func RowsFromCSV(r io.Reader, config map[string]string) (*TableSchema, []values.Row, error) {
	names, records, err := ReadCSV(r, config)
	if err != nil {
		return nil, nil, err
	}
	schema := inferSchema(names, records)
	return schema, buildRows(schema, records), nil
}

func inferSchema(names []string, records [][]string) *TableSchema {
	schema := &TableSchema{Columns: make([]*ColumnSchema, len(names))}
	for i, name := range names {
		schema.Columns[i] = &ColumnSchema{Name: name, Type: inferColumnType(i, records)}
	}
	return schema
}

// inferColumnType returns TypeNumber when every non-empty cell is numeric
// and at least one cell is non-empty.
func inferColumnType(colIdx int, records [][]string) ColumnType {
	seen := false
	for _, record := range records {
		if colIdx >= len(record) || record[colIdx] == "" {
			continue
		}
		if !values.IsFiniteNumber(values.String(record[colIdx])) {
			return TypeString
		}
		seen = true
	}
	if !seen {
		return TypeString
	}
	return TypeNumber
}

func buildRows(schema *TableSchema, records [][]string) []values.Row {
	rows := make([]values.Row, 0, len(records))
	for _, record := range records {
		row := make(values.Row, len(schema.Columns))
		for i, col := range schema.Columns {
			if i >= len(record) || record[i] == "" {
				row[col.Name] = values.Null()
				continue
			}
			if col.Type == TypeNumber {
				row[col.Name] = values.Number(values.ToNumber(values.String(record[i])))
			} else {
				row[col.Name] = values.String(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows
}
