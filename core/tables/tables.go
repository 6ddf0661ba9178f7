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

// Package tables implements the interactive data table: filtering, stable
// sorting, pagination, per-column insights, CSV export and the column filter
// menu, all computed over an immutable DataTable.
package tables

import (
	"github.com/google/esgtable/core/values"
)

// PageSize is the fixed number of rows shown per page.
const PageSize = 10

// Accessor projects a row to the value displayed (and exported) for a column.
type Accessor func(row values.Row) values.Value

// Column describes how to label, extract, sort and filter one column.
type Column struct {
	Key        string
	Header     string
	Accessor   Accessor // nil reads the raw field by Key
	Sortable   bool
	Filterable bool
}

// NewColumn returns a sortable, filterable column reading the raw field.
func NewColumn(key, header string) Column {
	return Column{
		Key:        key,
		Header:     header,
		Sortable:   true,
		Filterable: true,
	}
}

// Display returns the accessor's value for row.
func (c Column) Display(row values.Row) values.Value {
	if c.Accessor == nil {
		return row.Get(c.Key)
	}
	return c.Accessor(row)
}

// Raw returns the underlying field, bypassing the accessor.
func (c Column) Raw(row values.Row) values.Value {
	return row.Get(c.Key)
}

// DataTable holds the rows and column descriptors of one dataset.
// Rows are never mutated once the table is built.
type DataTable struct {
	title   string
	rows    []values.Row
	columns []Column
}

func NewDataTable(title string, columns []Column, rows []values.Row) *DataTable {
	return &DataTable{
		title:   title,
		rows:    rows,
		columns: columns,
	}
}

func (dt *DataTable) Title() string {
	return dt.title
}

func (dt *DataTable) Rows() []values.Row {
	return dt.rows
}

func (dt *DataTable) Columns() []Column {
	return dt.columns
}

// Length returns the number of rows.
func (dt *DataTable) Length() int {
	return len(dt.rows)
}

// GetColumn returns the column with the given key.
func (dt *DataTable) GetColumn(key string) (Column, bool) {
	for _, c := range dt.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// GetColumnNames returns the column keys in display order.
func (dt *DataTable) GetColumnNames() []string {
	names := make([]string, len(dt.columns))
	for i, c := range dt.columns {
		names[i] = c.Key
	}
	return names
}
