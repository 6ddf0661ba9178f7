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

// Package datasources loads ESG datasets from files into DataTables, with
// operator-provided column descriptors and lazy, cached loading.
package datasources

import (
	"errors"

	"github.com/google/esgtable/core/values"
)

var (
	// ErrUnknownSource is returned when no source is registered under a name.
	ErrUnknownSource = errors.New("unknown data source")
	// ErrNoLoader is returned when a source's type has no registered loader.
	ErrNoLoader = errors.New("no loader registered for source type")
)

// ColumnType represents the data type of a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeNumber
)

// String returns the string representation of the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	default:
		return "unknown"
	}
}

// ColumnSchema represents a single column's schema discovered from a data source.
type ColumnSchema struct {
	Name string
	Type ColumnType
}

// TableSchema represents the full table schema discovered from a data source.
type TableSchema struct {
	Columns []*ColumnSchema
}

// Names returns the column names in schema order.
func (s *TableSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// DataSource describes one dataset: where its rows come from and how the
// table widget presents them.
type DataSource struct {
	Name        string
	Title       string
	Description string

	// SourceType selects the loader ("json", "csv").
	SourceType string
	// Config is passed to the loader. Recognized keys: file_path, delimiter,
	// has_header.
	Config map[string]string

	// Columns lists the displayed columns in order. Empty means every
	// discovered column with a title-cased header.
	Columns []ColumnSpec

	Exportable   bool
	ShowInsights bool
}

// DataSourceLoader is the interface that all data source loaders must implement.
// Built-in loaders exist for "json" and "csv".
type DataSourceLoader interface {
	// SourceType returns the type identifier used in config (e.g., "json", "csv").
	SourceType() string

	// DiscoverSchema returns the columns found in the data source.
	DiscoverSchema(config map[string]string) (*TableSchema, error)

	// Load reads every record of the data source.
	Load(config map[string]string) ([]values.Row, error)
}
