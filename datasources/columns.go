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
	"fmt"
	"strings"

	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/core/values"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display formats a column may declare.
const (
	FormatRaw     = "raw"
	FormatFixed1  = "fixed1"
	FormatFixed2  = "fixed2"
	FormatPercent = "percent"
	FormatUpper   = "upper"
	FormatTitle   = "title"
)

// ColumnSpec is an operator-declared column. Nil Sortable and Filterable
// default to true.
type ColumnSpec struct {
	Key        string
	Header     string
	Sortable   *bool
	Filterable *bool
	Format     string
}

// DefaultHeader derives a display header from a field key:
// "esg_score" becomes "Esg Score".
func DefaultHeader(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// FormatAccessor returns the accessor rendering key's field in format.
// FormatRaw (or "") returns nil, which reads the raw field.
func FormatAccessor(key, format string) (tables.Accessor, error) {
	switch format {
	case "", FormatRaw:
		return nil, nil
	case FormatFixed1:
		return fixed(key, 1, ""), nil
	case FormatFixed2:
		return fixed(key, 2, ""), nil
	case FormatPercent:
		return fixed(key, 1, "%"), nil
	case FormatUpper:
		return text(key, strings.ToUpper), nil
	case FormatTitle:
		return text(key, func(s string) string {
			return cases.Title(language.English).String(s)
		}), nil
	default:
		return nil, fmt.Errorf("unknown column format %q for %q", format, key)
	}
}

// fixed renders numeric fields with a fixed number of decimals. Other
// values pass through.
func fixed(key string, decimals int, suffix string) tables.Accessor {
	return func(row values.Row) values.Value {
		v := row.Get(key)
		if !values.IsFiniteNumber(v) {
			return v
		}
		return values.String(tables.FormatFixed(values.ToNumber(v), decimals) + suffix)
	}
}

func text(key string, fn func(string) string) tables.Accessor {
	return func(row values.Row) values.Value {
		v := row.Get(key)
		if v.IsNull() {
			return v
		}
		return values.String(fn(v.String()))
	}
}

// BuildColumns turns specs into table columns. With no specs every schema
// column is shown in schema order. Specs naming fields absent from the
// schema are kept: their cells read as null.
func BuildColumns(specs []ColumnSpec, schema *TableSchema) ([]tables.Column, error) {
	if len(specs) == 0 {
		cols := make([]tables.Column, 0, len(schema.Columns))
		for _, c := range schema.Columns {
			cols = append(cols, tables.NewColumn(c.Name, DefaultHeader(c.Name)))
		}
		return cols, nil
	}

	seen := make(map[string]bool, len(specs))
	cols := make([]tables.Column, 0, len(specs))
	for _, spec := range specs {
		if spec.Key == "" {
			return nil, fmt.Errorf("column key is required")
		}
		if seen[spec.Key] {
			return nil, fmt.Errorf("duplicate column key %q", spec.Key)
		}
		seen[spec.Key] = true

		header := spec.Header
		if header == "" {
			header = DefaultHeader(spec.Key)
		}
		col := tables.NewColumn(spec.Key, header)
		if spec.Sortable != nil {
			col.Sortable = *spec.Sortable
		}
		if spec.Filterable != nil {
			col.Filterable = *spec.Filterable
		}
		accessor, err := FormatAccessor(spec.Key, spec.Format)
		if err != nil {
			return nil, err
		}
		col.Accessor = accessor
		cols = append(cols, col)
	}
	return cols, nil
}
