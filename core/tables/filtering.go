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
	"strings"

	"github.com/google/esgtable/core/values"
)

// Filters maps a column key to a case-insensitive substring query.
type Filters map[string]string

// Clone returns a copy of f.
func (f Filters) Clone() Filters {
	c := make(Filters, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// Active returns the number of columns with a non-empty query.
func (f Filters) Active() int {
	n := 0
	for _, q := range f {
		if q != "" {
			n++
		}
	}
	return n
}

// ApplyFilters keeps the rows whose raw field contains every column's query,
// ignoring case. Empty queries impose no constraint. The input is not modified.
func ApplyFilters(rows []values.Row, filters Filters) []values.Row {
	type needle struct {
		key   string
		query string
	}
	needles := make([]needle, 0, len(filters))
	for key, q := range filters {
		if q == "" {
			continue
		}
		needles = append(needles, needle{key: key, query: strings.ToLower(q)})
	}

	result := make([]values.Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, n := range needles {
			if !strings.Contains(strings.ToLower(row.Get(n.key).String()), n.query) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, row)
		}
	}
	return result
}
