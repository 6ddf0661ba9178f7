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

	"github.com/google/esgtable/core/values"
)

// esgRows returns the three-company fixture used across the table tests.
func esgRows() []values.Row {
	return []values.Row{
		{"Industry": values.String("Tech"), "Score": values.Number(80)},
		{"Industry": values.String("Energy"), "Score": values.Number(60)},
		{"Industry": values.String("Finance"), "Score": values.Number(60)},
	}
}

func esgColumns() []Column {
	return []Column{
		NewColumn("Industry", "Industry"),
		NewColumn("Score", "ESG Score"),
	}
}

// numberedRows returns n rows with an "id" 1..n and a "name" of "row-<id>".
func numberedRows(n int) []values.Row {
	rows := make([]values.Row, n)
	for i := range rows {
		rows[i] = values.Row{
			"id":   values.Number(float64(i + 1)),
			"name": values.String(fmt.Sprintf("row-%d", i+1)),
		}
	}
	return rows
}

func column(rows []values.Row, key string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get(key).String()
	}
	return out
}
