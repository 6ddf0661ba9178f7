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

package demo

import (
	"testing"

	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/core/values"
	"github.com/google/esgtable/datasources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateESGTable(t *testing.T) {
	table, err := CreateESGTable()
	require.NoError(t, err)

	assert.Equal(t, "ESG Scores", table.Title())
	assert.Equal(t, 25, table.Length())
	assert.Len(t, table.Columns(), 11)

	first := table.Rows()[0]
	assert.Equal(t, values.String("Northwind Energy"), first["company"])
	assert.True(t, first["esg_score"].IsNumber())
	assert.True(t, first["year"].IsNumber())

	// One company has no carbon intensity on record.
	missing := 0
	for _, row := range table.Rows() {
		if row.Get("carbon_intensity").IsNull() {
			missing++
		}
	}
	assert.Equal(t, 1, missing)
}

func TestRegister(t *testing.T) {
	m := datasources.NewManager()
	require.NoError(t, Register(m))
	assert.Equal(t, []string{DatasetName}, m.GetSourceNames())

	tv, err := m.NewTableView(DatasetName)
	require.NoError(t, err)
	assert.True(t, tv.Exportable())

	tv.ToggleSort("esg_score")
	tv.ToggleSort("esg_score")
	page := tv.CurrentPage()
	assert.Len(t, page.Rows, tables.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	top, _ := page.Rows[0].Get("esg_score").Num()
	for _, row := range tv.SortedRows() {
		score, ok := row.Get("esg_score").Num()
		require.True(t, ok)
		assert.LessOrEqual(t, score, top)
	}

	rating, ok := tv.GetBaseTable().GetColumn("rating")
	require.True(t, ok)
	assert.False(t, rating.Sortable)
}
