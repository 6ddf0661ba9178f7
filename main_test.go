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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/demo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func demoView(t *testing.T) *tables.TableView {
	t.Helper()
	table, err := demo.CreateESGTable()
	require.NoError(t, err)
	return tables.NewTableView(table)
}

func TestApplyFlags(t *testing.T) {
	tv := demoView(t)
	err := applyFlags(tv, viewFlags{
		sort:    "esg_score",
		desc:    true,
		filters: []string{"region=europe"},
		page:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, tables.SortState{Key: "esg_score", Direction: tables.Desc}, tv.Sort())
	assert.Equal(t, "europe", tv.Filter("region"))
	assert.Equal(t, 1, tv.Page(), "page clamps to the single page of European companies")
}

func TestApplyFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags viewFlags
	}{
		{"unknown sort", viewFlags{sort: "nope"}},
		{"unsortable", viewFlags{sort: "rating"}},
		{"malformed filter", viewFlags{filters: []string{"region"}}},
		{"unknown filter column", viewFlags{filters: []string{"nope=x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, applyFlags(demoView(t), tt.flags))
		})
	}
}

func TestShowAndExportCommands(t *testing.T) {
	logger = zap.NewNop()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"show", "esg", "--sort", "esg_score", "--desc"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "ESG Scores")
	assert.Contains(t, out.String(), "ESG Score v")
	assert.Contains(t, out.String(), "Showing 1 to 10 of 25 entries")

	path := filepath.Join(t.TempDir(), "out.csv")
	rootCmd.SetArgs([]string{"export", "esg", "--filter", "industry=energy", "-o", path})
	require.NoError(t, rootCmd.Execute())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Company,Ticker,Industry"))
	assert.Len(t, lines, 3)
}
