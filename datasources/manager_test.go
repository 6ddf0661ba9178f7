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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/esgtable/core/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoresCSV = `company,industry,esg_score,notes
Acme,Energy,71.5,
Globex,Finance,64,"watch, list"
Initech,Tech,n/a,
`

const scoresJSON = `[
  {"company": "Acme", "industry": "Energy", "esg_score": 71.5, "verified": true},
  {"company": "Globex", "industry": "Finance", "esg_score": null, "tags": ["a", "b"]}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCsvLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)
	loader := NewCsvLoader()
	config := map[string]string{"file_path": path}

	schema, err := loader.DiscoverSchema(config)
	require.NoError(t, err)
	assert.Equal(t, []string{"company", "industry", "esg_score", "notes"}, schema.Names())
	// "n/a" makes the score column textual.
	assert.Equal(t, TypeString, schema.Columns[2].Type)

	rows, err := loader.Load(config)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, values.String("watch, list"), rows[1]["notes"])
	assert.True(t, rows[0]["notes"].IsNull())
}

func TestCsvLoaderNumericColumns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.csv", "name;score\nA;1.5\nB;\nC;-2\n")
	loader := NewCsvLoader()
	config := map[string]string{"file_path": path, "delimiter": ";"}

	schema, err := loader.DiscoverSchema(config)
	require.NoError(t, err)
	assert.Equal(t, TypeNumber, schema.Columns[1].Type)

	rows, err := loader.Load(config)
	require.NoError(t, err)
	assert.Equal(t, values.Number(1.5), rows[0]["score"])
	assert.True(t, rows[1]["score"].IsNull())
	assert.Equal(t, values.Number(-2), rows[2]["score"])
}

func TestCsvLoaderWithoutHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.csv", "A,1\nB,2\n")
	schema, err := NewCsvLoader().DiscoverSchema(map[string]string{"file_path": path, "has_header": "false"})
	require.NoError(t, err)
	assert.Equal(t, []string{"col_0", "col_1"}, schema.Names())
}

func TestCsvLoaderErrors(t *testing.T) {
	loader := NewCsvLoader()
	_, err := loader.Load(map[string]string{})
	assert.Error(t, err)

	_, err = loader.Load(map[string]string{"file_path": filepath.Join(t.TempDir(), "missing.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestJSONLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.json", scoresJSON)
	loader := NewJSONLoader()
	config := map[string]string{"file_path": path}

	schema, err := loader.DiscoverSchema(config)
	require.NoError(t, err)
	assert.Equal(t, []string{"company", "esg_score", "industry", "tags", "verified"}, schema.Names())
	assert.Equal(t, TypeNumber, schema.Columns[1].Type)
	assert.Equal(t, TypeString, schema.Columns[0].Type)

	rows, err := loader.Load(config)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, values.Number(71.5), rows[0]["esg_score"])
	assert.Equal(t, values.String("true"), rows[0]["verified"])
	assert.True(t, rows[1]["esg_score"].IsNull())
	assert.True(t, rows[1]["verified"].IsNull())
	assert.Contains(t, rows[1]["tags"].String(), `"a"`)
}

func TestJSONLoaderRejectsNonObjects(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `[1, 2]`)
	_, err := NewJSONLoader().Load(map[string]string{"file_path": path})
	assert.Error(t, err)

	path = writeFile(t, t.TempDir(), "bad.json", `{"not": "a list"}`)
	_, err = NewJSONLoader().Load(map[string]string{"file_path": path})
	assert.Error(t, err)
}

func TestManagerLazyLoading(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scores.csv", scoresCSV)

	manager := NewManager()
	manager.SetBaseDir(dir)
	manager.AddSource(&DataSource{
		Name:       "scores",
		SourceType: "csv",
		Config:     map[string]string{"file_path": "scores.csv"},
	})

	assert.Equal(t, []string{"scores"}, manager.GetSourceNames())
	assert.False(t, manager.IsLoaded("scores"))

	table, err := manager.LoadData("scores")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Length())
	assert.Equal(t, "Scores", table.Title())
	assert.Equal(t, []string{"company", "industry", "esg_score", "notes"}, table.GetColumnNames())
	col, ok := table.GetColumn("esg_score")
	require.True(t, ok)
	assert.Equal(t, "Esg Score", col.Header)

	assert.True(t, manager.IsLoaded("scores"))
	assert.Equal(t, []string{"scores"}, manager.GetLoadedSources())

	table2, err := manager.LoadData("scores")
	require.NoError(t, err)
	assert.Same(t, table, table2)

	manager.InvalidateCache("scores")
	assert.False(t, manager.IsLoaded("scores"))

	_, err = manager.LoadData("scores")
	require.NoError(t, err)
	manager.InvalidateAllCaches()
	assert.Empty(t, manager.GetLoadedSources())
}

func TestManagerColumnSpecs(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.json", scoresJSON)
	no := false

	manager := NewManager()
	manager.AddSource(&DataSource{
		Name:       "scores",
		Title:      "ESG Scores",
		SourceType: "json",
		Config:     map[string]string{"file_path": path},
		Columns: []ColumnSpec{
			{Key: "company", Header: "Company", Format: FormatUpper},
			{Key: "esg_score", Format: FormatFixed1, Filterable: &no},
		},
	})

	table, err := manager.LoadData("scores")
	require.NoError(t, err)
	assert.Equal(t, "ESG Scores", table.Title())
	assert.Equal(t, []string{"company", "esg_score"}, table.GetColumnNames())

	company, _ := table.GetColumn("company")
	score, _ := table.GetColumn("esg_score")
	assert.Equal(t, values.String("ACME"), company.Display(table.Rows()[0]))
	assert.Equal(t, values.String("71.5"), score.Display(table.Rows()[0]))
	assert.False(t, score.Filterable)
	assert.True(t, score.Sortable)
}

func TestManagerErrors(t *testing.T) {
	manager := NewManager()

	_, err := manager.LoadData("missing")
	assert.ErrorIs(t, err, ErrUnknownSource)

	manager.AddSource(&DataSource{Name: "db", SourceType: "postgres"})
	_, err = manager.LoadData("db")
	assert.ErrorIs(t, err, ErrNoLoader)

	manager.AddSource(&DataSource{Name: "broken", SourceType: "csv", Config: map[string]string{"file_path": "/nonexistent/x.csv"}})
	_, err = manager.LoadData("broken")
	assert.Error(t, err)
	assert.False(t, manager.IsLoaded("broken"))
}

func TestManagerNewTableView(t *testing.T) {
	manager := NewManager()
	schema, rows, err := RowsFromCSV(stringsReader(scoresCSV), nil)
	require.NoError(t, err)
	source := &DataSource{Name: "scores", Exportable: false, ShowInsights: true}
	table, err := TableFromRows(source, schema, rows)
	require.NoError(t, err)
	manager.RegisterTable(source, table)

	tv, err := manager.NewTableView("scores")
	require.NoError(t, err)
	assert.False(t, tv.Exportable())
	assert.True(t, tv.ShowInsights())
	assert.Same(t, table, tv.GetBaseTable())

	// Views of one source share its insight cache.
	tv2, err := manager.NewTableView("scores")
	require.NoError(t, err)
	tv.Insights()
	tv2.Insights()
	assert.NotNil(t, tv2.Insights())
}
