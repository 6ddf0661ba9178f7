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

// Package demo provides the built-in ESG sample dataset served when no
// datasets are configured.
package demo

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/datasources"
)

//go:embed data/esg_scores.csv
var esgScoresCSV string

// DatasetName is the name the demo dataset is registered under.
const DatasetName = "esg"

// Source describes the demo dataset.
func Source() *datasources.DataSource {
	no := false
	return &datasources.DataSource{
		Name:        DatasetName,
		Title:       "ESG Scores",
		Description: "Environmental, social and governance scores for 25 sample companies.",
		SourceType:  "csv",
		Columns: []datasources.ColumnSpec{
			{Key: "company", Header: "Company"},
			{Key: "ticker", Header: "Ticker", Filterable: &no},
			{Key: "industry", Header: "Industry"},
			{Key: "region", Header: "Region"},
			{Key: "year", Header: "Year"},
			{Key: "environmental", Header: "Environmental", Format: datasources.FormatFixed1},
			{Key: "social", Header: "Social", Format: datasources.FormatFixed1},
			{Key: "governance", Header: "Governance", Format: datasources.FormatFixed1},
			{Key: "esg_score", Header: "ESG Score", Format: datasources.FormatFixed1},
			{Key: "carbon_intensity", Header: "Carbon Intensity", Format: datasources.FormatFixed1},
			{Key: "rating", Header: "Rating", Sortable: &no},
		},
		Exportable:   true,
		ShowInsights: true,
	}
}

// CreateESGTable parses the embedded sample data.
func CreateESGTable() (*tables.DataTable, error) {
	schema, rows, err := datasources.RowsFromCSV(strings.NewReader(esgScoresCSV), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to import demo CSV: %w", err)
	}
	return datasources.TableFromRows(Source(), schema, rows)
}

// Register adds the demo dataset to m.
func Register(m *datasources.Manager) error {
	table, err := CreateESGTable()
	if err != nil {
		return err
	}
	m.RegisterTable(Source(), table)
	return nil
}
