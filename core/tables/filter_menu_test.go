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
	"testing"

	"github.com/google/esgtable/core/values"
	"github.com/stretchr/testify/assert"
)

func TestFilterMenuToggle(t *testing.T) {
	var m FilterMenu
	assert.False(t, m.Open)

	m = m.Toggle(1)
	assert.Equal(t, FilterMenu{Column: 1, Open: true}, m)

	m = m.Toggle(2)
	assert.Equal(t, FilterMenu{Column: 2, Open: true}, m, "switches to the other column")

	m = m.Toggle(2)
	assert.False(t, m.Open, "clicking the open column closes it")
}

func TestFilterMenuShouldClose(t *testing.T) {
	m := FilterMenu{Column: 0, Open: true}
	assert.True(t, m.ShouldClose(false, false))
	assert.False(t, m.ShouldClose(true, false))
	assert.False(t, m.ShouldClose(false, true))
	assert.False(t, FilterMenu{}.ShouldClose(false, false))
}

func TestFilterMenuPosition(t *testing.T) {
	m := FilterMenu{Open: true}
	tests := []struct {
		name   string
		anchor Rect
		want   Point
	}{
		{"centered", Rect{Left: 500, Top: 40, Width: 20, Height: 20}, Point{Left: 380, Top: 68}},
		{"clamped left", Rect{Left: 100, Top: 50, Width: 20, Height: 20}, Point{Left: 8, Top: 78}},
		{"clamped right", Rect{Left: 990, Top: 0, Width: 20, Height: 16}, Point{Left: 732, Top: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Position(tt.anchor, 1000))
		})
	}
}

func TestDetectColumnType(t *testing.T) {
	rows := esgRows()
	assert.Equal(t, ColumnNumber, DetectColumnType(rows, "Score"))
	assert.Equal(t, ColumnText, DetectColumnType(rows, "Industry"))
	assert.Equal(t, ColumnText, DetectColumnType(nil, "Score"))

	rows = []values.Row{{"v": values.String("42")}, {"v": values.String("x")}}
	assert.Equal(t, ColumnNumber, DetectColumnType(rows, "v"), "only the first row decides")
}

func TestUniqueValues(t *testing.T) {
	rows := []values.Row{
		{"v": values.String("b")},
		{"v": values.String("a")},
		{"v": values.String("")},
		{"v": values.Null()},
		{"v": values.String("b")},
		{"v": values.Number(0)},
		{},
	}
	got := UniqueValues(rows, "v")
	assert.Equal(t, []values.Value{values.String("a"), values.String("b")}, got)
}

func TestSuggestions(t *testing.T) {
	rows := append(esgRows(), values.Row{"Industry": values.String("Fintech"), "Score": values.Number(70)})

	got := Suggestions(rows, "Industry", "FIN")
	assert.Equal(t, []values.Value{values.String("Finance"), values.String("Fintech")}, got)

	assert.Nil(t, Suggestions(rows, "Industry", ""))
	assert.Nil(t, Suggestions(rows, "Score", "6"), "numeric columns get no suggestions")

	many := make([]values.Row, 30)
	for i := range many {
		many[i] = values.Row{"c": values.String(fmt.Sprintf("company-%02d", i))}
	}
	assert.Len(t, Suggestions(many, "c", "company"), 10)
}

func TestQuickSelect(t *testing.T) {
	many := make([]values.Row, 20)
	for i := range many {
		many[i] = values.Row{"c": values.String(fmt.Sprintf("c%02d", i))}
	}
	got := QuickSelect(many, "c")
	assert.Len(t, got, 12)
	assert.Equal(t, "c00", got[0].String())
	assert.Equal(t, "c11", got[11].String())

	single := []values.Row{{"c": values.String("only")}, {"c": values.String("only")}}
	assert.Nil(t, QuickSelect(single, "c"))
	assert.Nil(t, QuickSelect(esgRows(), "Score"))
}
