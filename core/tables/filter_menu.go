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
	"math"
	"slices"
	"strings"

	"github.com/google/esgtable/core/values"
)

const (
	// MenuWidth is the rendered width of the filter menu in pixels.
	MenuWidth = 260
	// MenuPadding is the minimum distance kept from the viewport edges.
	MenuPadding = 8
	// MenuGap is the space between the anchor icon and the menu.
	MenuGap = 8

	maxSuggestions = 10
	maxQuickSelect = 12
)

// ColumnType is the coarse type the filter menu uses for labels and for
// deciding whether to offer value lists.
type ColumnType string

const (
	ColumnNumber ColumnType = "number"
	ColumnText   ColumnType = "text"
)

// FilterMenu is the active column filter popover. At most one is open.
// The zero value is closed.
type FilterMenu struct {
	Column int
	Open   bool
}

// Toggle returns the menu state after clicking column index's filter icon:
// the open column closes, any other column opens in its place.
func (m FilterMenu) Toggle(index int) FilterMenu {
	if m.Open && m.Column == index {
		return FilterMenu{}
	}
	return FilterMenu{Column: index, Open: true}
}

// Rect is an anchor's bounding box in viewport pixels.
type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Point is a viewport position in pixels.
type Point struct {
	Left, Top float64
}

// Position places the menu under anchor, horizontally centered on it and
// clamped to the viewport. It is derived on every layout pass, so scroll and
// resize only need to call it again with the new anchor box.
func (m FilterMenu) Position(anchor Rect, viewportWidth float64) Point {
	left := anchor.Left - (MenuWidth-anchor.Width)/2
	left = min(max(MenuPadding, left), viewportWidth-MenuWidth-MenuPadding)
	return Point{
		Left: left,
		Top:  anchor.Bottom() + MenuGap,
	}
}

// ShouldClose reports whether a click closes the menu: it must land outside
// both the menu and its anchor icon.
func (m FilterMenu) ShouldClose(inMenu, inAnchor bool) bool {
	return m.Open && !inMenu && !inAnchor
}

// DetectColumnType looks at the first row only. Empty data is text.
func DetectColumnType(rows []values.Row, key string) ColumnType {
	if len(rows) == 0 {
		return ColumnText
	}
	if values.IsFiniteNumber(rows[0].Get(key)) {
		return ColumnNumber
	}
	return ColumnText
}

// UniqueValues returns the distinct non-empty raw values of a column,
// ordered by their string form. Nulls, empty strings, zero and NaN are
// skipped.
func UniqueValues(rows []values.Row, key string) []values.Value {
	seen := make(map[values.Value]struct{})
	var unique []values.Value
	for _, row := range rows {
		v := row.Get(key)
		if !truthy(v) {
			continue
		}
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		unique = append(unique, v)
	}
	slices.SortStableFunc(unique, func(a, b values.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	return unique
}

// Suggestions returns up to ten unique values containing query, ignoring
// case. Numeric columns and empty queries get none.
func Suggestions(rows []values.Row, key, query string) []values.Value {
	if query == "" || DetectColumnType(rows, key) != ColumnText {
		return nil
	}
	needle := strings.ToLower(query)
	var out []values.Value
	for _, v := range UniqueValues(rows, key) {
		if strings.Contains(strings.ToLower(v.String()), needle) {
			out = append(out, v)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// QuickSelect returns the first twelve unique values of a text column that
// has more than one distinct value.
func QuickSelect(rows []values.Row, key string) []values.Value {
	if DetectColumnType(rows, key) != ColumnText {
		return nil
	}
	unique := UniqueValues(rows, key)
	if len(unique) <= 1 {
		return nil
	}
	if len(unique) > maxQuickSelect {
		unique = unique[:maxQuickSelect]
	}
	return unique
}

func truthy(v values.Value) bool {
	switch v.Kind() {
	case values.KindString:
		s, _ := v.Str()
		return s != ""
	case values.KindNumber:
		f, _ := v.Num()
		return !math.IsNaN(f) && f != 0
	default:
		return false
	}
}
