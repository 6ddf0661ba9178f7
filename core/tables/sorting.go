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
	"slices"

	"github.com/google/esgtable/core/values"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps "desc" to Desc and anything else to Asc.
func ParseDirection(s string) Direction {
	if s == string(Desc) {
		return Desc
	}
	return Asc
}

// SortState is the active sort. An empty Key means rows keep input order.
type SortState struct {
	Key       string
	Direction Direction
}

// IsSet reports whether a sort column is selected.
func (s SortState) IsSet() bool {
	return s.Key != ""
}

// Toggle returns the state after clicking key's sort control: the active
// column flips asc to desc and back, any other column starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key && s.Direction != Desc {
		return SortState{Key: key, Direction: Desc}
	}
	return SortState{Key: key, Direction: Asc}
}

// ApplySort returns a stably sorted copy of rows. Descending order negates
// the comparison instead of reversing the result, so equal values keep their
// input order in both directions.
func ApplySort(rows []values.Row, state SortState) []values.Row {
	sorted := slices.Clone(rows)
	if !state.IsSet() {
		return sorted
	}
	key := state.Key
	desc := state.Direction == Desc
	slices.SortStableFunc(sorted, func(a, b values.Row) int {
		cmp := values.Compare(a.Get(key), b.Get(key))
		if desc {
			return -cmp
		}
		return cmp
	})
	return sorted
}
