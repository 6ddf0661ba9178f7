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

// Package query maps a table's interaction state to URLs and back, so every
// click in the rendered table is a plain link.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/esgtable/core/tables"
	"github.com/google/safehtml"
)

const filterPrefix = "filter:"

// Query represents the parsed state of a table view URL
type Query struct {
	// Base path (e.g., "/datasets/industry")
	Path string

	Sort          string            // Sorted column key, empty for input order
	Direction     tables.Direction  // Sort direction
	Page          int               // 1-indexed page
	Filters       map[string]string // Column filters (columnKey -> substring)
	Menu          int               // Column index of the open filter menu, -1 when closed
	InsightsPanel bool              // Whether the insights details are expanded
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:      u.Path,
		Direction: tables.Asc,
		Page:      1,
		Filters:   make(map[string]string),
		Menu:      -1,
	}

	q := u.Query()
	if packed := q.Get(FormStateParam); packed != "" {
		q = mergeFormSubmission(q, packed)
	}

	state.Sort = q.Get("sort")
	if state.Sort != "" {
		state.Direction = tables.ParseDirection(q.Get("dir"))
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		state.Page = page
	}

	if menu, err := strconv.Atoi(q.Get("menu")); err == nil && menu >= 0 {
		state.Menu = menu
	}

	state.InsightsPanel = q.Get("insights") == "1"

	// Extract filter parameters (format: filter:columnKey=value)
	for key, vals := range q {
		if strings.HasPrefix(key, filterPrefix) && len(vals) > 0 && vals[0] != "" {
			state.Filters[strings.TrimPrefix(key, filterPrefix)] = vals[0]
		}
	}

	return state
}

// mergeFormSubmission unpacks a filter form: the packed state plus the
// column/value pair typed by the user.
func mergeFormSubmission(q url.Values, packed string) url.Values {
	merged, err := url.ParseQuery(packed)
	if err != nil {
		return q
	}
	if col := q.Get(FormColumnParam); col != "" {
		if v := q.Get(FormValueParam); v != "" {
			merged.Set(filterPrefix+col, v)
		} else {
			merged.Del(filterPrefix + col)
		}
		merged.Del("page")
	}
	return merged
}

// FromState builds a Query for path that encodes s.
func FromState(path string, s tables.State) *Query {
	q := &Query{
		Path:          path,
		Sort:          s.Sort.Key,
		Direction:     s.Sort.Direction,
		Page:          s.Page,
		Filters:       make(map[string]string, len(s.Filters)),
		Menu:          -1,
		InsightsPanel: s.InsightsPanel,
	}
	if q.Direction == "" {
		q.Direction = tables.Asc
	}
	for k, v := range s.Filters {
		q.Filters[k] = v
	}
	if s.Menu.Open {
		q.Menu = s.Menu.Column
	}
	return q
}

// State converts the Query into table interaction state.
func (s *Query) State() tables.State {
	st := tables.State{
		Sort:          tables.SortState{Key: s.Sort, Direction: s.Direction},
		Filters:       make(tables.Filters, len(s.Filters)),
		Page:          s.Page,
		InsightsPanel: s.InsightsPanel,
	}
	for k, v := range s.Filters {
		st.Filters[k] = v
	}
	if s.Menu >= 0 {
		st.Menu = tables.FilterMenu{Column: s.Menu, Open: true}
	}
	return st
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := *s
	clone.Filters = make(map[string]string, len(s.Filters))
	for k, v := range s.Filters {
		clone.Filters[k] = v
	}
	return &clone
}

// ToURL converts the Query to a URL string
func (s *Query) ToURL() string {
	return s.urlFor(s.Path)
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}

func (s *Query) urlFor(path string) string {
	u := url.URL{Path: path, RawQuery: s.params().Encode()}
	return u.String()
}

func (s *Query) params() url.Values {
	q := url.Values{}
	if s.Sort != "" {
		q.Set("sort", s.Sort)
		q.Set("dir", string(s.Direction))
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	for _, key := range s.filterKeys() {
		if v := s.Filters[key]; v != "" {
			q.Set(filterPrefix+key, v)
		}
	}
	if s.Menu >= 0 {
		q.Set("menu", strconv.Itoa(s.Menu))
	}
	if s.InsightsPanel {
		q.Set("insights", "1")
	}
	return q
}

func (s *Query) filterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithSortToggled returns a URL for clicking a column header: the sorted
// column flips direction, any other column sorts ascending.
func (s *Query) WithSortToggled(key string) safehtml.URL {
	newState := s.Clone()
	next := tables.SortState{Key: s.Sort, Direction: s.Direction}.Toggle(key)
	newState.Sort = next.Key
	newState.Direction = next.Direction
	newState.Page = 1
	return newState.ToSafeURL()
}

// WithSort returns a URL sorting key in dir with the filter menu closed.
func (s *Query) WithSort(key string, dir tables.Direction) safehtml.URL {
	newState := s.Clone()
	newState.Sort = key
	newState.Direction = dir
	newState.Page = 1
	newState.Menu = -1
	return newState.ToSafeURL()
}

// WithFilter returns a URL filtering key to value with the filter menu closed.
func (s *Query) WithFilter(key, value string) safehtml.URL {
	newState := s.Clone()
	newState.Filters[key] = value
	newState.Page = 1
	newState.Menu = -1
	return newState.ToSafeURL()
}

// WithoutFilter returns a URL with key's filter removed
func (s *Query) WithoutFilter(key string) safehtml.URL {
	newState := s.Clone()
	delete(newState.Filters, key)
	newState.Page = 1
	return newState.ToSafeURL()
}

// WithoutFilterAndMenu returns a URL with key's filter removed and the menu closed
func (s *Query) WithoutFilterAndMenu(key string) safehtml.URL {
	newState := s.Clone()
	delete(newState.Filters, key)
	newState.Page = 1
	newState.Menu = -1
	return newState.ToSafeURL()
}

// WithoutFilters returns a URL with every filter removed
func (s *Query) WithoutFilters() safehtml.URL {
	newState := s.Clone()
	newState.Filters = make(map[string]string)
	newState.Page = 1
	return newState.ToSafeURL()
}

// WithPage returns a URL for another page
func (s *Query) WithPage(page int) safehtml.URL {
	newState := s.Clone()
	newState.Page = page
	return newState.ToSafeURL()
}

// WithMenuToggled returns a URL for clicking column index's filter icon
func (s *Query) WithMenuToggled(index int) safehtml.URL {
	newState := s.Clone()
	if s.Menu == index {
		newState.Menu = -1
	} else {
		newState.Menu = index
	}
	return newState.ToSafeURL()
}

// WithoutMenu returns a URL with the filter menu closed
func (s *Query) WithoutMenu() safehtml.URL {
	newState := s.Clone()
	newState.Menu = -1
	return newState.ToSafeURL()
}

// WithInsightsToggled returns a URL showing or hiding the insights details
func (s *Query) WithInsightsToggled() safehtml.URL {
	newState := s.Clone()
	newState.InsightsPanel = !s.InsightsPanel
	return newState.ToSafeURL()
}

// ExportURL returns the CSV download URL for the current sort and filters.
func (s *Query) ExportURL() safehtml.URL {
	newState := s.Clone()
	newState.Page = 1
	newState.Menu = -1
	newState.InsightsPanel = false
	return safehtml.URLSanitized(newState.urlFor(strings.TrimSuffix(s.Path, "/") + "/export.csv"))
}

// Parameters submitted by a filter search form. Form field names are fixed
// so that templates never emit attacker-influenced names: the column key
// travels as a value and the rest of the view state is packed into one field.
const (
	FormStateParam  = "state"
	FormColumnParam = "fcol"
	FormValueParam  = "fval"
)

// FormState encodes the parameters a filter search form must carry so that
// submitting it keeps the rest of the state. The page is dropped because a
// filter change restarts at page 1, and except's filter is supplied by the
// form's own input.
func (s *Query) FormState(except string) string {
	newState := s.Clone()
	delete(newState.Filters, except)
	newState.Page = 1
	return newState.params().Encode()
}
