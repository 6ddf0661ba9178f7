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

package views

import (
	"fmt"

	"github.com/google/esgtable/core/query"
	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/core/values"
	"github.com/google/safehtml"
)

// TableViewModel contains the data from the table formatted for template consumption
type TableViewModel struct {
	Title    string
	Subtitle string
	Headers  []HeaderCell
	Rows     [][]string // Display values of the current page, one slice per row

	ActiveFilters      int
	ActiveFiltersLabel string       // "1 filter" / "3 filters"
	ClearFiltersURL    safehtml.URL // Removes every filter

	Exportable bool
	ExportURL  safehtml.URL

	Pager    Pager
	Menu     *FilterMenuModel // nil when no filter menu is open
	Insights *InsightsModel   // nil when insights are disabled or there is no data
	HomeURL  safehtml.URL
}

// HeaderCell is one column header with its sort and filter controls.
type HeaderCell struct {
	Key           string
	Header        string
	Sortable      bool
	SortURL       safehtml.URL // Header click: toggles the sort
	SortIndicator string       // "▲", "▼" or "" when the column is not sorted
	Filterable    bool
	FilterIconURL safehtml.URL // Opens, switches or closes this column's menu
	MenuOpen      bool
	FilterValue   string       // Active filter shown as a badge
	ClearURL      safehtml.URL // Badge "x": removes this column's filter
}

// Pager holds pagination controls. Show is false when there is a single page.
type Pager struct {
	Show    bool
	Summary string // "Showing 11 to 20 of 25 entries"
	HasPrev bool
	HasNext bool
	PrevURL safehtml.URL
	NextURL safehtml.URL
	Pages   []PageLink
}

// PageLink is one numbered page button.
type PageLink struct {
	Number  int
	URL     safehtml.URL
	Current bool
}

// FilterMenuModel is the open column filter popover.
type FilterMenuModel struct {
	Header        string
	TypeLabel     string // "Numeric" or "Text"
	SortAscLabel  string
	SortAscURL    safehtml.URL
	SortDescLabel string
	SortDescURL   safehtml.URL

	FormAction  safehtml.URL
	FormState   string // Packed state, see query.FormState
	FormColumn  string
	SearchValue string
	Placeholder string

	Suggestions []ValueLink
	QuickSelect []ValueLink

	HasFilter bool
	ClearURL  safehtml.URL // "Clear Filter": removes the filter and closes the menu
	CloseURL  safehtml.URL // Outside click
}

// ValueLink selects an exact value as the column's filter.
type ValueLink struct {
	Label string
	URL   safehtml.URL
}

// InsightsModel is the "Data Insights" card.
type InsightsModel struct {
	Open        bool
	ToggleURL   safehtml.URL
	ToggleLabel string
	Cards       []InsightCard
}

// InsightCard summarizes one column.
type InsightCard struct {
	Header  string
	Count   int
	Unique  int
	Numeric bool
	Min     string
	Max     string
	Mean    string
	Median  string
}

// LandingViewModel lists the datasets that can be browsed.
type LandingViewModel struct {
	Title    string
	Subtitle string
	Datasets []DatasetInfo
}

// DatasetInfo describes one dataset card on the landing page.
type DatasetInfo struct {
	Name        string
	Title       string
	Description string
	URL         safehtml.URL
	RecordCount int
	ColumnCount int
}

// BuildViewModel builds the template model for tv. q must encode tv's
// current state, see query.FromState.
func BuildViewModel(tv *tables.TableView, q *query.Query, subtitle string) TableViewModel {
	cols := tv.Columns()
	state := tv.State()
	page := tv.CurrentPage()

	vm := TableViewModel{
		Title:           tv.Title(),
		Subtitle:        subtitle,
		ActiveFilters:   tv.ActiveFilterCount(),
		ClearFiltersURL: q.WithoutFilters(),
		Exportable:      tv.Exportable(),
		ExportURL:       q.ExportURL(),
		HomeURL:         safehtml.URLSanitized("/"),
	}
	if vm.ActiveFilters == 1 {
		vm.ActiveFiltersLabel = "1 filter"
	} else {
		vm.ActiveFiltersLabel = fmt.Sprintf("%d filters", vm.ActiveFilters)
	}

	for i, col := range cols {
		cell := HeaderCell{
			Key:         col.Key,
			Header:      col.Header,
			Sortable:    col.Sortable,
			Filterable:  col.Filterable,
			MenuOpen:    state.Menu.Open && state.Menu.Column == i,
			FilterValue: state.Filters[col.Key],
		}
		if col.Sortable {
			cell.SortURL = q.WithSortToggled(col.Key)
		}
		if state.Sort.Key == col.Key {
			cell.SortIndicator = "▲"
			if state.Sort.Direction == tables.Desc {
				cell.SortIndicator = "▼"
			}
		}
		if col.Filterable {
			cell.FilterIconURL = q.WithMenuToggled(i)
		}
		if cell.FilterValue != "" {
			cell.ClearURL = q.WithoutFilter(col.Key)
		}
		vm.Headers = append(vm.Headers, cell)
	}

	vm.Rows = make([][]string, 0, len(page.Rows))
	for _, row := range page.Rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = col.Display(row).String()
		}
		vm.Rows = append(vm.Rows, cells)
	}

	vm.Pager = buildPager(page, q)
	vm.Menu = buildFilterMenu(tv, q)
	vm.Insights = buildInsights(tv, q)
	return vm
}

func buildPager(page tables.PageResult, q *query.Query) Pager {
	p := Pager{
		Show:    page.ShowPager(),
		HasPrev: page.HasPrev(),
		HasNext: page.HasNext(),
		PrevURL: q.WithPage(tables.ClampPage(page.Page-1, page.TotalPages)),
		NextURL: q.WithPage(tables.ClampPage(page.Page+1, page.TotalPages)),
	}
	if page.TotalRows > 0 {
		p.Summary = fmt.Sprintf("Showing %d to %d of %d entries", page.First, page.Last, page.TotalRows)
	}
	if !p.Show {
		return p
	}
	for n := 1; n <= page.TotalPages; n++ {
		p.Pages = append(p.Pages, PageLink{
			Number:  n,
			URL:     q.WithPage(n),
			Current: n == page.Page,
		})
	}
	return p
}

func buildFilterMenu(tv *tables.TableView, q *query.Query) *FilterMenuModel {
	col, ok := tv.MenuColumn()
	if !ok {
		return nil
	}
	index := tv.Menu().Column
	m := &FilterMenuModel{
		Header:        col.Header,
		TypeLabel:     "Text",
		SortAscLabel:  "Sort A → Z",
		SortDescLabel: "Sort Z → A",
		SortAscURL:    q.WithSort(col.Key, tables.Asc),
		SortDescURL:   q.WithSort(col.Key, tables.Desc),
		FormAction:    safehtml.URLSanitized(q.Path),
		FormState:     q.FormState(col.Key),
		FormColumn:    col.Key,
		SearchValue:   tv.Filter(col.Key),
		Placeholder:   fmt.Sprintf("Search %s...", col.Header),
		HasFilter:     tv.Filter(col.Key) != "",
		ClearURL:      q.WithoutFilterAndMenu(col.Key),
		CloseURL:      q.WithoutMenu(),
	}
	if tv.ColumnType(index) == tables.ColumnNumber {
		m.TypeLabel = "Numeric"
		m.SortAscLabel = "Sort Min → Max"
		m.SortDescLabel = "Sort Max → Min"
	}
	m.Suggestions = valueLinks(tv.MenuSuggestions(), col.Key, q)
	m.QuickSelect = valueLinks(tv.MenuQuickSelect(), col.Key, q)
	return m
}

func valueLinks(vals []values.Value, key string, q *query.Query) []ValueLink {
	links := make([]ValueLink, 0, len(vals))
	for _, v := range vals {
		links = append(links, ValueLink{
			Label: v.String(),
			URL:   q.WithFilter(key, v.String()),
		})
	}
	return links
}

func buildInsights(tv *tables.TableView, q *query.Query) *InsightsModel {
	stats := tv.Insights()
	if stats == nil {
		return nil
	}
	m := &InsightsModel{
		Open:        tv.InsightsPanel(),
		ToggleURL:   q.WithInsightsToggled(),
		ToggleLabel: "Show Details",
	}
	if m.Open {
		m.ToggleLabel = "Hide Details"
	}
	for _, col := range tv.Columns() {
		st, ok := stats[col.Key]
		if !ok {
			continue
		}
		card := InsightCard{
			Header: col.Header,
			Count:  st.Count,
			Unique: st.Unique,
		}
		if st.Type == tables.Numeric {
			card.Numeric = true
			card.Min = tables.FormatFixed(st.Min, 2)
			card.Max = tables.FormatFixed(st.Max, 2)
			card.Mean = tables.FormatFixed(st.Mean, 2)
			card.Median = tables.FormatFixed(st.Median, 2)
		}
		m.Cards = append(m.Cards, card)
	}
	return m
}
