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
	"io"
	"time"

	"github.com/google/esgtable/core/values"
)

// TableView is one interactive instance of a DataTable: the sort, filters,
// page, open filter menu and insights panel a user has selected. The
// underlying DataTable is shared and never modified. A TableView is not safe
// for concurrent use.
type TableView struct {
	baseTable    *DataTable
	exportable   bool
	showInsights bool

	sort          SortState
	filters       Filters
	page          int
	menu          FilterMenu
	insightsPanel bool
	insightCache  *InsightCache
}

// Option configures a TableView.
type Option func(*TableView)

// WithExportable enables or disables CSV export. Default true.
func WithExportable(exportable bool) Option {
	return func(tv *TableView) { tv.exportable = exportable }
}

// WithShowInsights enables or disables the insights block. Default true.
func WithShowInsights(show bool) Option {
	return func(tv *TableView) { tv.showInsights = show }
}

// WithInsightCache shares an insight cache between views of the same table.
func WithInsightCache(cache *InsightCache) Option {
	return func(tv *TableView) { tv.insightCache = cache }
}

// NewTableView creates a view with no sort, no filters, page 1, the filter
// menu closed and the insights panel hidden.
func NewTableView(baseTable *DataTable, opts ...Option) *TableView {
	tv := &TableView{
		baseTable:    baseTable,
		exportable:   true,
		showInsights: true,
		sort:         SortState{Direction: Asc},
		filters:      make(Filters),
		page:         1,
	}
	for _, opt := range opts {
		opt(tv)
	}
	if tv.insightCache == nil {
		tv.insightCache = NewInsightCache()
	}
	return tv
}

// GetBaseTable returns the underlying immutable DataTable.
func (tv *TableView) GetBaseTable() *DataTable {
	return tv.baseTable
}

func (tv *TableView) Title() string       { return tv.baseTable.Title() }
func (tv *TableView) Columns() []Column   { return tv.baseTable.Columns() }
func (tv *TableView) Exportable() bool    { return tv.exportable }
func (tv *TableView) ShowInsights() bool  { return tv.showInsights }
func (tv *TableView) Sort() SortState     { return tv.sort }
func (tv *TableView) Page() int           { return tv.page }
func (tv *TableView) Menu() FilterMenu    { return tv.menu }
func (tv *TableView) InsightsPanel() bool { return tv.insightsPanel }

// Filters returns a copy of the active filters.
func (tv *TableView) Filters() Filters {
	return tv.filters.Clone()
}

// Filter returns the query for key, or "".
func (tv *TableView) Filter(key string) string {
	return tv.filters[key]
}

// ActiveFilterCount returns how many columns are filtered.
func (tv *TableView) ActiveFilterCount() int {
	return tv.filters.Active()
}

// ToggleSort handles a click on a column header. Columns that are unknown or
// not sortable are ignored.
func (tv *TableView) ToggleSort(key string) {
	col, ok := tv.baseTable.GetColumn(key)
	if !ok || !col.Sortable {
		return
	}
	tv.sort = tv.sort.Toggle(key)
	tv.page = 1
}

// SortBy applies an explicit sort from the filter menu and closes the menu.
func (tv *TableView) SortBy(key string, dir Direction) {
	if _, ok := tv.baseTable.GetColumn(key); !ok {
		return
	}
	tv.sort = SortState{Key: key, Direction: dir}
	tv.page = 1
	tv.menu = FilterMenu{}
}

// ClearSort restores input order.
func (tv *TableView) ClearSort() {
	tv.sort = SortState{Direction: Asc}
	tv.page = 1
}

// SetFilter sets key's substring query. An empty query removes the filter.
func (tv *TableView) SetFilter(key, query string) {
	if query == "" {
		delete(tv.filters, key)
	} else {
		tv.filters[key] = query
	}
	tv.page = 1
}

// ClearFilter removes key's filter only.
func (tv *TableView) ClearFilter(key string) {
	delete(tv.filters, key)
	tv.page = 1
}

// ClearFilters removes every filter.
func (tv *TableView) ClearFilters() {
	tv.filters = make(Filters)
	tv.page = 1
}

// TotalPages returns the page count of the filtered rows.
func (tv *TableView) TotalPages() int {
	return TotalPages(len(tv.FilteredRows()), PageSize)
}

// SetPage jumps to page, clamped to the available pages.
func (tv *TableView) SetPage(page int) {
	tv.page = ClampPage(page, tv.TotalPages())
}

func (tv *TableView) NextPage() {
	tv.SetPage(tv.page + 1)
}

func (tv *TableView) PrevPage() {
	tv.SetPage(tv.page - 1)
}

// ToggleFilterMenu handles a click on column index's filter icon.
// Columns that are out of range or not filterable are ignored.
func (tv *TableView) ToggleFilterMenu(index int) {
	cols := tv.baseTable.Columns()
	if index < 0 || index >= len(cols) || !cols[index].Filterable {
		return
	}
	tv.menu = tv.menu.Toggle(index)
}

func (tv *TableView) CloseFilterMenu() {
	tv.menu = FilterMenu{}
}

// HandleOutsideClick closes the menu when a click lands outside both the
// menu and its anchor icon.
func (tv *TableView) HandleOutsideClick(inMenu, inAnchor bool) {
	if tv.menu.ShouldClose(inMenu, inAnchor) {
		tv.menu = FilterMenu{}
	}
}

// MenuColumn returns the column of the open filter menu.
func (tv *TableView) MenuColumn() (Column, bool) {
	if !tv.menu.Open {
		return Column{}, false
	}
	return tv.baseTable.Columns()[tv.menu.Column], true
}

// SelectValue filters column index to exactly value and closes the menu.
func (tv *TableView) SelectValue(index int, value string) {
	cols := tv.baseTable.Columns()
	if index < 0 || index >= len(cols) {
		return
	}
	tv.SetFilter(cols[index].Key, value)
	tv.menu = FilterMenu{}
}

// ColumnType returns the filter menu type of column index.
func (tv *TableView) ColumnType(index int) ColumnType {
	cols := tv.baseTable.Columns()
	if index < 0 || index >= len(cols) {
		return ColumnText
	}
	return DetectColumnType(tv.baseTable.Rows(), cols[index].Key)
}

// MenuSuggestions returns the live suggestions for the open menu, drawn from
// the full unfiltered dataset.
func (tv *TableView) MenuSuggestions() []values.Value {
	col, ok := tv.MenuColumn()
	if !ok {
		return nil
	}
	return Suggestions(tv.baseTable.Rows(), col.Key, tv.filters[col.Key])
}

// MenuQuickSelect returns the quick select values for the open menu.
func (tv *TableView) MenuQuickSelect() []values.Value {
	col, ok := tv.MenuColumn()
	if !ok {
		return nil
	}
	return QuickSelect(tv.baseTable.Rows(), col.Key)
}

func (tv *TableView) ToggleInsightsPanel() {
	tv.insightsPanel = !tv.insightsPanel
}

func (tv *TableView) SetInsightsPanel(open bool) {
	tv.insightsPanel = open
}

// FilteredRows returns the rows passing every filter, in input order.
func (tv *TableView) FilteredRows() []values.Row {
	return ApplyFilters(tv.baseTable.Rows(), tv.filters)
}

// SortedRows returns the filtered rows in sort order.
func (tv *TableView) SortedRows() []values.Row {
	return ApplySort(tv.FilteredRows(), tv.sort)
}

// CurrentPage returns the rows displayed on the current page.
func (tv *TableView) CurrentPage() PageResult {
	return Paginate(tv.SortedRows(), tv.page, PageSize)
}

// Insights returns the per-column statistics of the full dataset, or nil when
// insights are disabled or there is no data. Computation does not depend on
// whether the panel is open.
func (tv *TableView) Insights() map[string]Insight {
	if !tv.showInsights || tv.baseTable.Length() == 0 {
		return nil
	}
	return tv.insightCache.Get(tv.baseTable.Rows(), tv.baseTable.Columns())
}

// ExportRows returns what ExportCSV writes: the filtered, sorted view.
func (tv *TableView) ExportRows() []values.Row {
	return tv.SortedRows()
}

// ExportCSV writes the filtered, sorted view as CSV.
func (tv *TableView) ExportCSV(w io.Writer) error {
	return ExportCSV(w, tv.ExportRows(), tv.baseTable.Columns())
}

// ExportFilename returns the download name for an export made at now.
func (tv *TableView) ExportFilename(now time.Time) string {
	return ExportFilename(tv.baseTable.Title(), now)
}

// State is a snapshot of a TableView's interaction state.
type State struct {
	Sort          SortState
	Filters       Filters
	Page          int
	Menu          FilterMenu
	InsightsPanel bool
}

// State returns a snapshot of the current interaction state.
func (tv *TableView) State() State {
	return State{
		Sort:          tv.sort,
		Filters:       tv.filters.Clone(),
		Page:          tv.page,
		Menu:          tv.menu,
		InsightsPanel: tv.insightsPanel,
	}
}

// Restore replaces the interaction state with s, for example one decoded
// from a URL. Unknown sort keys, empty filters, filters on unknown columns
// and menus on columns that cannot be filtered are dropped, and the page is
// clamped.
func (tv *TableView) Restore(s State) {
	tv.ClearSort()
	if _, ok := tv.baseTable.GetColumn(s.Sort.Key); ok {
		tv.sort = SortState{Key: s.Sort.Key, Direction: ParseDirection(string(s.Sort.Direction))}
	}

	tv.filters = make(Filters, len(s.Filters))
	for k, q := range s.Filters {
		if _, ok := tv.baseTable.GetColumn(k); ok && q != "" {
			tv.filters[k] = q
		}
	}

	tv.menu = FilterMenu{}
	cols := tv.baseTable.Columns()
	if s.Menu.Open && s.Menu.Column >= 0 && s.Menu.Column < len(cols) && cols[s.Menu.Column].Filterable {
		tv.menu = s.Menu
	}

	tv.SetInsightsPanel(s.InsightsPanel)
	tv.page = 1
	tv.SetPage(s.Page)
}
