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

package query

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/google/esgtable/core/tables"
)

func parse(t *testing.T, raw string) *Query {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return NewQuery(u)
}

func TestNewQueryDefaults(t *testing.T) {
	q := parse(t, "/datasets/industry")
	if q.Path != "/datasets/industry" {
		t.Errorf("Expected path /datasets/industry, got %q", q.Path)
	}
	if q.Sort != "" || q.Direction != tables.Asc {
		t.Errorf("Expected no sort, got %q %q", q.Sort, q.Direction)
	}
	if q.Page != 1 {
		t.Errorf("Expected page 1, got %d", q.Page)
	}
	if q.Menu != -1 {
		t.Errorf("Expected closed menu, got %d", q.Menu)
	}
	if len(q.Filters) != 0 || q.InsightsPanel {
		t.Errorf("Expected no filters and hidden insights, got %v %v", q.Filters, q.InsightsPanel)
	}
}

func TestNewQueryParsesState(t *testing.T) {
	q := parse(t, "/datasets/industry?sort=score&dir=desc&page=3&filter%3Aindustry=fin&filter%3Aregion=&menu=2&insights=1")
	want := tables.State{
		Sort:          tables.SortState{Key: "score", Direction: tables.Desc},
		Filters:       tables.Filters{"industry": "fin"},
		Page:          3,
		Menu:          tables.FilterMenu{Column: 2, Open: true},
		InsightsPanel: true,
	}
	if got := q.State(); !reflect.DeepEqual(got, want) {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestNewQueryIgnoresBadNumbers(t *testing.T) {
	q := parse(t, "/d?page=zero&menu=-4")
	if q.Page != 1 || q.Menu != -1 {
		t.Errorf("Expected page 1 and closed menu, got %d and %d", q.Page, q.Menu)
	}
}

func TestRoundTrip(t *testing.T) {
	state := tables.State{
		Sort:          tables.SortState{Key: "score", Direction: tables.Desc},
		Filters:       tables.Filters{"industry": "a,b & c", "region": "EU"},
		Page:          2,
		Menu:          tables.FilterMenu{Column: 1, Open: true},
		InsightsPanel: true,
	}
	q := FromState("/datasets/x", state)
	back := parse(t, q.ToSafeURL().String())
	if got := back.State(); !reflect.DeepEqual(got, state) {
		t.Errorf("round trip = %+v, want %+v", got, state)
	}
}

func TestWithSortToggled(t *testing.T) {
	q := parse(t, "/d?page=3")

	q1 := parse(t, q.WithSortToggled("score").String())
	if q1.Sort != "score" || q1.Direction != tables.Asc || q1.Page != 1 {
		t.Errorf("first click: got %q %q page %d", q1.Sort, q1.Direction, q1.Page)
	}

	q2 := parse(t, q1.WithSortToggled("score").String())
	if q2.Direction != tables.Desc {
		t.Errorf("second click: expected desc, got %q", q2.Direction)
	}

	q3 := parse(t, q2.WithSortToggled("industry").String())
	if q3.Sort != "industry" || q3.Direction != tables.Asc {
		t.Errorf("other column: got %q %q", q3.Sort, q3.Direction)
	}
}

func TestFilterURLs(t *testing.T) {
	q := parse(t, "/d?page=2&menu=0&filter%3Aindustry=tech&filter%3Aregion=eu")

	sel := parse(t, q.WithFilter("industry", "Energy").String())
	if sel.Filters["industry"] != "Energy" || sel.Menu != -1 || sel.Page != 1 {
		t.Errorf("WithFilter: got %+v", sel)
	}

	cleared := parse(t, q.WithoutFilter("industry").String())
	if _, ok := cleared.Filters["industry"]; ok || cleared.Filters["region"] != "eu" {
		t.Errorf("WithoutFilter: got filters %v", cleared.Filters)
	}
	if cleared.Menu != 0 || cleared.Page != 1 {
		t.Errorf("WithoutFilter should keep the menu and reset the page, got menu %d page %d", cleared.Menu, cleared.Page)
	}

	closed := parse(t, q.WithoutFilterAndMenu("industry").String())
	if closed.Menu != -1 {
		t.Errorf("WithoutFilterAndMenu: expected closed menu, got %d", closed.Menu)
	}

	all := parse(t, q.WithoutFilters().String())
	if len(all.Filters) != 0 || all.Page != 1 {
		t.Errorf("WithoutFilters: got %v page %d", all.Filters, all.Page)
	}

	if len(q.Filters) != 2 {
		t.Errorf("builders must not modify the receiver, got %v", q.Filters)
	}
}

func TestMenuAndInsightsURLs(t *testing.T) {
	q := parse(t, "/d")

	open := parse(t, q.WithMenuToggled(1).String())
	if open.Menu != 1 {
		t.Errorf("expected menu 1, got %d", open.Menu)
	}
	switched := parse(t, open.WithMenuToggled(2).String())
	if switched.Menu != 2 {
		t.Errorf("expected menu 2, got %d", switched.Menu)
	}
	closed := parse(t, switched.WithMenuToggled(2).String())
	if closed.Menu != -1 {
		t.Errorf("expected closed menu, got %d", closed.Menu)
	}
	if parse(t, open.WithoutMenu().String()).Menu != -1 {
		t.Error("WithoutMenu should close the menu")
	}

	shown := parse(t, q.WithInsightsToggled().String())
	if !shown.InsightsPanel {
		t.Error("expected insights shown")
	}
	if parse(t, shown.WithInsightsToggled().String()).InsightsPanel {
		t.Error("expected insights hidden")
	}
}

func TestWithPageAndSort(t *testing.T) {
	q := parse(t, "/d?menu=1")
	if got := parse(t, q.WithPage(4).String()).Page; got != 4 {
		t.Errorf("expected page 4, got %d", got)
	}
	s := parse(t, q.WithSort("score", tables.Desc).String())
	if s.Sort != "score" || s.Direction != tables.Desc || s.Menu != -1 {
		t.Errorf("WithSort: got %+v", s)
	}
}

func TestExportURL(t *testing.T) {
	q := parse(t, "/datasets/x?sort=score&dir=asc&page=3&menu=1&insights=1&filter%3Aindustry=fin")
	got := parse(t, q.ExportURL().String())
	if got.Path != "/datasets/x/export.csv" {
		t.Errorf("expected export path, got %q", got.Path)
	}
	if got.Sort != "score" || got.Filters["industry"] != "fin" {
		t.Errorf("export must keep sort and filters, got %+v", got)
	}
	if got.Page != 1 || got.Menu != -1 || got.InsightsPanel {
		t.Errorf("export must drop view-only state, got %+v", got)
	}
}

func TestFormState(t *testing.T) {
	q := parse(t, "/d?sort=score&dir=desc&page=4&menu=0&filter%3Aindustry=fin&filter%3Aregion=eu")
	want := "dir=desc&filter%3Aregion=eu&menu=0&sort=score"
	if got := q.FormState("industry"); got != want {
		t.Errorf("FormState() = %q, want %q", got, want)
	}
}

func TestNewQueryFormSubmission(t *testing.T) {
	orig := parse(t, "/d?sort=score&dir=desc&page=4&menu=0&filter%3Aindustry=fin&filter%3Aregion=eu")

	form := url.Values{}
	form.Set(FormStateParam, orig.FormState("industry"))
	form.Set(FormColumnParam, "industry")
	form.Set(FormValueParam, "tech")
	got := parse(t, "/d?"+form.Encode())

	wantFilters := map[string]string{"industry": "tech", "region": "eu"}
	if !reflect.DeepEqual(got.Filters, wantFilters) {
		t.Errorf("Filters = %v, want %v", got.Filters, wantFilters)
	}
	if got.Sort != "score" || got.Direction != tables.Desc {
		t.Errorf("sort lost: %q %q", got.Sort, got.Direction)
	}
	if got.Page != 1 {
		t.Errorf("Page = %d, want 1", got.Page)
	}
	if got.Menu != 0 {
		t.Errorf("Menu = %d, want the menu kept open", got.Menu)
	}
}

func TestNewQueryFormSubmissionEmptyValueClears(t *testing.T) {
	form := url.Values{}
	form.Set(FormStateParam, "filter%3Aindustry=fin&menu=1")
	form.Set(FormColumnParam, "industry")
	form.Set(FormValueParam, "")
	got := parse(t, "/d?"+form.Encode())
	if len(got.Filters) != 0 {
		t.Errorf("expected filter cleared, got %v", got.Filters)
	}
	if got.Menu != 1 {
		t.Errorf("Menu = %d, want 1", got.Menu)
	}
}
