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

// Package server serves datasets as interactive HTML tables, CSV downloads
// and JSON insights.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/url"
	"time"

	"github.com/google/esgtable/core/query"
	"github.com/google/esgtable/core/rendering"
	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/core/values"
	"github.com/google/esgtable/core/views"
	"github.com/google/esgtable/datasources"
	"github.com/google/safehtml"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// pageRenderer is satisfied by *rendering.TableRenderer.
type pageRenderer interface {
	Render(w io.Writer, vm views.TableViewModel) error
	RenderLanding(w io.Writer, vm views.LandingViewModel) error
}

// Server represents the application server with all its dependencies
type Server struct {
	manager  *datasources.Manager
	renderer pageRenderer
	logger   *zap.Logger

	title    string
	subtitle string
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLandingTitle sets the landing page heading.
func WithLandingTitle(title, subtitle string) Option {
	return func(s *Server) {
		s.title = title
		s.subtitle = subtitle
	}
}

// WithClock overrides the clock used for export filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a new server over the datasets registered in manager
func NewServer(manager *datasources.Manager, logger *zap.Logger, opts ...Option) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		manager:  manager,
		renderer: renderer,
		logger:   logger,
		title:    "ESG Dashboard",
		subtitle: "Environmental, social and governance analytics",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TableHandlerResult represents the result of handling a table request
type TableHandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

// TimingCollector collects timing measurements for various operations
type TimingCollector struct {
	fields []zap.Field
	start  time.Time
}

// NewTimingCollector creates a new timing collector
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{start: time.Now()}
}

// Record records a timing entry
func (tc *TimingCollector) Record(operation string, duration time.Duration) {
	tc.fields = append(tc.fields, zap.Duration(operation, duration))
}

// Fields returns every entry plus the total elapsed time as log fields.
func (tc *TimingCollector) Fields() []zap.Field {
	return append(tc.fields, zap.Duration("total", time.Since(tc.start)))
}

// restoreView builds a fresh widget for the named dataset and replays the
// state encoded in requestURL onto it. The returned Query encodes the
// sanitized state, so every link built from it is valid for this dataset.
func (s *Server) restoreView(name string, requestURL *url.URL) (*tables.TableView, *query.Query, *TableHandlerResult) {
	tableView, err := s.manager.NewTableView(name)
	if errors.Is(err, datasources.ErrUnknownSource) {
		return nil, nil, &TableHandlerResult{StatusCode: 404, Message: fmt.Sprintf("Dataset '%s' not found", name)}
	}
	if err != nil {
		s.logger.Error("failed to load dataset", zap.String("dataset", name), zap.Error(err))
		return nil, nil, &TableHandlerResult{StatusCode: 500, Message: "Failed to load dataset", Error: err}
	}

	q := query.NewQuery(requestURL)
	tableView.Restore(q.State())
	return tableView, query.FromState(q.Path, tableView.State()), nil
}

// HandleTableRequest processes a table request and writes the response
// Returns an error result if the request is invalid, nil on success
func (s *Server) HandleTableRequest(w io.Writer, requestURL *url.URL, name string, setHeader func(key, value string)) *TableHandlerResult {
	timing := NewTimingCollector()

	restoreStart := time.Now()
	tableView, q, result := s.restoreView(name, requestURL)
	if result != nil {
		return result
	}
	timing.Record("restore", time.Since(restoreStart))

	vmStart := time.Now()
	viewModel := views.BuildViewModel(tableView, q, s.manager.GetSource(name).Description)
	timing.Record("view_model", time.Since(vmStart))

	setHeader("Content-Type", "text/html; charset=utf-8")
	renderStart := time.Now()
	if err := s.renderer.Render(w, viewModel); err != nil {
		// The renderer may have already written part of the page.
		s.logger.Error("template rendering error", zap.String("dataset", name), zap.Error(err))
		return &TableHandlerResult{Error: err}
	}
	timing.Record("render", time.Since(renderStart))

	s.logger.Debug("rendered table", append([]zap.Field{zap.String("dataset", name)}, timing.Fields()...)...)
	return nil
}

// HandleExportRequest writes the filtered, sorted rows of a dataset as CSV.
func (s *Server) HandleExportRequest(w io.Writer, requestURL *url.URL, name string, setHeader func(key, value string)) *TableHandlerResult {
	tableView, _, result := s.restoreView(name, requestURL)
	if result != nil {
		return result
	}
	if !tableView.Exportable() {
		return &TableHandlerResult{StatusCode: 404, Message: fmt.Sprintf("Dataset '%s' is not exportable", name)}
	}

	filename := tableView.ExportFilename(s.now())
	setHeader("Content-Type", "text/csv; charset=utf-8")
	setHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if err := tableView.ExportCSV(w); err != nil {
		s.logger.Error("export failed", zap.String("dataset", name), zap.Error(err))
		return &TableHandlerResult{Error: err}
	}
	return nil
}

// HandleInsightsRequest writes a dataset's column insights as JSON.
func (s *Server) HandleInsightsRequest(w io.Writer, requestURL *url.URL, name string, setHeader func(key, value string)) *TableHandlerResult {
	tableView, _, result := s.restoreView(name, requestURL)
	if result != nil {
		return result
	}
	if !tableView.ShowInsights() {
		return &TableHandlerResult{StatusCode: 404, Message: fmt.Sprintf("Insights are disabled for dataset '%s'", name)}
	}

	body, err := InsightsJSON(name, tableView)
	if err != nil {
		s.logger.Error("failed to encode insights", zap.String("dataset", name), zap.Error(err))
		return &TableHandlerResult{StatusCode: 500, Message: "Failed to encode insights", Error: err}
	}
	setHeader("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		return &TableHandlerResult{Error: err}
	}
	return nil
}

// InsightsJSON encodes the insights of tv's dataset, one entry per column in
// display order.
func InsightsJSON(name string, tv *tables.TableView) ([]byte, error) {
	stats := tv.Insights()
	cols := []any{}
	for _, col := range tv.Columns() {
		st, ok := stats[col.Key]
		if !ok {
			continue
		}
		entry := map[string]any{
			"key":    col.Key,
			"header": col.Header,
			"type":   string(st.Type),
			"count":  st.Count,
			"unique": st.Unique,
		}
		if st.Type == tables.Numeric {
			entry["min"] = jsonNumber(st.Min)
			entry["max"] = jsonNumber(st.Max)
			entry["mean"] = jsonNumber(st.Mean)
			entry["median"] = jsonNumber(st.Median)
		}
		cols = append(cols, entry)
	}

	doc, err := structpb.NewStruct(map[string]any{
		"dataset": name,
		"title":   tv.Title(),
		"rows":    tv.GetBaseTable().Length(),
		"columns": cols,
	})
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(doc)
}

// jsonNumber keeps non-finite values representable in JSON.
func jsonNumber(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return values.FormatNumber(f)
	}
	return f
}

// HandleLandingRequest processes the landing page request. The page is
// buffered, so a rendering failure is reported before anything is written.
func (s *Server) HandleLandingRequest(w io.Writer, setHeader func(key, value string)) *TableHandlerResult {
	vm := views.LandingViewModel{
		Title:    s.title,
		Subtitle: s.subtitle,
	}

	for _, name := range s.manager.GetSourceNames() {
		table, err := s.manager.LoadData(name)
		if err != nil {
			s.logger.Warn("skipping dataset on landing page", zap.String("dataset", name), zap.Error(err))
			continue
		}
		vm.Datasets = append(vm.Datasets, views.DatasetInfo{
			Name:        name,
			Title:       table.Title(),
			Description: s.manager.GetSource(name).Description,
			URL:         safehtml.URLSanitized(DatasetPath(name)),
			RecordCount: table.Length(),
			ColumnCount: len(table.Columns()),
		})
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderLanding(&buf, vm); err != nil {
		s.logger.Error("landing page rendering error", zap.Error(err))
		return &TableHandlerResult{StatusCode: 500, Message: "Failed to render landing page", Error: err}
	}
	setHeader("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &TableHandlerResult{Error: err}
	}
	return nil
}

// DatasetPath returns the table page path of a dataset.
func DatasetPath(name string) string {
	return "/datasets/" + url.PathEscape(name)
}
