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
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/core/values"
)

// Manager handles loading and caching of data sources.
// Source metadata is registered eagerly; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name, plus registration order
	sources map[string]*DataSource
	order   []string

	// Cached tables indexed by source name - populated lazily
	tables map[string]*tables.DataTable

	// Insight caches indexed by source name, shared by every view of a source
	insights map[string]*tables.InsightCache

	// Registered loaders indexed by source_type
	loaders map[string]DataSourceLoader

	// Base directory for resolving relative paths
	baseDir string
}

// NewManager creates a new data source manager with the built-in JSON and
// CSV loaders registered.
func NewManager() *Manager {
	m := &Manager{
		sources:  make(map[string]*DataSource),
		tables:   make(map[string]*tables.DataTable),
		insights: make(map[string]*tables.InsightCache),
		loaders:  make(map[string]DataSourceLoader),
	}
	m.RegisterLoader(NewJSONLoader())
	m.RegisterLoader(NewCsvLoader())
	return m
}

// RegisterLoader registers a data source loader for a specific source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader DataSourceLoader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SetBaseDir sets the base directory for resolving relative paths in config.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers a source for lazy loading. Re-adding a name replaces
// its metadata and drops any cached data.
func (m *Manager) AddSource(source *DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(source)
}

func (m *Manager) addLocked(source *DataSource) {
	if _, ok := m.sources[source.Name]; !ok {
		m.order = append(m.order, source.Name)
	}
	m.sources[source.Name] = source
	delete(m.tables, source.Name)
	m.insights[source.Name] = tables.NewInsightCache()
}

// RegisterTable registers a source whose table is already built, such as
// the demo dataset. No loader is involved.
func (m *Manager) RegisterTable(source *DataSource, table *tables.DataTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(source)
	m.tables[source.Name] = table
}

// GetSourceNames returns all registered source names in registration order.
func (m *Manager) GetSourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// GetSource returns the source metadata for a given name.
// Returns nil if the source is not found.
func (m *Manager) GetSource(name string) *DataSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sources[name]
}

// LoadData loads data for a source by name.
// Returns cached data if already loaded; otherwise loads from the source.
//
// The loading process:
// 1. Loader discovers schema from the data source (column names and types)
// 2. Manager builds the columns from the source's specs, or the schema
// 3. Loader reads the rows
func (m *Manager) LoadData(sourceName string) (*tables.DataTable, error) {
	// Check cache first (with read lock)
	m.mu.RLock()
	if table, ok := m.tables[sourceName]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, sourceName)
	}
	loader, hasLoader := m.loaders[source.SourceType]
	baseDir := m.baseDir
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("%w %q", ErrNoLoader, source.SourceType)
	}

	config := m.resolveConfigPaths(source.Config, baseDir)

	schema, err := loader.DiscoverSchema(config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover schema for source %q: %w", sourceName, err)
	}

	cols, err := BuildColumns(source.Columns, schema)
	if err != nil {
		return nil, fmt.Errorf("invalid columns for source %q: %w", sourceName, err)
	}

	rows, err := loader.Load(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}

	table := tables.NewDataTable(source.displayTitle(), cols, rows)

	m.mu.Lock()
	defer m.mu.Unlock()
	// A concurrent load may have won; keep the first table so views agree.
	if cached, ok := m.tables[sourceName]; ok {
		return cached, nil
	}
	m.tables[sourceName] = table
	return table, nil
}

// NewTableView loads a source and returns a fresh widget instance for it,
// configured with the source's export and insights options.
func (m *Manager) NewTableView(sourceName string) (*tables.TableView, error) {
	table, err := m.LoadData(sourceName)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	source := m.sources[sourceName]
	cache := m.insights[sourceName]
	m.mu.RUnlock()

	return tables.NewTableView(table,
		tables.WithExportable(source.Exportable),
		tables.WithShowInsights(source.ShowInsights),
		tables.WithInsightCache(cache),
	), nil
}

// resolveConfigPaths resolves relative file paths in config to absolute paths.
func (m *Manager) resolveConfigPaths(config map[string]string, baseDir string) map[string]string {
	if baseDir == "" {
		return config
	}

	resolved := make(map[string]string, len(config))
	for k, v := range config {
		if k == "file_path" && v != "" && !filepath.IsAbs(v) {
			resolved[k] = filepath.Join(baseDir, v)
		} else {
			resolved[k] = v
		}
	}
	return resolved
}

// InvalidateCache removes a source from the cache, forcing reload on next access.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, sourceName)
}

// InvalidateAllCaches removes all sources from the cache.
func (m *Manager) InvalidateAllCaches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = make(map[string]*tables.DataTable)
}

// IsLoaded returns whether data for a source is currently cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceName]
	return ok
}

// GetLoadedSources returns names of all currently loaded (cached) sources.
func (m *Manager) GetLoadedSources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tables))
	for _, name := range m.order {
		if _, ok := m.tables[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (s *DataSource) displayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return DefaultHeader(s.Name)
}

// TableFromRows builds a DataTable for source from rows that are already in
// memory, using the same column rules as LoadData.
func TableFromRows(source *DataSource, schema *TableSchema, rows []values.Row) (*tables.DataTable, error) {
	cols, err := BuildColumns(source.Columns, schema)
	if err != nil {
		return nil, fmt.Errorf("invalid columns for source %q: %w", source.Name, err)
	}
	return tables.NewDataTable(source.displayTitle(), cols, rows), nil
}
