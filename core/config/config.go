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

// Package config loads the application configuration: the HTTP listen
// address and the datasets to serve.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/esgtable/datasources"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Datasets []DatasetConfig

	// Dir is the directory of the config file; relative dataset paths
	// resolve against it.
	Dir string `mapstructure:"-"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Landing page heading.
	Title    string
	Subtitle string
}

// DatasetConfig declares one dataset file.
type DatasetConfig struct {
	Name        string
	Title       string
	Description string
	SourceType  string `mapstructure:"source_type"` // json or csv; inferred from Path when empty
	Path        string
	Delimiter   string

	Exportable   *bool // default true
	ShowInsights *bool `mapstructure:"show_insights"` // default true

	Columns []ColumnConfig
}

// ColumnConfig declares one displayed column.
type ColumnConfig struct {
	Key        string
	Header     string
	Sortable   *bool
	Filterable *bool
	Format     string
}

// Load reads configuration from path (when non-empty) and the environment.
// Env var overrides use prefix ESGTABLE_, e.g. ESGTABLE_SERVER_ADDR.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", "127.0.0.1:8097")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.title", "ESG Dashboard")
	v.SetDefault("server.subtitle", "Environmental, social and governance analytics")

	v.SetEnvPrefix("ESGTABLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		c.Dir = filepath.Dir(abs)
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Datasets))
	for i := range c.Datasets {
		ds := &c.Datasets[i]
		if ds.Name == "" {
			return fmt.Errorf("dataset %d: name is required", i)
		}
		if seen[ds.Name] {
			return fmt.Errorf("dataset %q: duplicate name", ds.Name)
		}
		seen[ds.Name] = true
		if ds.Path == "" {
			return fmt.Errorf("dataset %q: path is required", ds.Name)
		}
		if ds.SourceType == "" {
			ds.SourceType = strings.TrimPrefix(strings.ToLower(filepath.Ext(ds.Path)), ".")
		}
		switch ds.SourceType {
		case "json", "csv":
		default:
			return fmt.Errorf("dataset %q: unsupported source_type %q", ds.Name, ds.SourceType)
		}
	}
	return nil
}

// Sources converts the configured datasets into data source descriptors.
func (c Config) Sources() []*datasources.DataSource {
	sources := make([]*datasources.DataSource, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		source := &datasources.DataSource{
			Name:         ds.Name,
			Title:        ds.Title,
			Description:  ds.Description,
			SourceType:   ds.SourceType,
			Config:       map[string]string{"file_path": ds.Path},
			Exportable:   boolOr(ds.Exportable, true),
			ShowInsights: boolOr(ds.ShowInsights, true),
		}
		if ds.Delimiter != "" {
			source.Config["delimiter"] = ds.Delimiter
		}
		for _, col := range ds.Columns {
			source.Columns = append(source.Columns, datasources.ColumnSpec{
				Key:        col.Key,
				Header:     col.Header,
				Sortable:   col.Sortable,
				Filterable: col.Filterable,
				Format:     col.Format,
			})
		}
		sources = append(sources, source)
	}
	return sources
}

// Apply registers the configured datasets with m and returns how many were
// registered.
func (c Config) Apply(m *datasources.Manager) int {
	if c.Dir != "" {
		m.SetBaseDir(c.Dir)
	}
	sources := c.Sources()
	for _, source := range sources {
		m.AddSource(source)
	}
	return len(sources)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
