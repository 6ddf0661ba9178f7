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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/esgtable/core/config"
	"github.com/google/esgtable/core/server"
	"github.com/google/esgtable/core/tables"
	"github.com/google/esgtable/datasources"
	"github.com/google/esgtable/demo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	debug      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "esgtable",
	Short: "Browse, filter and export ESG datasets",
	Long: `esgtable serves ESG datasets as sortable, filterable, paginated tables
with per-column insights and CSV export, and offers the same operations on
the command line.

Without a config file the built-in demo dataset "esg" is available.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if debug {
			zapConfig = zap.NewDevelopmentConfig()
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the datasets over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// viewFlags select the state a non-interactive command applies to a dataset.
type viewFlags struct {
	sort    string
	desc    bool
	filters []string
	page    int
}

func (f *viewFlags) register(cmd *cobra.Command, withPage bool) {
	cmd.Flags().StringVar(&f.sort, "sort", "", "column key to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "column filter as key=substring (repeatable)")
	if withPage {
		cmd.Flags().IntVar(&f.page, "page", 1, "page to show")
	}
}

var (
	showFlags      viewFlags
	showInsights   bool
	exportFlags    viewFlags
	exportOutput   string
	insightsAsJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <dataset>",
	Short: "Print one page of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tv, err := openView(args[0], showFlags)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tv.Title())
		fmt.Fprint(out, tv.ToASCII())
		if showInsights && tv.Insights() != nil {
			fmt.Fprintln(out)
			fmt.Fprint(out, tv.InsightsToASCII())
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <dataset>",
	Short: "Export the filtered, sorted rows of a dataset as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tv, err := openView(args[0], exportFlags)
		if err != nil {
			return err
		}
		if !tv.Exportable() {
			return fmt.Errorf("dataset %q is not exportable", args[0])
		}

		if exportOutput == "-" {
			return tv.ExportCSV(cmd.OutOrStdout())
		}
		path := exportOutput
		if path == "" {
			path = tv.ExportFilename(time.Now())
		}
		if err := writeFile(path, tv.ExportCSV); err != nil {
			return err
		}
		logger.Info("exported dataset",
			zap.String("dataset", args[0]),
			zap.String("file", path),
			zap.Int("rows", len(tv.ExportRows())))
		return nil
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights <dataset>",
	Short: "Print per-column statistics of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tv, err := openView(args[0], viewFlags{})
		if err != nil {
			return err
		}
		if !tv.ShowInsights() {
			return fmt.Errorf("insights are disabled for dataset %q", args[0])
		}
		out := cmd.OutOrStdout()
		if insightsAsJSON {
			body, err := server.InsightsJSON(args[0], tv)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(body))
			return err
		}
		if tv.Insights() == nil {
			fmt.Fprintln(out, "No data available")
			return nil
		}
		fmt.Fprint(out, tv.InsightsToASCII())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")

	showFlags.register(showCmd, true)
	showCmd.Flags().BoolVar(&showInsights, "insights", false, "also print column insights")

	exportFlags.register(exportCmd, false)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout (default {title}_{date}.csv)")

	insightsCmd.Flags().BoolVar(&insightsAsJSON, "json", false, "print as JSON")

	rootCmd.AddCommand(serveCmd, showCmd, exportCmd, insightsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadManager registers the configured datasets, or the demo dataset when
// none are configured.
func loadManager() (*datasources.Manager, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	m := datasources.NewManager()
	if cfg.Apply(m) == 0 {
		if err := demo.Register(m); err != nil {
			return nil, config.Config{}, err
		}
		logger.Debug("no datasets configured, serving the demo dataset")
	}
	return m, cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	m, cfg, err := loadManager()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv, err := server.NewServer(m, logger, server.WithLandingTitle(cfg.Server.Title, cfg.Server.Subtitle))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, addr, cfg.Server.ShutdownTimeout)
}

// openView loads a dataset and applies flags to a fresh view of it.
func openView(name string, flags viewFlags) (*tables.TableView, error) {
	m, _, err := loadManager()
	if err != nil {
		return nil, err
	}
	tv, err := m.NewTableView(name)
	if err != nil {
		return nil, err
	}
	return tv, applyFlags(tv, flags)
}

func applyFlags(tv *tables.TableView, flags viewFlags) error {
	if flags.sort != "" {
		col, ok := tv.GetBaseTable().GetColumn(flags.sort)
		if !ok {
			return fmt.Errorf("unknown column %q", flags.sort)
		}
		if !col.Sortable {
			return fmt.Errorf("column %q is not sortable", flags.sort)
		}
		dir := tables.Asc
		if flags.desc {
			dir = tables.Desc
		}
		tv.SortBy(flags.sort, dir)
	}
	for _, f := range flags.filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q, want key=value", f)
		}
		if _, ok := tv.GetBaseTable().GetColumn(key); !ok {
			return fmt.Errorf("unknown column %q", key)
		}
		tv.SetFilter(key, value)
	}
	if flags.page > 1 {
		tv.SetPage(flags.page)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
