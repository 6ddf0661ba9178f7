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
// Package rendering turns view models into HTML pages. Each page template is
// parsed together with layout.html, which supplies the head, styles and foot.
package rendering

import (
	"embed"
	"fmt"
	"io"

	"github.com/google/esgtable/core/views"
	"github.com/google/safehtml/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// TableRenderer executes the embedded page templates. It is safe for
// concurrent use.
type TableRenderer struct {
	table   *template.Template
	landing *template.Template
}

// NewTableRenderer parses the table and landing pages.
func NewTableRenderer() (*TableRenderer, error) {
	fsys := template.TrustedFSFromEmbed(templateFS)

	table, err := parsePage(fsys, "table.html")
	if err != nil {
		return nil, err
	}
	landing, err := parsePage(fsys, "landing.html")
	if err != nil {
		return nil, err
	}
	return &TableRenderer{table: table, landing: landing}, nil
}

func parsePage(fsys template.TrustedFS, page string) (*template.Template, error) {
	t, err := template.New(page).ParseFS(fsys, layoutFile, "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	return t, nil
}

// Render writes the table page for vm.
func (r *TableRenderer) Render(w io.Writer, vm views.TableViewModel) error {
	return r.table.Execute(w, vm)
}

// RenderLanding writes the dataset listing.
func (r *TableRenderer) RenderLanding(w io.Writer, vm views.LandingViewModel) error {
	return r.landing.Execute(w, vm)
}
