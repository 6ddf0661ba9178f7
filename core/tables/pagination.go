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
	"github.com/google/esgtable/core/values"
)

// PageResult is one page of rows plus the numbers the pager displays.
type PageResult struct {
	Rows       []values.Row
	Page       int
	TotalPages int
	TotalRows  int
	// First and Last are the 1-indexed bounds of "Showing First to Last of
	// TotalRows entries". Both are 0 when the page is empty.
	First int
	Last  int
}

// TotalPages returns ceil(totalRows/pageSize), never less than 1.
func TotalPages(totalRows, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	pages := (totalRows + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage clamps page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate slices out the 1-indexed page of rows. Pages past the end are empty.
func Paginate(rows []values.Row, page, pageSize int) PageResult {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	res := PageResult{
		Page:       page,
		TotalPages: TotalPages(len(rows), pageSize),
		TotalRows:  len(rows),
	}
	if page < 1 {
		return res
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return res
	}
	end := min(start+pageSize, len(rows))
	res.Rows = rows[start:end]
	res.First = start + 1
	res.Last = end
	return res
}

// ShowPager reports whether pagination controls should be rendered.
func (p PageResult) ShowPager() bool {
	return p.TotalPages > 1
}

// HasPrev reports whether a previous page exists.
func (p PageResult) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a next page exists.
func (p PageResult) HasNext() bool {
	return p.Page < p.TotalPages
}
