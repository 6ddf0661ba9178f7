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
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/esgtable/core/values"
)

// InsightType classifies a column's summary.
type InsightType string

const (
	Numeric     InsightType = "numeric"
	Categorical InsightType = "categorical"
)

// Insight summarizes the non-null raw values of one column.
// Min, Max, Mean and Median are only meaningful for Numeric columns.
type Insight struct {
	Type   InsightType
	Count  int
	Unique int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// ComputeInsights summarizes every column that has at least one non-null
// value. It reads the raw field by column key and ignores accessors.
//
// A column is numeric when any of its values parses as a float; min, max,
// mean and median are then taken over those values only. Median is the
// element at index n/2 of the sorted numeric values, the upper middle for
// even n.
func ComputeInsights(rows []values.Row, columns []Column) map[string]Insight {
	stats := make(map[string]Insight, len(columns))
	for _, col := range columns {
		var present []values.Value
		for _, row := range rows {
			if v := col.Raw(row); !v.IsNull() {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}

		unique := make(map[values.Value]struct{}, len(present))
		numbers := make([]float64, 0, len(present))
		for _, v := range present {
			unique[v.Key()] = struct{}{}
			if f := values.ParseFloat(v); !math.IsNaN(f) {
				numbers = append(numbers, f)
			}
		}

		if len(numbers) == 0 {
			stats[col.Key] = Insight{
				Type:   Categorical,
				Count:  len(present),
				Unique: len(unique),
			}
			continue
		}

		sorted := slices.Clone(numbers)
		slices.Sort(sorted)
		sum := 0.0
		for _, f := range numbers {
			sum += f
		}
		stats[col.Key] = Insight{
			Type:   Numeric,
			Count:  len(present),
			Unique: len(unique),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Mean:   sum / float64(len(numbers)),
			Median: sorted[len(sorted)/2],
		}
	}
	return stats
}

// InsightCache memoizes ComputeInsights on a fingerprint of the inputs.
// It is safe for concurrent use.
type InsightCache struct {
	mu          sync.Mutex
	fingerprint uint64
	valid       bool
	stats       map[string]Insight
	computes    int
}

// NewInsightCache returns an empty cache.
func NewInsightCache() *InsightCache {
	return &InsightCache{}
}

// Get returns the insights for rows and columns, recomputing only when the
// fingerprint differs from the cached one.
func (c *InsightCache) Get(rows []values.Row, columns []Column) map[string]Insight {
	fp := Fingerprint(rows, columns)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.fingerprint == fp {
		return c.stats
	}
	c.stats = ComputeInsights(rows, columns)
	c.fingerprint = fp
	c.valid = true
	c.computes++
	return c.stats
}

// Computes returns how many times the cache recomputed.
func (c *InsightCache) Computes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computes
}

// Fingerprint hashes the column keys and every row's raw value under those
// keys, which is everything ComputeInsights reads.
func Fingerprint(rows []values.Row, columns []Column) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		d.Write(buf[:])
	}

	writeInt(len(columns))
	for _, col := range columns {
		writeInt(len(col.Key))
		d.WriteString(col.Key)
	}
	writeInt(len(rows))
	for _, row := range rows {
		for _, col := range columns {
			v := row.Get(col.Key)
			d.Write([]byte{byte(v.Kind())})
			switch v.Kind() {
			case values.KindNumber:
				f, _ := v.Num()
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
				d.Write(buf[:])
			case values.KindString:
				s, _ := v.Str()
				writeInt(len(s))
				d.WriteString(s)
			}
		}
	}
	return d.Sum64()
}
