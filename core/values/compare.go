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

package values

import (
	"math"
	"strings"
)

// Compare orders two values for sorting.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
//
// Nulls sort first. Numbers and strings holding a finite number share one
// rank and compare numerically, so 80 sorts after "60". Other strings sort
// last, bytewise. Numeric ties put the number before the string, which keeps
// the order total.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumeric:
		if c := compareFloat64s(ToNumber(a), ToNumber(b)); c != 0 {
			return c
		}
		if a.kind != b.kind {
			if a.kind == KindNumber {
				return -1
			}
			return 1
		}
		return strings.Compare(a.str, b.str)
	case rankText:
		return strings.Compare(a.str, b.str)
	default:
		return 0
	}
}

const (
	rankNull = iota
	rankNumeric
	rankText
)

func rank(v Value) int {
	switch {
	case v.kind == KindNull:
		return rankNull
	case v.kind == KindNumber, IsFiniteNumber(v):
		return rankNumeric
	default:
		return rankText
	}
}

// compareFloat64s compares two float64 values with NaN handling.
// NaN values are considered greater than all other values (sort to end).
func compareFloat64s(a, b float64) int {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)

	if aNaN && bNaN {
		return 0
	}
	if aNaN {
		return 1
	}
	if bNaN {
		return -1
	}

	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
