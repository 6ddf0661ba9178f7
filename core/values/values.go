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

// Package values defines the cell values held by table rows and the loose,
// browser-compatible coercions the table applies to them.
package values

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a scalar cell: null, a number, or a string.
// The zero Value is null. Values are comparable and can be used as map keys,
// see Key for NaN handling.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// FromAny converts a decoded JSON-ish Go value into a Value.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case bool:
		return String(strconv.FormatBool(x))
	default:
		return String(fmt.Sprint(x))
	}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// String renders the value as cell text. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Key returns a value usable as a set member. All NaNs collapse to one key.
func (v Value) Key() Value {
	if v.kind == KindNumber && math.IsNaN(v.num) {
		return Value{kind: KindNumber, str: "NaN"}
	}
	if v.kind == KindNumber && v.num == 0 {
		return Number(0)
	}
	return v
}

// Row maps a column key to a cell. Missing keys read as null.
type Row map[string]Value

// Get returns the cell for key, or null.
func (r Row) Get(key string) Value {
	return r[key]
}

// FormatNumber renders f in shortest round-trip form: plain decimals between
// 1e-6 and 1e21, exponent notation outside, "NaN" and "Infinity" spelled out.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Exponents are not zero padded: 1e-7, not 1e-07.
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)`)
	floatFull   = regexp.MustCompile(`^[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)$`)
)

// ParseFloat reads a number from the start of the value's string form:
// leading whitespace is skipped and the longest numeric prefix is
// parsed. It returns NaN when no prefix is numeric.
func ParseFloat(v Value) float64 {
	if v.kind == KindNumber {
		return v.num
	}
	if v.kind == KindNull {
		return math.NaN()
	}
	s := strings.TrimLeftFunc(v.str, isSpace)
	m := floatPrefix.FindString(s)
	if m == "" {
		return math.NaN()
	}
	return parseLiteral(m)
}

// ToNumber is the strict coercion: the whole trimmed string must be numeric,
// the empty string is 0, and null is 0.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindNull:
		return 0
	}
	s := strings.TrimFunc(v.str, isSpace)
	if s == "" {
		return 0
	}
	if !floatFull.MatchString(s) {
		return math.NaN()
	}
	return parseLiteral(s)
}

// IsNumeric reports whether ParseFloat(v) yields a number.
func IsNumeric(v Value) bool {
	return !math.IsNaN(ParseFloat(v))
}

// IsFiniteNumber reports whether v is a finite number under both ParseFloat
// and ToNumber.
func IsFiniteNumber(v Value) bool {
	if v.kind == KindNull {
		return false
	}
	f := ToNumber(v)
	return IsNumeric(v) && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func parseLiteral(s string) float64 {
	switch strings.TrimLeft(s, "+") {
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// Out of range literals come back as ±Inf alongside ErrRange.
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
