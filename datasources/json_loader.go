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
	"maps"
	"os"
	"slices"

	"github.com/google/esgtable/core/values"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// JSONLoader implements DataSourceLoader for JSON files holding an array of
// flat objects, the shape analytics exports come in. Nested objects and
// arrays are kept as their JSON text. Discovered columns are ordered by key.
//
// Required config keys:
//   - file_path: Path to the JSON file
type JSONLoader struct{}

// NewJSONLoader creates a new JSON loader.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// SourceType returns "json".
func (l *JSONLoader) SourceType() string {
	return "json"
}

// DiscoverSchema collects the keys of every object.
func (l *JSONLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	list, err := l.read(config)
	if err != nil {
		return nil, err
	}
	return schemaFromList(list), nil
}

// Load converts every object into a row.
func (l *JSONLoader) Load(config map[string]string) ([]values.Row, error) {
	list, err := l.read(config)
	if err != nil {
		return nil, err
	}
	return RowsFromList(list)
}

func (l *JSONLoader) read(config map[string]string) (*structpb.ListValue, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ParseJSONRows(data)
}

// ParseJSONRows parses a JSON array document.
func ParseJSONRows(data []byte) (*structpb.ListValue, error) {
	list := &structpb.ListValue{}
	if err := protojson.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("failed to parse JSON rows: %w", err)
	}
	return list, nil
}

// RowsFromList converts a list of JSON objects into rows.
func RowsFromList(list *structpb.ListValue) ([]values.Row, error) {
	rows := make([]values.Row, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		obj := item.GetStructValue()
		if obj == nil {
			return nil, fmt.Errorf("row %d: expected a JSON object", i)
		}
		row := make(values.Row, len(obj.GetFields()))
		for key, v := range obj.GetFields() {
			row[key] = valueFromProto(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func valueFromProto(v *structpb.Value) values.Value {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return values.Number(k.NumberValue)
	case *structpb.Value_StringValue:
		return values.String(k.StringValue)
	case *structpb.Value_BoolValue:
		return values.FromAny(k.BoolValue)
	case *structpb.Value_StructValue, *structpb.Value_ListValue:
		b, err := protojson.Marshal(v)
		if err != nil {
			return values.Null()
		}
		return values.String(string(b))
	default:
		return values.Null()
	}
}

// schemaFromList types a column as a number when it holds at least one JSON
// number and nothing but numbers and nulls.
func schemaFromList(list *structpb.ListValue) *TableSchema {
	numbers := make(map[string]bool)
	other := make(map[string]bool)
	for _, item := range list.GetValues() {
		for key, v := range item.GetStructValue().GetFields() {
			switch v.GetKind().(type) {
			case *structpb.Value_NumberValue:
				numbers[key] = true
			case *structpb.Value_NullValue:
				if !numbers[key] {
					numbers[key] = false
				}
			default:
				other[key] = true
			}
		}
	}

	keys := make(map[string]bool, len(numbers)+len(other))
	maps.Copy(keys, numbers)
	maps.Copy(keys, other)

	schema := &TableSchema{}
	for _, key := range slices.Sorted(maps.Keys(keys)) {
		t := TypeString
		if numbers[key] && !other[key] {
			t = TypeNumber
		}
		schema.Columns = append(schema.Columns, &ColumnSchema{Name: key, Type: t})
	}
	return schema
}
