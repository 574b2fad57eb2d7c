/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package document

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnsupportedFormat is returned for files with an unknown extension.
	ErrUnsupportedFormat = errors.New("tagx(document): unsupported file format")
	// ErrUnsupportedFieldType is returned for field types outside the supported set.
	ErrUnsupportedFieldType = errors.New("tagx(document): unsupported field type")
	// ErrInvalidValue is returned when a value cannot be coerced to its field type.
	ErrInvalidValue = errors.New("tagx(document): invalid value")
	// ErrDuplicateInstance is returned when two documents name the same instance.
	ErrDuplicateInstance = errors.New("tagx(document): duplicate instance")
	// ErrUnknownInstance is returned by Set.Instance for undefined names.
	ErrUnknownInstance = errors.New("tagx(document): unknown instance")
)

// File is the decoded form of one hierarchy document.
type File struct {
	Types     []TypeDecl              `yaml:"types" json:"types"`
	Instances map[string]InstanceDecl `yaml:"instances" json:"instances"`
}

// TypeDecl declares one tag type.
type TypeDecl struct {
	Type   string         `yaml:"type" json:"type"`
	Fields []FieldDecl    `yaml:"fields" json:"fields"`
	Meta   []InstanceDecl `yaml:"meta" json:"meta"`
}

// FieldDecl declares one field accessor.
type FieldDecl struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Default any    `yaml:"default" json:"default"`
}

// InstanceDecl describes a tag instance: a meta-tag or a named instance.
type InstanceDecl struct {
	Type   string         `yaml:"type" json:"type"`
	Values map[string]any `yaml:"values" json:"values"`
}

// fieldTypes maps accepted type spellings to canonical accessor return types.
var fieldTypes = map[string]string{
	"string":       "string",
	"bool":         "bool",
	"int":          "int",
	"int64":        "int64",
	"float64":      "float64",
	"number":       "float64",
	"[]string":     "[]string",
	"list(string)": "[]string",
}

// FieldType returns the canonical return type name of a field type spelling.
func FieldType(s string) (string, error) {
	if t, ok := fieldTypes[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFieldType, s)
}

// Coerce converts a decoded value to the Go representation of the canonical
// field type typ. YAML yields ints, JSON and HCL yield float64 numbers, so
// integral floats are accepted for integer fields.
func Coerce(typ string, v any) (any, error) {
	bad := func() (any, error) {
		return nil, fmt.Errorf("%w: %v (%T) is not a %s", ErrInvalidValue, v, v, typ)
	}
	switch typ {
	case "string":
		if s, ok := v.(string); ok {
			return s, nil
		}
	case "bool":
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case "int", "int64":
		var n int64
		switch x := v.(type) {
		case int:
			n = int64(x)
		case int64:
			n = x
		case float64:
			if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
				return bad()
			}
			n = int64(x)
		default:
			return bad()
		}
		if typ == "int" {
			return int(n), nil
		}
		return n, nil
	case "float64":
		switch x := v.(type) {
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case float64:
			return x, nil
		}
	case "[]string":
		switch x := v.(type) {
		case []string:
			return append([]string(nil), x...), nil
		case []any:
			out := make([]string, 0, len(x))
			for _, e := range x {
				s, ok := e.(string)
				if !ok {
					return bad()
				}
				out = append(out, s)
			}
			return out, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFieldType, typ)
	}
	return bad()
}
