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

package reflect

import (
	"errors"
	"reflect"
	"strings"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectNotTag indicates that the provided type (after unwrapping
	// pointers) is not a named struct type and cannot act as a tag type.
	ErrReflectNotTag = errors.New("reflect: type is not a named struct")
)

// Normalize unwraps pointers according to cfg.MaxUnwrap and returns the
// underlying named struct type, or an error if there is none.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; t.Kind() == reflect.Pointer && i < maxUnwrap; i++ {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil, ErrReflectNotTag
	}
	return t, nil
}

// NormalizeValue dereferences v the same way Normalize unwraps its type.
// Nil pointers yield the zero value of the named struct type.
func NormalizeValue(v reflect.Value, cfg apis.Config) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, ErrReflectNilType
	}
	nt, err := Normalize(v.Type(), cfg)
	if err != nil {
		return reflect.Value{}, err
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(nt), nil
		}
		v = v.Elem()
	}
	return v, nil
}

// TypeID derives the tag TypeID of a normalized type: its package path and
// its name without generic instantiation parameters. A value implementing
// apis.Namer on its zero value overrides the name.
func TypeID(t reflect.Type) apis.TypeID {
	name := stripTypeParams(t.Name())
	if n, ok := reflect.Zero(t).Interface().(apis.Namer); ok {
		if tn := n.TagName(); tn != "" {
			name = tn
		}
	}
	return apis.TypeID{Namespace: t.PkgPath(), Name: name}
}

// TypeName returns the canonical type name used in accessor signatures.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
