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

package apis

import (
	"slices"
	"strings"
)

// TypeID identifies a tag type by namespace (a slash path, typically a Go
// package path) and name.
type TypeID struct {
	// Namespace is the declaring namespace, e.g. "dirpx.dev/tagx".
	Namespace string
	// Name is the type name within the namespace, e.g. "Aspect".
	Name string
}

// String renders the TypeID as "namespace.Name", or just "Name" for an empty namespace.
func (id TypeID) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "." + id.Name
}

// IsZero reports whether id is the zero TypeID.
func (id TypeID) IsZero() bool {
	return id.Namespace == "" && id.Name == ""
}

// ParseTypeID parses "namespace.Name". The name starts after the last '.'
// that follows the last '/', so "example.com/tags.Base" and "example.com.Base"
// both yield the name "Base".
func ParseTypeID(s string) (TypeID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeID{}, ErrInvalidTypeID
	}
	tail := strings.LastIndexByte(s, '/')
	dot := strings.LastIndexByte(s[tail+1:], '.')
	if dot < 0 {
		if tail >= 0 {
			return TypeID{}, ErrInvalidTypeID
		}
		return TypeID{Name: s}, nil
	}
	dot += tail + 1
	id := TypeID{Namespace: s[:dot], Name: s[dot+1:]}
	if id.Namespace == "" || id.Name == "" {
		return TypeID{}, ErrInvalidTypeID
	}
	return id, nil
}

// MustParseTypeID is like ParseTypeID but panics on error.
func MustParseTypeID(s string) TypeID {
	id, err := ParseTypeID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Signature describes an accessor structurally: two signatures match when
// their names, return type names and ordered parameter type names are equal.
// Nominal identity of the declaring type is irrelevant.
type Signature struct {
	// Name of the accessor.
	Name string
	// Returns is the canonical name of the returned type (e.g. "string").
	Returns string
	// Params are the canonical names of the parameter types, in order.
	Params []string
}

// Key returns a comparable form of s suitable as a map key.
func (s Signature) Key() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(s.Params, ","))
	b.WriteByte(')')
	b.WriteString(s.Returns)
	return b.String()
}

// String renders s as "name(p1, p2) returns".
func (s Signature) String() string {
	return s.Name + "(" + strings.Join(s.Params, ", ") + ") " + s.Returns
}

// Matches reports whether s and o are structurally equal.
func (s Signature) Matches(o Signature) bool {
	return s.Name == o.Name && s.Returns == o.Returns && slices.Equal(s.Params, o.Params)
}

// Edge is an extension edge: Descendant carries Ancestor as a meta-tag.
type Edge struct {
	Ancestor   TypeID
	Descendant TypeID
}

// String renders e as "ancestor -> descendant".
func (e Edge) String() string {
	return e.Ancestor.String() + " -> " + e.Descendant.String()
}

// Instance is a concrete tag value.
type Instance interface {
	// Type returns the tag type of this instance.
	Type() TypeID
	// Invoke produces the value of the accessor described by sig.
	Invoke(sig Signature, args ...any) (any, error)
}

// AccessorFunc is a computed accessor value. Providers that store plain values
// call it with the invocation arguments instead of returning it.
type AccessorFunc func(args ...any) (any, error)

// Namer lets a Go tag type choose its own TypeID name instead of the Go type name.
type Namer interface {
	// TagName returns a stable, non-empty, type-level name.
	TagName() string
}

// MetaTagger is implemented by Go tag types that extend other tag types.
// MetaTags is called on the zero value and must not depend on instance state.
type MetaTagger interface {
	MetaTags() []any
}
