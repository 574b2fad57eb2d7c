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

// Package testutil provides shared tag hierarchies for tests.
package testutil

import (
	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/config"
	"dirpx.dev/tagx/provider/static"
)

// NS is the namespace of the fixture types.
const NS = "example.com/tags"

// Fixture type identifiers.
var (
	Root        = config.DefaultRoot
	Base        = apis.TypeID{Namespace: NS, Name: "Base"}
	Inheriting  = apis.TypeID{Namespace: NS, Name: "Inheriting"}
	Inheriting2 = apis.TypeID{Namespace: NS, Name: "Inheriting2"}
	Nested      = apis.TypeID{Namespace: NS, Name: "Nested"}
	Multi       = apis.TypeID{Namespace: NS, Name: "Multi"}
	BrokenBase  = apis.TypeID{Namespace: NS, Name: "BrokenBase"}
	Marker      = apis.TypeID{Namespace: "example.com/infra", Name: "Retention"}
)

// Value is the "value() string" accessor signature.
var Value = apis.Signature{Name: "value", Returns: "string"}

// Hierarchy is the standard fixture:
//
//	Aspect <- Base <- Inheriting(value string)
//	Aspect <- Base <- Inheriting2
//	Nested(value string) carries Inheriting(value="Test")
//	Multi carries Inheriting(value="Test2") and Inheriting2
//	BrokenBase carries nothing
//
// Every type also carries an infrastructure Marker meta-tag, which discovery
// must skip once "example.com/infra" is reserved.
type Hierarchy struct {
	Provider *static.Provider
	// Nested is a Nested instance with value "Test3".
	Nested *static.Tag
	// Multi is a Multi instance.
	Multi *static.Tag
	// NestedInheriting is the Inheriting meta-tag attached to Nested.
	NestedInheriting *static.Tag
	// MultiInheriting is the Inheriting meta-tag attached to Multi.
	MultiInheriting *static.Tag
}

// NewHierarchy builds the standard fixture.
func NewHierarchy() *Hierarchy {
	p := static.New(Root)
	p.MustDeclare(static.Decl{ID: Marker})
	marker := p.MustNew(Marker, nil)

	p.MustDeclare(static.Decl{ID: Base, Meta: []apis.Instance{p.MustNew(Root, nil), marker}})
	base := p.MustNew(Base, nil)

	p.MustDeclare(static.Decl{
		ID:     Inheriting,
		Fields: []static.Field{{Name: "value", Type: "string"}},
		Meta:   []apis.Instance{base, marker},
	})
	p.MustDeclare(static.Decl{ID: Inheriting2, Meta: []apis.Instance{base, marker}})

	h := &Hierarchy{Provider: p}
	h.NestedInheriting = p.MustNew(Inheriting, map[string]any{"value": "Test"})
	p.MustDeclare(static.Decl{
		ID:     Nested,
		Fields: []static.Field{{Name: "value", Type: "string"}},
		Meta:   []apis.Instance{h.NestedInheriting, marker},
	})

	h.MultiInheriting = p.MustNew(Inheriting, map[string]any{"value": "Test2"})
	p.MustDeclare(static.Decl{
		ID:   Multi,
		Meta: []apis.Instance{h.MultiInheriting, p.MustNew(Inheriting2, nil), marker},
	})

	p.MustDeclare(static.Decl{ID: BrokenBase, Meta: []apis.Instance{marker}})

	h.Nested = p.MustNew(Nested, map[string]any{"value": "Test3"})
	h.Multi = p.MustNew(Multi, nil)
	return h
}

// Config returns a configuration reserving the fixture's infrastructure namespace.
func Config(opts ...config.Option) apis.Config {
	return config.NewConfig(append([]config.Option{config.WithReservedNamespaces(Marker.Namespace)}, opts...)...)
}
