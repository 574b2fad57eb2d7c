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

// Package tagx provides a global, process-wide tag extension resolver.
//
// A tag type is declarative data: named, typed fields and no behavior. A tag
// type may declare that it extends other tag types by carrying instances of
// them as meta-tags on its own declaration. tagx answers two questions about
// a concrete tag value:
//
//   - Is it also an instance of ancestor tag type X? (IsInstanceOf, Is)
//   - What are X's field values as seen through it? (Cast, As)
//
// With the default provider, Go named struct types are tag types:
//
//	type Inheriting struct {
//		Value string `tagx:"value"`
//	}
//
//	func (Inheriting) MetaTags() []any { return []any{Base{}} }
//
//	type Nested struct {
//		Value string `tagx:"value"`
//	}
//
//	func (Nested) MetaTags() []any { return []any{Inheriting{Value: "Test"}} }
//
//	v, err := tagx.As[Inheriting](Nested{Value: "Test3"})
//	s, err := view.Get[string](v, "value") // "Test3"
//
// Every meaningful hierarchy descends from the root marker, Aspect by
// default. Types with no path from the root are not instances of anything.
//
// # Design
//
// The core of tagx is a read-mostly global snapshot (state). The snapshot
// holds:
//
//   - Config: the root marker, reserved namespaces and patterns, the
//     normalization depth for Go values, and the logger.
//
//   - Provider: the source of tag declarations (accessors and meta-tags).
//     The default is the Go reflection provider; hierarchies loaded from
//     documents use a static provider (see provider/document).
//
//   - Registry: the reserved namespace prefixes that discovery skips, for
//     example "runtime" or "golang.org/x". It can be written to at runtime
//     (ReserveNamespace).
//
//   - Resolver: the dependency graph. It discovers hierarchies lazily,
//     merges them into one graph, prunes everything without a path from the
//     root and answers ancestor queries. Reads are lock-free.
//
//   - Builder: a pluggable factory that knows how to construct Registry
//     and Resolver instances for a given Config (and optional extension
//     data).
//
// All of these live inside a single immutable struct called state.
// The package holds an atomic pointer to the current state. Readers load
// that pointer, use it, and never mutate it. Writers build a brand-new
// state and atomically swap it in.
//
// # Global API
//
//  1. Read helpers:
//
//     IsInstanceOf(a, b apis.TypeID) bool
//     FlattenDependencies(t apis.TypeID) apis.TypeSet
//     ResolveDependencies(t apis.TypeID) []apis.Edge
//     Of, TypeOf, TypeFor[T], Is[T]
//     Cast(v, to), As[T](v)
//
//  2. Mutation helpers:
//
//     SetConfig(cfg apis.Config)
//     SetProvider(prov apis.Provider)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetRegistry(reg apis.Registry)
//     SetResolver(res apis.Resolver)
//     ReserveNamespace(prefix string)
//     SetAll(...)
//
//     Each of these acquires an internal build lock, derives a new
//     snapshot (rebuilding or reusing layers as needed), and then
//     atomically publishes that snapshot. A rebuilt resolver starts with
//     an empty graph.
//
// # Pinning
//
// SetRegistry and SetResolver pin the layer they set: further calls to
// SetConfig, SetBuilder or SetExt will not rebuild it until UnpinRegistry or
// UnpinResolver. PinRegistry and PinResolver pin the current layer in place.
//
// # Extension config
//
// The snapshot also carries an "ext" value owned by the embedding binary. The
// active Builder receives it on each rebuild. The default builder understands
// builder.Ext, which adds reserved namespaces and exclusion strategies:
//
//	tagx.SetExt(builder.Ext{Namespaces: []string{"example.com/infra"}})
//
// Other values are ignored by it and remain available through ExtAs.
package tagx
