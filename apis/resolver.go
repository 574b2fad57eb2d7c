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

// Resolver maintains the dependency graph of tag types rooted at the root
// marker and answers ancestor queries against it. Read queries on already
// resolved types must be safe for concurrent use.
type Resolver interface {
	// Root returns the root marker.
	Root() TypeID
	// Provider returns the metadata provider the graph is discovered from.
	Provider() Provider
	// ResolveDependencies returns every edge on any path from the root to t.
	ResolveDependencies(t TypeID) []Edge
	// FlattenDependencies returns every ancestor of t, excluding t itself.
	FlattenDependencies(t TypeID) TypeSet
	// IsInstanceOf reports whether b is an ancestor of a.
	IsInstanceOf(a, b TypeID) bool
	// Levels returns the ancestor priority levels of t.
	Levels(t TypeID) [][]TypeID
	// ShortestPath returns the shortest directed path from one type to another.
	ShortestPath(from, to TypeID) ([]Edge, bool)
	// Edges returns every edge of the current graph generation.
	Edges() []Edge
	// Generation returns the id of the current graph generation.
	Generation() uint64
}
