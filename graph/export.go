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

package graph

import (
	"dirpx.dev/tagx/apis"
)

// Snapshot is a serializable view of a graph.
type Snapshot struct {
	Root       string         `json:"root" yaml:"root"`
	Generation uint64         `json:"generation" yaml:"generation"`
	Vertices   []string       `json:"vertices" yaml:"vertices"`
	Edges      []SnapshotEdge `json:"edges" yaml:"edges"`
}

// SnapshotEdge is a serializable extension edge.
type SnapshotEdge struct {
	Ancestor   string `json:"ancestor" yaml:"ancestor"`
	Descendant string `json:"descendant" yaml:"descendant"`
}

// Export renders edges as a Snapshot. Vertices are derived from the edges
// plus root, so an empty edge list yields just the root.
func Export(root apis.TypeID, generation uint64, edges []apis.Edge) Snapshot {
	g := New(root)
	for _, e := range edges {
		g.AddEdge(e.Ancestor, e.Descendant)
	}
	s := Snapshot{Root: root.String(), Generation: generation}
	for _, v := range g.Vertices() {
		s.Vertices = append(s.Vertices, v.String())
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, SnapshotEdge{Ancestor: e.Ancestor.String(), Descendant: e.Descendant.String()})
	}
	return s
}
