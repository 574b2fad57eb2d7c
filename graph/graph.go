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

// Graph is a directed graph of tag types.
type Graph struct {
	out map[apis.TypeID]apis.TypeSet
	in  map[apis.TypeID]apis.TypeSet
}

// New creates an empty graph holding the given vertices.
func New(vertices ...apis.TypeID) *Graph {
	g := &Graph{
		out: make(map[apis.TypeID]apis.TypeSet),
		in:  make(map[apis.TypeID]apis.TypeSet),
	}
	for _, v := range vertices {
		g.AddVertex(v)
	}
	return g
}

// AddVertex adds v. It reports whether v was new.
func (g *Graph) AddVertex(v apis.TypeID) bool {
	if _, ok := g.out[v]; ok {
		return false
	}
	g.out[v] = apis.NewTypeSet()
	g.in[v] = apis.NewTypeSet()
	return true
}

// AddEdge adds the edge ancestor -> descendant, adding missing vertices.
// It reports whether the edge was new. Self-loops are rejected.
func (g *Graph) AddEdge(ancestor, descendant apis.TypeID) bool {
	if ancestor == descendant {
		return false
	}
	g.AddVertex(ancestor)
	g.AddVertex(descendant)
	if g.out[ancestor].Has(descendant) {
		return false
	}
	g.out[ancestor].Add(descendant)
	g.in[descendant].Add(ancestor)
	return true
}

// HasVertex reports whether v is in the graph.
func (g *Graph) HasVertex(v apis.TypeID) bool {
	_, ok := g.out[v]
	return ok
}

// HasEdge reports whether the edge ancestor -> descendant is in the graph.
func (g *Graph) HasEdge(ancestor, descendant apis.TypeID) bool {
	s, ok := g.out[ancestor]
	return ok && s.Has(descendant)
}

// RemoveVertex removes v and every edge touching it.
func (g *Graph) RemoveVertex(v apis.TypeID) {
	for d := range g.out[v] {
		delete(g.in[d], v)
	}
	for a := range g.in[v] {
		delete(g.out[a], v)
	}
	delete(g.out, v)
	delete(g.in, v)
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.out) }

// Size returns the number of edges.
func (g *Graph) Size() int {
	n := 0
	for _, s := range g.out {
		n += len(s)
	}
	return n
}

// Vertices returns all vertices sorted by their string form.
func (g *Graph) Vertices() []apis.TypeID {
	out := make([]apis.TypeID, 0, len(g.out))
	for v := range g.out {
		out = append(out, v)
	}
	apis.SortTypeIDs(out)
	return out
}

// Edges returns all edges, sorted by ancestor then descendant.
func (g *Graph) Edges() []apis.Edge {
	out := make([]apis.Edge, 0, g.Size())
	for _, a := range g.Vertices() {
		for _, d := range g.Successors(a) {
			out = append(out, apis.Edge{Ancestor: a, Descendant: d})
		}
	}
	return out
}

// Successors returns the direct descendants of v, sorted.
func (g *Graph) Successors(v apis.TypeID) []apis.TypeID {
	return g.out[v].Sorted()
}

// Predecessors returns the direct ancestors of v, sorted.
func (g *Graph) Predecessors(v apis.TypeID) []apis.TypeID {
	return g.in[v].Sorted()
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := New()
	for v := range g.out {
		c.AddVertex(v)
	}
	for a, ds := range g.out {
		for d := range ds {
			c.AddEdge(a, d)
		}
	}
	return c
}

// Merge adds every vertex and edge of other to g.
func (g *Graph) Merge(other *Graph) {
	for v := range other.out {
		g.AddVertex(v)
	}
	for a, ds := range other.out {
		for d := range ds {
			g.AddEdge(a, d)
		}
	}
}
