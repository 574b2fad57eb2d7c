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
	"slices"

	"dirpx.dev/tagx/apis"
)

// Reachable returns every vertex reachable from root, root included.
// An absent root yields an empty set.
func (g *Graph) Reachable(root apis.TypeID) apis.TypeSet {
	seen := apis.NewTypeSet()
	if !g.HasVertex(root) {
		return seen
	}
	seen.Add(root)
	queue := []apis.TypeID{root}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for d := range g.out[v] {
			if !seen.Has(d) {
				seen.Add(d)
				queue = append(queue, d)
			}
		}
	}
	return seen
}

// Prune removes every vertex that has no path from root and returns the
// removed vertices, sorted.
func (g *Graph) Prune(root apis.TypeID) []apis.TypeID {
	keep := g.Reachable(root)
	var removed []apis.TypeID
	for v := range g.out {
		if !keep.Has(v) {
			removed = append(removed, v)
		}
	}
	for _, v := range removed {
		g.RemoveVertex(v)
	}
	apis.SortTypeIDs(removed)
	return removed
}

// AllPaths returns every simple directed path from -> to as edge lists.
// Paths are produced in a deterministic order. from == to yields no paths.
func (g *Graph) AllPaths(from, to apis.TypeID) [][]apis.Edge {
	if from == to || !g.HasVertex(from) || !g.HasVertex(to) {
		return nil
	}
	// Only vertices that can still reach the target are worth visiting.
	useful := g.ancestorsOf(to)

	var (
		paths   [][]apis.Edge
		stack   []apis.Edge
		onStack = apis.NewTypeSet(from)
	)
	var walk func(v apis.TypeID)
	walk = func(v apis.TypeID) {
		for _, d := range g.Successors(v) {
			if onStack.Has(d) || (d != to && !useful.Has(d)) {
				continue
			}
			stack = append(stack, apis.Edge{Ancestor: v, Descendant: d})
			if d == to {
				paths = append(paths, slices.Clone(stack))
			} else {
				onStack.Add(d)
				walk(d)
				delete(onStack, d)
			}
			stack = stack[:len(stack)-1]
		}
	}
	walk(from)
	return paths
}

// ShortestPath returns a shortest directed path from -> to by edge count.
// Ties are broken by the sorted order of successors.
func (g *Graph) ShortestPath(from, to apis.TypeID) ([]apis.Edge, bool) {
	if from == to || !g.HasVertex(from) || !g.HasVertex(to) {
		return nil, false
	}
	prev := map[apis.TypeID]apis.TypeID{}
	seen := apis.NewTypeSet(from)
	queue := []apis.TypeID{from}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, d := range g.Successors(v) {
			if seen.Has(d) {
				continue
			}
			seen.Add(d)
			prev[d] = v
			if d == to {
				return backtrack(prev, from, to), true
			}
			queue = append(queue, d)
		}
	}
	return nil, false
}

// ancestorsOf returns every vertex with a path to v, v excluded.
func (g *Graph) ancestorsOf(v apis.TypeID) apis.TypeSet {
	seen := apis.NewTypeSet()
	queue := []apis.TypeID{v}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for a := range g.in[x] {
			if !seen.Has(a) {
				seen.Add(a)
				queue = append(queue, a)
			}
		}
	}
	delete(seen, v)
	return seen
}

func backtrack(prev map[apis.TypeID]apis.TypeID, from, to apis.TypeID) []apis.Edge {
	var path []apis.Edge
	for v := to; v != from; v = prev[v] {
		path = append(path, apis.Edge{Ancestor: prev[v], Descendant: v})
	}
	slices.Reverse(path)
	return path
}
