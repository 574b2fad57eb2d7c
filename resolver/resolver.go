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

package resolver

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/graph"
	"dirpx.dev/tagx/strategy"
)

// generation is an immutable published state of the dependency graph.
type generation struct {
	// id increases by one on every publish.
	id uint64
	// g holds exactly the vertices reachable from the root. Never mutated.
	g *graph.Graph
	// misses are types already discovered to have no path from the root.
	// Only walks that saw declared types alone are recorded: declarations are
	// immutable, but a type may be declared after it was first queried.
	misses apis.TypeSet
}

// New constructs an apis.Resolver that discovers hierarchies from prov,
// skipping types excluded by the given strategies in order.
// Nil strategies are ignored.
//
// Queries against already resolved types are lock-free. Discovery of unseen
// types is serialized behind a single writer lock and published as a new
// graph generation.
func New(cfg apis.Config, prov apis.Provider, strategies ...apis.Strategy) *Resolver {
	r := &Resolver{
		cfg:     cfg,
		prov:    prov,
		exclude: strategy.NewChain(strategies...),
		log:     cfg.Log().With("component", "tagx.resolver"),
	}
	r.gen.Store(&generation{g: graph.New(cfg.Root), misses: apis.NewTypeSet()})
	return r
}

// Resolver is the dependency graph resolver.
type Resolver struct {
	cfg     apis.Config
	prov    apis.Provider
	exclude strategy.Chain
	log     *slog.Logger

	// mu serializes discovery (graph mutation).
	mu sync.Mutex
	// gen is the current published generation.
	gen atomic.Pointer[generation]
}

// Ensure Resolver implements apis.Resolver.
var _ apis.Resolver = (*Resolver)(nil)

// Root returns the root marker.
func (r *Resolver) Root() apis.TypeID { return r.cfg.Root }

// Provider returns the metadata provider.
func (r *Resolver) Provider() apis.Provider { return r.prov }

// Generation returns the id of the current graph generation.
func (r *Resolver) Generation() uint64 { return r.gen.Load().id }

// Snapshot returns a private copy of the current graph.
func (r *Resolver) Snapshot() *graph.Graph { return r.gen.Load().g.Clone() }

// Edges returns every edge of the current graph generation.
func (r *Resolver) Edges() []apis.Edge { return r.gen.Load().g.Edges() }

// ResolveDependencies returns every edge on any path from the root to t.
// The result is empty for the root itself and for types with no path from it.
func (r *Resolver) ResolveDependencies(t apis.TypeID) []apis.Edge {
	if t == r.cfg.Root {
		return nil
	}
	g, ok := r.resolve(t)
	if !ok {
		return nil
	}

	seen := make(map[apis.Edge]struct{})
	var edges []apis.Edge
	for _, path := range g.AllPaths(r.cfg.Root, t) {
		for _, e := range path {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// FlattenDependencies returns every type on ResolveDependencies(t) except t.
func (r *Resolver) FlattenDependencies(t apis.TypeID) apis.TypeSet {
	out := apis.NewTypeSet()
	for _, e := range r.ResolveDependencies(t) {
		out.Add(e.Ancestor)
		out.Add(e.Descendant)
	}
	delete(out, t)
	return out
}

// IsInstanceOf reports whether b is an ancestor of a. A type is never an
// instance of itself.
func (r *Resolver) IsInstanceOf(a, b apis.TypeID) bool {
	return r.FlattenDependencies(a).Has(b)
}

// Levels returns the ancestor priority levels of t: level 0 holds the root and
// level k+1 holds the descendant side of the k-th edge of every path from the
// root to t. Types inside a level are sorted by their string form; the order
// among them is otherwise unspecified.
func (r *Resolver) Levels(t apis.TypeID) [][]apis.TypeID {
	if t == r.cfg.Root {
		return nil
	}
	g, ok := r.resolve(t)
	if !ok {
		return nil
	}

	var sets []apis.TypeSet
	at := func(i int) apis.TypeSet {
		for len(sets) <= i {
			sets = append(sets, apis.NewTypeSet())
		}
		return sets[i]
	}
	for _, path := range g.AllPaths(r.cfg.Root, t) {
		for i, e := range path {
			if i == 0 {
				at(0).Add(e.Ancestor)
			}
			at(i + 1).Add(e.Descendant)
		}
	}

	levels := make([][]apis.TypeID, len(sets))
	for i, s := range sets {
		levels[i] = s.Sorted()
	}
	return levels
}

// ShortestPath returns a shortest directed path between two resolved types.
func (r *Resolver) ShortestPath(from, to apis.TypeID) ([]apis.Edge, bool) {
	return r.gen.Load().g.ShortestPath(from, to)
}

// resolve returns the generation graph that contains t, discovering t first
// if needed. ok is false when t has no path from the root.
func (r *Resolver) resolve(t apis.TypeID) (*graph.Graph, bool) {
	cur := r.gen.Load()
	if cur.g.HasVertex(t) {
		return cur.g, true
	}
	if cur.misses.Has(t) {
		return nil, false
	}
	cur = r.discover(t)
	if cur.g.HasVertex(t) {
		return cur.g, true
	}
	return nil, false
}

// discover walks t's declared meta-tags into a candidate subgraph, merges it
// into a copy of the current graph, prunes unrooted vertices and publishes the
// result as a new generation.
func (r *Resolver) discover(t apis.TypeID) *generation {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine published meanwhile.
	cur := r.gen.Load()
	if cur.g.HasVertex(t) || cur.misses.Has(t) {
		return cur
	}

	candidate := graph.New()
	complete := true
	if reason, skip := r.excluded(t); skip {
		r.log.Debug("Type excluded from discovery.", "type", t.String(), "reason", reason)
	} else {
		complete = r.walk(candidate, t)
	}

	next := &generation{
		id:     cur.id + 1,
		g:      cur.g.Clone(),
		misses: apis.NewTypeSet(),
	}
	next.g.Merge(candidate)
	pruned := next.g.Prune(r.cfg.Root)

	for m := range cur.misses {
		next.misses.Add(m)
	}
	if complete {
		for _, v := range pruned {
			next.misses.Add(v)
		}
		if !next.g.HasVertex(t) {
			next.misses.Add(t)
		}
	} else {
		r.log.Debug("Unrooted result not cached, undeclared types were walked.", "type", t.String())
	}

	// Nothing learned: keep the current generation.
	if next.g.Order() == cur.g.Order() && next.g.Size() == cur.g.Size() && next.misses.Len() == cur.misses.Len() {
		return cur
	}

	r.gen.Store(next)
	r.log.Debug("Dependency graph generation published.",
		"type", t.String(),
		"generation", next.id,
		"candidate_edges", candidate.Size(),
		"pruned", len(pruned),
		"vertices", next.g.Order(),
	)
	return next
}

// walk adds an edge meta -> declaring type for every meta-tag of t and
// recurses into each new meta-tag type. An edge already in the candidate is
// never followed again, which stops incidental cycles. It reports whether
// every type walked is declared by the provider.
func (r *Resolver) walk(candidate *graph.Graph, t apis.TypeID) bool {
	complete := t == r.cfg.Root || r.prov.Declares(t)
	for _, m := range r.prov.MetaTags(t) {
		if m == nil {
			continue
		}
		mt := m.Type()
		if mt == t || candidate.HasEdge(mt, t) {
			continue
		}
		if reason, skip := r.excluded(mt); skip {
			r.log.Debug("Meta-tag excluded from discovery.", "type", mt.String(), "on", t.String(), "reason", reason)
			continue
		}
		candidate.AddEdge(mt, t)
		if !r.walk(candidate, mt) {
			complete = false
		}
	}
	return complete
}

// excluded consults the strategy chain. The root marker is never excluded.
func (r *Resolver) excluded(t apis.TypeID) (string, bool) {
	if t == r.cfg.Root {
		return "", false
	}
	return r.exclude.TryExclude(t, r.cfg)
}
