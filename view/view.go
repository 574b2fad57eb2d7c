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

package view

import (
	"fmt"
	"log/slog"
	"sync"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/utils/levels"
)

// Synthesizer builds Views over a Resolver.
type Synthesizer struct {
	res apis.Resolver
	log *slog.Logger
}

// New constructs a Synthesizer. A nil logger means slog.Default().
func New(res apis.Resolver, log *slog.Logger) *Synthesizer {
	if log == nil {
		log = slog.Default()
	}
	return &Synthesizer{res: res, log: log.With("component", "tagx.view")}
}

// Cast returns a View of inst as the ancestor type to. It fails with
// apis.ErrTypeMismatch unless to is an ancestor of inst's type.
func (s *Synthesizer) Cast(inst apis.Instance, to apis.TypeID) (*View, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: cannot cast nil instance to %s", apis.ErrTypeMismatch, to)
	}
	from := inst.Type()
	if !s.res.IsInstanceOf(from, to) {
		return nil, fmt.Errorf("%w: cannot cast %s to %s", apis.ErrTypeMismatch, from, to)
	}

	lv := s.res.Levels(from)
	caps := apis.NewTypeSet(levels.Flatten(lv)...)
	caps.Add(from)

	return &View{
		syn:    s,
		inst:   inst,
		to:     to,
		levels: lv,
		caps:   caps,
		cache:  make(map[string]binding),
	}, nil
}

// binding is a resolved accessor: the declared signature and the instance
// that produces its value.
type binding struct {
	sig  apis.Signature
	inst apis.Instance
}

// View exposes the accessors of an ancestor type over a concrete instance.
// A View may be shared between goroutines.
type View struct {
	syn    *Synthesizer
	inst   apis.Instance
	to     apis.TypeID
	levels [][]apis.TypeID
	caps   apis.TypeSet

	mu    sync.Mutex
	cache map[string]binding
}

// Instance returns the original instance.
func (v *View) Instance() apis.Instance { return v.inst }

// Target returns the ancestor type the view was cast to.
func (v *View) Target() apis.TypeID { return v.to }

// Levels returns the ancestor priority levels of the instance type.
func (v *View) Levels() [][]apis.TypeID { return v.levels }

// Capabilities returns every type whose accessor contract the view answers
// to: all ancestors plus the instance type, sorted.
func (v *View) Capabilities() []apis.TypeID { return v.caps.Sorted() }

// Implements reports whether the view answers to t's accessor contract.
func (v *View) Implements(t apis.TypeID) bool { return v.caps.Has(t) }

// Invoke resolves sig (at most once per View) and returns its value.
func (v *View) Invoke(sig apis.Signature, args ...any) (any, error) {
	b, err := v.bind(sig)
	if err != nil {
		return nil, err
	}
	return b.inst.Invoke(b.sig, args...)
}

// bind returns the cached binding for sig, resolving it on first use.
// The lock is not held while resolving; resolution is deterministic, so
// concurrent first uses store the same binding.
func (v *View) bind(sig apis.Signature) (binding, error) {
	key := sig.Key()

	v.mu.Lock()
	b, ok := v.cache[key]
	v.mu.Unlock()
	if ok {
		return b, nil
	}

	b, err := v.resolve(sig)
	if err != nil {
		return binding{}, err
	}

	v.mu.Lock()
	if prev, ok := v.cache[key]; ok {
		b = prev
	} else {
		v.cache[key] = b
	}
	v.mu.Unlock()
	return b, nil
}

// resolve searches the instance type, then the target, then every ancestor
// in level order.
func (v *View) resolve(sig apis.Signature) (binding, error) {
	prov := v.syn.res.Provider()
	from := v.inst.Type()

	if decl, ok := apis.FindAccessor(prov, from, sig); ok {
		v.syn.log.Debug("Accessor bound to instance.", "accessor", sig.String(), "type", from.String())
		return binding{sig: decl, inst: v.inst}, nil
	}

	if decl, ok := apis.FindAccessor(prov, v.to, sig); ok {
		return v.climbBinding(decl, v.to)
	}

	for t := range levels.Seq(v.levels) {
		if t == v.to || t == from {
			continue
		}
		if decl, ok := apis.FindAccessor(prov, t, sig); ok {
			return v.climbBinding(decl, t)
		}
	}

	return binding{}, fmt.Errorf("%w: %s on %s (cast to %s)", apis.ErrNoMatchingAccessor, sig, from, v.to)
}

func (v *View) climbBinding(decl apis.Signature, ancestor apis.TypeID) (binding, error) {
	inst, err := Climb(v.syn.res, ancestor, v.inst.Type())
	if err != nil {
		return binding{}, err
	}
	v.syn.log.Debug("Accessor bound by climbing.",
		"accessor", decl.String(),
		"ancestor", ancestor.String(),
		"from", v.inst.Type().String(),
	)
	return binding{sig: decl, inst: inst}, nil
}

// Climb returns the meta-tag instance of ancestor attached to the nearest
// declaration on the shortest path from ancestor to from. The descendant side
// of the path's first edge is that declaration.
func Climb(res apis.Resolver, ancestor, from apis.TypeID) (apis.Instance, error) {
	path, ok := res.ShortestPath(ancestor, from)
	if !ok || len(path) == 0 {
		return nil, fmt.Errorf("%w: no path from %s to %s", apis.ErrGraphInconsistency, ancestor, from)
	}
	holder := path[0].Descendant
	inst, ok := apis.MetaTag(res.Provider(), holder, ancestor)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not carry %s", apis.ErrGraphInconsistency, holder, ancestor)
	}
	return inst, nil
}
