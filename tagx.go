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

package tagx

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/builder"
	"dirpx.dev/tagx/config"
	"dirpx.dev/tagx/provider/goreflect"
	"dirpx.dev/tagx/view"
)

// Aspect is the default root marker. Every Go tag type that should take part
// in resolution descends from it, directly or through its meta-tags.
type Aspect struct{}

// init initializes the global tagx state.
func init() {
	// Initialize state with default cfg, prov, reg, and res.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.prov = goreflect.New(s.cfg)
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, s.prov, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("tagx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("tagx: builder returned nil resolver")
	// ErrNotAnInstance is returned when a value is neither an apis.Instance
	// nor a Go tag value the current provider can wrap.
	ErrNotAnInstance = errors.New("tagx: value is not a tag instance")
)

// wrapper is implemented by providers that turn Go values into instances.
type wrapper interface {
	Of(v any) (apis.Instance, error)
}

// IsInstanceOf reports whether b is an ancestor of a in the global hierarchy.
// A type is never an instance of itself.
func IsInstanceOf(a, b apis.TypeID) bool {
	return st.Load().res.IsInstanceOf(a, b)
}

// FlattenDependencies returns every ancestor of t, excluding t itself.
func FlattenDependencies(t apis.TypeID) apis.TypeSet {
	return st.Load().res.FlattenDependencies(t)
}

// ResolveDependencies returns every extension edge on any path from the root
// marker to t.
func ResolveDependencies(t apis.TypeID) []apis.Edge {
	return st.Load().res.ResolveDependencies(t)
}

// Of returns v as a tag instance. Values already implementing apis.Instance
// are returned as is; Go tag values are wrapped by the global provider.
func Of(v any) (apis.Instance, error) {
	return instanceOf(st.Load(), v)
}

// TypeOf returns the tag type of v, an apis.Instance or a Go tag value.
func TypeOf(v any) (apis.TypeID, error) {
	inst, err := Of(v)
	if err != nil {
		return apis.TypeID{}, err
	}
	return inst.Type(), nil
}

// TypeFor returns the tag type of the Go tag type T.
func TypeFor[T any]() (apis.TypeID, error) {
	return TypeOf(reflect.Zero(reflect.TypeFor[T]()).Interface())
}

// Is reports whether v is an instance of the Go tag type T.
func Is[T any](v any) bool {
	s := st.Load()
	inst, err := instanceOf(s, v)
	if err != nil {
		return false
	}
	to, err := TypeFor[T]()
	if err != nil {
		return false
	}
	return s.res.IsInstanceOf(inst.Type(), to)
}

// Cast returns a view of v as the ancestor tag type to. It fails with
// apis.ErrTypeMismatch unless to is an ancestor of v's type.
func Cast(v any, to apis.TypeID) (*view.View, error) {
	s := st.Load()
	inst, err := instanceOf(s, v)
	if err != nil {
		return nil, err
	}
	return s.syn.Cast(inst, to)
}

// As is Cast with the target given as the Go tag type T.
func As[T any](v any) (*view.View, error) {
	to, err := TypeFor[T]()
	if err != nil {
		return nil, err
	}
	return Cast(v, to)
}

// ReserveNamespace adds a reserved namespace prefix to the global registry.
// Types in reserved namespaces are skipped by discovery from now on; types
// already resolved keep their place in the hierarchy.
func ReserveNamespace(prefix string) error {
	return st.Load().reg.Register(prefix)
}

// instanceOf converts v using the provider of s.
func instanceOf(s *state, v any) (apis.Instance, error) {
	if inst, ok := v.(apis.Instance); ok && inst != nil {
		return inst, nil
	}
	w, ok := s.prov.(wrapper)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotAnInstance, v)
	}
	inst, err := w.Of(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnInstance, err)
	}
	return inst, nil
}

// SetAll explicitly sets all global tagx state components.
//
// Nil arguments leave the corresponding component unchanged, except for ext
// which is always replaced, and prov which falls back to a fresh Go
// reflection provider.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, ext any, prov apis.Provider, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Provider
	nprov := prov
	npprov := true
	if nprov == nil {
		nprov = goreflect.New(ncfg)
		npprov = false
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, nprov, old.res, next)
	} else {
		npres = true
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	store(
		&state{
			cfg:   ncfg,
			ext:   next,
			prov:  nprov,
			reg:   nreg,
			res:   nres,
			bld:   nbld,
			pprov: npprov,
			preg:  npreg,
			pres:  npres,
		},
	)
}

// Config returns the global tagx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global tagx configuration to cfg.
// It rebuilds the global provider (unless set explicitly), registry and
// resolver using the new configuration, skipping pinned layers.
// This is a convenience wrapper around the global state.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new prov, reg and res based on the new cfg and old state.
	nprov := old.prov
	if !old.pprov {
		nprov = goreflect.New(cfg)
	}
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, nreg, nprov, old.res, old.ext)
	}

	// Ensure non-nil nreg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	store(
		&state{
			cfg:   cfg,
			ext:   old.ext,
			prov:  nprov,
			reg:   nreg,
			res:   nres,
			bld:   b,
			pprov: old.pprov,
			preg:  old.preg,
			pres:  old.pres,
		},
	)
}

// Provider returns the global tagx metadata provider.
func Provider() apis.Provider {
	return st.Load().prov
}

// SetProvider sets the global tagx provider to prov and rebuilds the
// resolver unless it is pinned. A nil prov restores the default Go reflection
// provider.
// This is a convenience wrapper around the global state.
func SetProvider(prov apis.Provider) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	pinned := prov != nil
	if prov == nil {
		prov = goreflect.New(old.cfg)
	}

	// Build new res based on the old cfg and new prov.
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, old.reg, prov, old.res, old.ext)
	}

	// Ensure non-nil res.
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	store(
		&state{
			cfg:   old.cfg,
			ext:   old.ext,
			prov:  prov,
			reg:   old.reg,
			res:   nres,
			bld:   b,
			pprov: pinned,
			preg:  old.preg,
			pres:  old.pres,
		},
	)
}

// Registry returns the global tagx reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global tagx reg to reg.
// It uses the global tagx configuration to rebuild the global res.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new res based on the old cfg and new reg.
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, reg, old.prov, old.res, old.ext)
	}

	// Ensure non-nil res.
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	store(
		&state{
			cfg:   old.cfg,
			ext:   old.ext,
			prov:  old.prov,
			reg:   reg,
			res:   nres,
			bld:   b,
			pprov: old.pprov,
			preg:  true,
			pres:  old.pres,
		},
	)
}

// Resolver returns the global tagx res.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets the global tagx res to res.
// It uses the global tagx configuration and reg.
// This is a convenience wrapper around the global state.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	store(
		&state{
			cfg:   old.cfg,
			ext:   old.ext,
			prov:  old.prov,
			reg:   old.reg,
			res:   res,
			bld:   old.bld,
			pprov: old.pprov,
			preg:  old.preg,
			pres:  true,
		},
	)
}

// Builder returns the global tagx bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global tagx bld to b.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg and res based on the new bld and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.prov, old.res, old.ext)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	store(
		&state{
			cfg:   old.cfg,
			ext:   old.ext,
			prov:  old.prov,
			reg:   nreg,
			res:   nres,
			bld:   b,
			pprov: old.pprov,
			preg:  old.preg,
			pres:  old.pres,
		},
	)
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg and res based on the new ext and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.prov, old.res, ext)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	store(
		&state{
			cfg:   old.cfg,
			ext:   ext,
			prov:  old.prov,
			reg:   nreg,
			res:   nres,
			bld:   b,
			pprov: old.pprov,
			preg:  old.preg,
			pres:  old.pres,
		},
	)
}

// ExtAs returns the global tagx extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global tagx reg is pinned (immutable).
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes the global tagx reg immutable.
func PinRegistry() { repin(func(s *state) { s.preg = true }) }

// UnpinRegistry makes the global tagx reg mutable again.
func UnpinRegistry() { repin(func(s *state) { s.preg = false }) }

// IsResolverPinned returns whether the global tagx res is pinned (immutable).
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver makes the global tagx res immutable.
func PinResolver() { repin(func(s *state) { s.pres = true }) }

// UnpinResolver makes the global tagx res mutable again.
func UnpinResolver() { repin(func(s *state) { s.pres = false }) }

// repin republishes a copy of the current state with pins changed by set.
func repin(set func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	next := *st.Load()
	set(&next)

	// Store the new state atomically.
	store(&next)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global tagx state.
var st atomic.Pointer[state]

// store derives the view synthesizer of s and publishes s.
func store(s *state) {
	s.syn = view.New(s.res, s.cfg.Logger)
	st.Store(s)
}

// state is the global tagx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global tagx configuration.
	cfg apis.Config
	// ext is the global tagx extension configuration.
	ext any
	// prov is the global tagx metadata provider.
	prov apis.Provider
	// reg is the global tagx reg.
	reg apis.Registry
	// res is the global tagx res.
	res apis.Resolver
	// syn is the view synthesizer over res.
	syn *view.Synthesizer
	// bld is the global tagx bld.
	bld apis.Builder
	// pprov indicates whether prov was set explicitly.
	pprov bool
	// preg indicates whether the reg is pinned (immutable).
	preg bool
	// pres indicates whether the res is pinned (immutable).
	pres bool
}
