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

package goreflect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/tagx/apis"
	uref "dirpx.dev/tagx/utils/reflect"
)

var (
	// ErrConflictingRegistration indicates two Go types resolving to the same TypeID.
	ErrConflictingRegistration = errors.New("tagx(goreflect): conflicting type registration")
	// ErrNilValue is returned when a nil value is wrapped.
	ErrNilValue = errors.New("tagx(goreflect): nil value provided")
)

// accessor is one resolved accessor of a Go tag type.
type accessor struct {
	sig apis.Signature
	// field is the field index path, nil for methods.
	field []int
	// method is the method index in the value method set, -1 for fields.
	method int
	// withErr is set for methods returning (T, error).
	withErr bool
}

// typeInfo caches everything derived from a Go tag type.
type typeInfo struct {
	rt        reflect.Type
	accessors []accessor
	byName    map[string]int

	metaOnce sync.Once
	meta     []apis.Instance
}

// Provider resolves declarations of Go tag types by reflection.
// It is safe for concurrent use.
type Provider struct {
	cfg apis.Config
	// mu guards write-side consistency of types.
	mu sync.Mutex
	// types maps apis.TypeID to *typeInfo.
	types sync.Map
}

// New constructs a Provider. cfg.MaxUnwrap bounds pointer unwrapping.
func New(cfg apis.Config) *Provider {
	return &Provider{cfg: cfg}
}

// Ensure Provider implements apis.Provider.
var _ apis.Provider = (*Provider)(nil)

// Register makes the Go types of vs known to the provider. Meta-tag types are
// registered lazily when MetaTags is first asked about their holder.
func (p *Provider) Register(vs ...any) error {
	for _, v := range vs {
		if v == nil {
			return ErrNilValue
		}
		if _, err := p.register(reflect.TypeOf(v)); err != nil {
			return err
		}
	}
	return nil
}

// TypeOf returns the TypeID a Go value resolves to.
func (p *Provider) TypeOf(v any) (apis.TypeID, error) {
	if v == nil {
		return apis.TypeID{}, ErrNilValue
	}
	info, err := p.register(reflect.TypeOf(v))
	if err != nil {
		return apis.TypeID{}, err
	}
	return uref.TypeID(info.rt), nil
}

// Of wraps a Go tag value as an apis.Instance, registering its type.
func (p *Provider) Of(v any) (apis.Instance, error) {
	if v == nil {
		return nil, ErrNilValue
	}
	rv, err := uref.NormalizeValue(reflect.ValueOf(v), p.cfg)
	if err != nil {
		return nil, fmt.Errorf("tagx(goreflect): %T: %w", v, err)
	}
	info, err := p.register(rv.Type())
	if err != nil {
		return nil, err
	}
	return &Instance{id: uref.TypeID(info.rt), v: rv, info: info}, nil
}

// MustOf is like Of but panics on error.
func (p *Provider) MustOf(v any) apis.Instance {
	inst, err := p.Of(v)
	if err != nil {
		panic(err)
	}
	return inst
}

// Declares reports whether a Go type has been registered as id, either
// explicitly or by wrapping one of its values.
func (p *Provider) Declares(id apis.TypeID) bool {
	_, ok := p.lookup(id)
	return ok
}

// Accessors returns the accessors declared by the Go type registered as id.
func (p *Provider) Accessors(id apis.TypeID) []apis.Signature {
	info, ok := p.lookup(id)
	if !ok {
		return nil
	}
	out := make([]apis.Signature, len(info.accessors))
	for i, a := range info.accessors {
		out[i] = a.sig
	}
	return out
}

// MetaTags returns the meta-tags declared by id's MetaTags method. Values that
// are not tag types (builtins, anonymous structs) are dropped.
func (p *Provider) MetaTags(id apis.TypeID) []apis.Instance {
	info, ok := p.lookup(id)
	if !ok {
		return nil
	}
	info.metaOnce.Do(func() {
		mt, ok := reflect.Zero(info.rt).Interface().(apis.MetaTagger)
		if !ok {
			return
		}
		for _, m := range mt.MetaTags() {
			inst, err := p.Of(m)
			if err != nil {
				p.cfg.Log().Debug("Meta-tag dropped.", "on", id.String(), "value", fmt.Sprintf("%T", m), "error", err)
				continue
			}
			info.meta = append(info.meta, inst)
		}
	})
	return append([]apis.Instance(nil), info.meta...)
}

// lookup returns the registered type info of id.
func (p *Provider) lookup(id apis.TypeID) (*typeInfo, bool) {
	v, ok := p.types.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*typeInfo), true
}

// register normalizes t and records it under its TypeID.
func (p *Provider) register(t reflect.Type) (*typeInfo, error) {
	nt, err := uref.Normalize(t, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("tagx(goreflect): %v: %w", t, err)
	}
	id := uref.TypeID(nt)

	// Fast read path without locking.
	if info, ok := p.lookup(id); ok {
		if info.rt != nt {
			return nil, fmt.Errorf("%w: %s is both %v and %v", ErrConflictingRegistration, id, info.rt, nt)
		}
		return info, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if info, ok := p.lookup(id); ok {
		if info.rt != nt {
			return nil, fmt.Errorf("%w: %s is both %v and %v", ErrConflictingRegistration, id, info.rt, nt)
		}
		return info, nil
	}
	info := inspect(nt)
	p.types.Store(id, info)
	return info, nil
}

// reachable reports whether the field at index can be read from a value of t:
// every embedded struct on the way must be exported and not a pointer.
func reachable(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Struct {
			return false
		}
		t = f.Type
	}
	return true
}

// reserved are methods of the tag protocol itself, never accessors.
var reserved = map[string]struct{}{
	"MetaTags": {},
	"TagName":  {},
}

var errorType = reflect.TypeFor[error]()

// inspect derives the accessors of a struct type.
func inspect(t reflect.Type) *typeInfo {
	info := &typeInfo{rt: t, byName: map[string]int{}}
	add := func(a accessor) {
		if _, dup := info.byName[a.sig.Name]; dup {
			return
		}
		info.byName[a.sig.Name] = len(info.accessors)
		info.accessors = append(info.accessors, a)
	}

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous || !reachable(t, f.Index) {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("tagx"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		add(accessor{
			sig:    apis.Signature{Name: name, Returns: uref.TypeName(f.Type)},
			field:  f.Index,
			method: -1,
		})
	}

	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if _, skip := reserved[m.Name]; skip {
			continue
		}
		ft := m.Type
		withErr := ft.NumOut() == 2 && ft.Out(1) == errorType
		if ft.NumOut() != 1 && !withErr {
			continue
		}
		sig := apis.Signature{Name: m.Name, Returns: uref.TypeName(ft.Out(0))}
		// In(0) is the receiver.
		for j := 1; j < ft.NumIn(); j++ {
			sig.Params = append(sig.Params, uref.TypeName(ft.In(j)))
		}
		add(accessor{sig: sig, method: i, withErr: withErr})
	}
	return info
}
