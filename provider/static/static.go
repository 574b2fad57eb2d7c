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

// Package static is an in-memory apis.Provider. Tag types are declared
// explicitly with their fields and meta-tag instances; instances are created
// through the provider so that field names are validated and defaults apply.
package static

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"dirpx.dev/tagx/apis"
)

var (
	// ErrEmptyType is returned when a declaration has a zero TypeID.
	ErrEmptyType = errors.New("tagx(static): empty type identifier")
	// ErrDuplicateType is returned when a type is declared twice.
	ErrDuplicateType = errors.New("tagx(static): type already declared")
	// ErrDuplicateField is returned when a declaration repeats a field name.
	ErrDuplicateField = errors.New("tagx(static): duplicate field")
	// ErrUnknownField is returned when an instance sets an undeclared field.
	ErrUnknownField = errors.New("tagx(static): unknown field")
	// ErrNilMetaTag is returned when a declaration carries a nil meta-tag.
	ErrNilMetaTag = errors.New("tagx(static): nil meta-tag")
)

// Field declares one accessor of a tag type.
type Field struct {
	// Name of the accessor.
	Name string
	// Type is the canonical return type name, e.g. "string".
	Type string
	// Params are the canonical parameter type names. Fields with parameters
	// must be given an apis.AccessorFunc value.
	Params []string
	// Default is used when an instance does not set the field. Nil means none.
	Default any
}

// Signature returns the accessor signature of f.
func (f Field) Signature() apis.Signature {
	return apis.Signature{Name: f.Name, Returns: f.Type, Params: f.Params}
}

// Decl declares a tag type.
type Decl struct {
	// ID identifies the type.
	ID apis.TypeID
	// Fields are the accessors declared by the type itself.
	Fields []Field
	// Meta are the meta-tag instances attached to the declaration.
	Meta []apis.Instance
}

// Provider is a concurrency-safe in-memory declaration store.
type Provider struct {
	mu    sync.RWMutex
	decls map[apis.TypeID]*decl
}

// decl is the indexed form of a Decl.
type decl struct {
	Decl
	fields map[string]Field
}

// New returns a Provider with the given field-less marker types declared,
// typically the root marker.
func New(markers ...apis.TypeID) *Provider {
	p := &Provider{decls: make(map[apis.TypeID]*decl)}
	for _, m := range markers {
		_ = p.Declare(Decl{ID: m})
	}
	return p
}

// Ensure Provider implements apis.Provider.
var _ apis.Provider = (*Provider)(nil)

// Declare adds a type declaration.
func (p *Provider) Declare(d Decl) error {
	if d.ID.IsZero() {
		return ErrEmptyType
	}
	idx := &decl{Decl: d, fields: make(map[string]Field, len(d.Fields))}
	for _, f := range d.Fields {
		if _, dup := idx.fields[f.Name]; dup {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateField, d.ID, f.Name)
		}
		idx.fields[f.Name] = f
	}
	for _, m := range d.Meta {
		if m == nil {
			return fmt.Errorf("%w on %s", ErrNilMetaTag, d.ID)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.decls[d.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, d.ID)
	}
	p.decls[d.ID] = idx
	return nil
}

// MustDeclare is like Declare but panics on error. It returns p for chaining.
func (p *Provider) MustDeclare(d Decl) *Provider {
	if err := p.Declare(d); err != nil {
		panic(err)
	}
	return p
}

// Lookup returns the declaration of id.
func (p *Provider) Lookup(id apis.TypeID) (Decl, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.decls[id]
	if !ok {
		return Decl{}, false
	}
	return d.Decl, true
}

// Declares reports whether id has been declared.
func (p *Provider) Declares(id apis.TypeID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.decls[id]
	return ok
}

// Types returns every declared type, sorted.
func (p *Provider) Types() []apis.TypeID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]apis.TypeID, 0, len(p.decls))
	for id := range p.decls {
		out = append(out, id)
	}
	apis.SortTypeIDs(out)
	return out
}

// Accessors returns the fields declared by id as signatures.
func (p *Provider) Accessors(id apis.TypeID) []apis.Signature {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.decls[id]
	if !ok {
		return nil
	}
	out := make([]apis.Signature, 0, len(d.Fields))
	for _, f := range d.Fields {
		out = append(out, f.Signature())
	}
	return out
}

// MetaTags returns the meta-tag instances attached to id.
func (p *Provider) MetaTags(id apis.TypeID) []apis.Instance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.decls[id]
	if !ok {
		return nil
	}
	return append([]apis.Instance(nil), d.Meta...)
}

// New creates an instance of id. Every key of values must be a declared field.
func (p *Provider) New(id apis.TypeID, values map[string]any) (*Tag, error) {
	p.mu.RLock()
	d, ok := p.decls[id]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", apis.ErrUnknownType, id)
	}
	for k := range values {
		if _, ok := d.fields[k]; !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, id, k)
		}
	}
	return &Tag{id: id, fields: d.fields, values: maps.Clone(values)}, nil
}

// MustNew is like New but panics on error.
func (p *Provider) MustNew(id apis.TypeID, values map[string]any) *Tag {
	t, err := p.New(id, values)
	if err != nil {
		panic(err)
	}
	return t
}
