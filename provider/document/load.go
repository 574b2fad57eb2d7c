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

package document

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/internal/ctxlog"
	"dirpx.dev/tagx/provider/static"
)

// Set is a loaded hierarchy: a provider holding every declared type and the
// named instances.
type Set struct {
	Provider  *static.Provider
	Instances map[string]*static.Tag
}

// Instance returns the named instance.
func (s *Set) Instance(name string) (*static.Tag, error) {
	t, ok := s.Instances[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstance, name)
	}
	return t, nil
}

// Names returns the instance names, sorted.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.Instances))
	for name := range s.Instances {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Files expands paths into the hierarchy documents they denote. Directories
// are walked recursively for files with one of Extensions; explicitly named
// files are kept regardless of extension. The result is sorted and free of
// duplicates.
func Files(paths ...string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("tagx(document): %w", err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(Extensions, strings.ToLower(filepath.Ext(d.Name()))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("tagx(document): failed to find documents in %s: %w", root, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Load reads every document found under paths and builds a Set rooted at root.
func Load(ctx context.Context, root apis.TypeID, paths ...string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := Files(paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No hierarchy documents found.", "paths", paths)
	}

	docs := make([]*File, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("tagx(document): %w", err)
		}
		f, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded hierarchy document.", "path", path, "types", len(f.Types), "instances", len(f.Instances))
		docs = append(docs, f)
	}
	return Build(root, docs...)
}

// Build declares the types of files in a new static provider and creates the
// named instances. Types may reference each other in any order. The root
// marker is declared unless a file declares it.
func Build(root apis.TypeID, files ...*File) (*Set, error) {
	type pending struct {
		id   apis.TypeID
		decl TypeDecl
	}
	var all []pending
	seen := apis.NewTypeSet()
	for _, f := range files {
		for _, td := range f.Types {
			id, err := apis.ParseTypeID(td.Type)
			if err != nil {
				return nil, fmt.Errorf("tagx(document): type %q: %w", td.Type, err)
			}
			if seen.Has(id) {
				return nil, fmt.Errorf("%w: %s", static.ErrDuplicateType, id)
			}
			seen.Add(id)
			all = append(all, pending{id: id, decl: td})
		}
	}

	// The schema provider knows every type's fields, so meta-tag instances
	// can be created before their holders are declared.
	schema := static.New()
	fields := make(map[apis.TypeID][]static.Field, len(all))
	for _, p := range all {
		flds, err := buildFields(p.id, p.decl.Fields)
		if err != nil {
			return nil, err
		}
		fields[p.id] = flds
		if err := schema.Declare(static.Decl{ID: p.id, Fields: flds}); err != nil {
			return nil, err
		}
	}
	if !seen.Has(root) {
		if err := schema.Declare(static.Decl{ID: root}); err != nil {
			return nil, err
		}
	}

	prov := static.New()
	if !seen.Has(root) {
		if err := prov.Declare(static.Decl{ID: root}); err != nil {
			return nil, err
		}
	}
	for _, p := range all {
		d := static.Decl{ID: p.id, Fields: fields[p.id]}
		for _, m := range p.decl.Meta {
			inst, err := newInstance(schema, m)
			if err != nil {
				return nil, fmt.Errorf("meta-tag on %s: %w", p.id, err)
			}
			d.Meta = append(d.Meta, inst)
		}
		if err := prov.Declare(d); err != nil {
			return nil, err
		}
	}

	set := &Set{Provider: prov, Instances: map[string]*static.Tag{}}
	for _, f := range files {
		for name, in := range f.Instances {
			if _, dup := set.Instances[name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateInstance, name)
			}
			inst, err := newInstance(prov, in)
			if err != nil {
				return nil, fmt.Errorf("instance %q: %w", name, err)
			}
			set.Instances[name] = inst
		}
	}
	return set, nil
}

// buildFields validates field declarations and coerces their defaults.
func buildFields(id apis.TypeID, decls []FieldDecl) ([]static.Field, error) {
	out := make([]static.Field, 0, len(decls))
	for _, fd := range decls {
		typ, err := FieldType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", id, fd.Name, err)
		}
		f := static.Field{Name: fd.Name, Type: typ}
		if fd.Default != nil {
			if f.Default, err = Coerce(typ, fd.Default); err != nil {
				return nil, fmt.Errorf("default of %s.%s: %w", id, fd.Name, err)
			}
		}
		out = append(out, f)
	}
	return out, nil
}

// newInstance creates an instance through p, coercing values to the declared
// field types.
func newInstance(p *static.Provider, in InstanceDecl) (*static.Tag, error) {
	id, err := apis.ParseTypeID(in.Type)
	if err != nil {
		return nil, fmt.Errorf("tagx(document): type %q: %w", in.Type, err)
	}
	d, ok := p.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apis.ErrUnknownType, id)
	}
	values := make(map[string]any, len(in.Values))
	for k, v := range in.Values {
		i := slices.IndexFunc(d.Fields, func(f static.Field) bool { return f.Name == k })
		if i < 0 {
			return nil, fmt.Errorf("%w: %s.%s", static.ErrUnknownField, id, k)
		}
		if values[k], err = Coerce(d.Fields[i].Type, v); err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", id, k, err)
		}
	}
	return p.New(id, values)
}
