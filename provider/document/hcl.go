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
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclFile represents the top-level structure of an HCL document for decoding.
type hclFile struct {
	Tags      []*hclTag      `hcl:"tag,block"`
	Instances []*hclInstance `hcl:"instance,block"`
}

type hclTag struct {
	Type   string      `hcl:"type,label"`
	Fields []*hclField `hcl:"field,block"`
	Meta   []*hclMeta  `hcl:"meta,block"`
}

type hclField struct {
	Name    string         `hcl:"name,label"`
	Type    hcl.Expression `hcl:"type"`
	Default cty.Value      `hcl:"default,optional"`
}

type hclMeta struct {
	Type   string    `hcl:"type,label"`
	Values cty.Value `hcl:"values,optional"`
}

type hclInstance struct {
	Name   string    `hcl:"name,label"`
	Type   string    `hcl:"type"`
	Values cty.Value `hcl:"values,optional"`
}

// ParseHCL decodes an HCL document. Diagnostics are returned wrapped with
// the file name.
func ParseHCL(filename string, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	hf, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(hf.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	f := &File{}
	for _, t := range parsed.Tags {
		td := TypeDecl{Type: t.Type}
		for _, fd := range t.Fields {
			typ, diags := hclFieldType(fd.Type)
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid field %s.%s in %s: %w", t.Type, fd.Name, filename, diags)
			}
			def, err := ctyToNative(fd.Default)
			if err != nil {
				return nil, fmt.Errorf("invalid default of %s.%s in %s: %w", t.Type, fd.Name, filename, err)
			}
			td.Fields = append(td.Fields, FieldDecl{Name: fd.Name, Type: typ, Default: def})
		}
		for _, m := range t.Meta {
			values, err := ctyToValues(m.Values)
			if err != nil {
				return nil, fmt.Errorf("invalid meta-tag %s on %s in %s: %w", m.Type, t.Type, filename, err)
			}
			td.Meta = append(td.Meta, InstanceDecl{Type: m.Type, Values: values})
		}
		f.Types = append(f.Types, td)
	}

	for _, in := range parsed.Instances {
		if f.Instances == nil {
			f.Instances = make(map[string]InstanceDecl, len(parsed.Instances))
		}
		if _, dup := f.Instances[in.Name]; dup {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateInstance, in.Name, filename)
		}
		values, err := ctyToValues(in.Values)
		if err != nil {
			return nil, fmt.Errorf("invalid instance %q in %s: %w", in.Name, filename, err)
		}
		f.Instances[in.Name] = InstanceDecl{Type: in.Type, Values: values}
	}
	return f, nil
}

// hclFieldType reads a field type given as a keyword (string, number, int64),
// a type constraint (list(string)) or a quoted name ("[]string").
func hclFieldType(expr hcl.Expression) (string, hcl.Diagnostics) {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw, nil
	}
	if ty, diags := typeexpr.TypeConstraint(expr); !diags.HasErrors() {
		if ty.Equals(cty.List(cty.String)) {
			return "list(string)", nil
		}
		return ty.FriendlyName(), nil
	}
	var s string
	diags := gohcl.DecodeExpression(expr, nil, &s)
	if diags.HasErrors() {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be a type keyword like 'string', 'number' or 'bool', 'list(string)', or a quoted type name.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return s, nil
}

// ctyToValues converts an object value into a field map. A null value yields nil.
func ctyToValues(v cty.Value) (map[string]any, error) {
	native, err := ctyToNative(v)
	if err != nil || native == nil {
		return nil, err
	}
	m, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: values must be an object, got %s", ErrInvalidValue, v.Type().FriendlyName())
	}
	return m, nil
}

// ctyToNative recursively converts a cty.Value to its most natural Go counterpart.
func ctyToNative(v cty.Value) (any, error) {
	// A nil or unknown value becomes a nil interface{}.
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("could not convert cty.Bool to bool: %w", err)
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nv)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", k.AsString(), err)
			}
			m[k.AsString()] = nv
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported cty type: %s", ty.FriendlyName())
}
