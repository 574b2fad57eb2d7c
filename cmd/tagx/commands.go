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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"dirpx.dev/tagx"
	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/graph"
	"dirpx.dev/tagx/provider/document"
	"dirpx.dev/tagx/utils/levels"
)

// encoder writes command results. text renders a plain-text form.
type encoder struct {
	format string
	w      io.Writer
}

func newEncoder(format string, w io.Writer) (*encoder, error) {
	switch format {
	case "text", "json", "yaml":
		return &encoder{format: format, w: w}, nil
	}
	return nil, fmt.Errorf("invalid format %q: must be 'text', 'json' or 'yaml'", format)
}

// encode writes v as JSON or YAML, or text when the format is text.
func (e *encoder) encode(v any, text string) error {
	switch e.format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.w, "%s\n", data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(e.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := io.WriteString(e.w, text)
	return err
}

func usage(msg string) error {
	return &ExitError{Code: 2, Message: "usage: tagx " + msg}
}

func parseType(s string) (apis.TypeID, error) {
	id, err := apis.ParseTypeID(s)
	if err != nil {
		return apis.TypeID{}, &ExitError{Code: 2, Message: fmt.Sprintf("invalid type %q: %v", s, err)}
	}
	return id, nil
}

type depsResult struct {
	Type      string   `json:"type" yaml:"type"`
	Ancestors []string `json:"ancestors" yaml:"ancestors"`
	Edges     []string `json:"edges" yaml:"edges"`
}

// cmdDeps prints the ancestors of a type.
func cmdDeps(args []string, enc *encoder) error {
	if len(args) != 1 {
		return usage("deps TYPE")
	}
	t, err := parseType(args[0])
	if err != nil {
		return err
	}

	res := depsResult{Type: t.String(), Ancestors: []string{}, Edges: []string{}}
	for _, a := range tagx.FlattenDependencies(t).Sorted() {
		res.Ancestors = append(res.Ancestors, a.String())
	}
	for _, e := range tagx.ResolveDependencies(t) {
		res.Edges = append(res.Edges, e.String())
	}

	var b strings.Builder
	for _, a := range res.Ancestors {
		b.WriteString(a + "\n")
	}
	return enc.encode(res, b.String())
}

type isResult struct {
	Type     string `json:"type" yaml:"type"`
	Ancestor string `json:"ancestor" yaml:"ancestor"`
	Instance bool   `json:"instance" yaml:"instance"`
}

// cmdIs prints whether a type is an instance of an ancestor. Like test(1),
// a negative answer exits with status 1.
func cmdIs(args []string, enc *encoder) error {
	if len(args) != 2 {
		return usage("is TYPE ANCESTOR")
	}
	a, err := parseType(args[0])
	if err != nil {
		return err
	}
	b, err := parseType(args[1])
	if err != nil {
		return err
	}

	ok := tagx.IsInstanceOf(a, b)
	if err := enc.encode(isResult{Type: a.String(), Ancestor: b.String(), Instance: ok}, fmt.Sprintln(ok)); err != nil {
		return err
	}
	if !ok {
		return &ExitError{Code: 1}
	}
	return nil
}

type getResult struct {
	Instance string `json:"instance" yaml:"instance"`
	Ancestor string `json:"ancestor" yaml:"ancestor"`
	Accessor string `json:"accessor" yaml:"accessor"`
	Value    any    `json:"value" yaml:"value"`
}

// cmdGet casts a named instance to an ancestor and reads one accessor. The
// accessor signature is taken from the first type declaring the name, in
// the order a view searches: the instance type, the ancestor, then the
// remaining ancestors level by level.
func cmdGet(args []string, set *document.Set, enc *encoder) error {
	if len(args) != 3 {
		return usage("get INSTANCE ANCESTOR ACCESSOR")
	}
	inst, err := set.Instance(args[0])
	if err != nil {
		return err
	}
	to, err := parseType(args[1])
	if err != nil {
		return err
	}

	v, err := tagx.Cast(inst, to)
	if err != nil {
		return err
	}

	prov := tagx.Provider()
	order := []apis.TypeID{inst.Type(), to}
	for t := range levels.Seq(v.Levels()) {
		order = append(order, t)
	}
	var sig apis.Signature
	found := false
	for _, t := range order {
		for _, a := range prov.Accessors(t) {
			if a.Name == args[2] && len(a.Params) == 0 {
				sig, found = a, true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s on %s", apis.ErrNoMatchingAccessor, args[2], to)
	}

	val, err := v.Invoke(sig)
	if err != nil {
		return err
	}
	return enc.encode(getResult{Instance: args[0], Ancestor: to.String(), Accessor: sig.String(), Value: val}, fmt.Sprintln(val))
}

// cmdGraph resolves every declared type and prints the resulting graph.
func cmdGraph(args []string, set *document.Set, enc *encoder) error {
	if len(args) != 0 {
		return usage("graph")
	}
	for _, t := range set.Provider.Types() {
		_ = tagx.ResolveDependencies(t)
	}

	res := tagx.Resolver()
	snap := graph.Export(res.Root(), res.Generation(), res.Edges())

	var b strings.Builder
	for _, e := range snap.Edges {
		b.WriteString(e.Ancestor + " -> " + e.Descendant + "\n")
	}
	return enc.encode(snap, b.String())
}
