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

package builder

import (
	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/registry"
	"dirpx.dev/tagx/resolver"
	"dirpx.dev/tagx/strategy"
)

// Ext is the extension configuration this builder understands. Install it
// with tagx.SetExt (as Ext or *Ext); other ext values are ignored.
type Ext struct {
	// Namespaces are reserved in every registry the builder creates, on top
	// of the configured ones. Like configured namespaces they are not
	// migrated, so replacing the Ext drops them.
	Namespaces []string
	// Strategies run after the default exclusion chain.
	Strategies []apis.Strategy
}

// extOf extracts an Ext from the opaque ext value.
func extOf(ext any) Ext {
	switch e := ext.(type) {
	case Ext:
		return e
	case *Ext:
		if e != nil {
			return *e
		}
	}
	return Ext{}
}

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a registry seeded from cfg.ReservedNamespaces and the
// Ext namespaces. Prefixes reserved at runtime in preg (its Additions) are
// carried over; its seeds are not, so a new configuration can drop them.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, ext any) apis.Registry {
	nreg := registry.New(cfg, extOf(ext).Namespaces...)
	if preg != nil {
		for _, p := range preg.Additions() {
			_ = nreg.Register(p)
		}
	}
	return nreg
}

// BuildResolver builds a resolver over prov that skips anonymous types,
// namespaces reserved in reg, cfg.ReservedPatterns and whatever the Ext
// strategies exclude.
//
// A pre-existing resolver is never reused: its graph was discovered under the
// previous exclusions and root.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, prov apis.Provider, _ apis.Resolver, ext any) apis.Resolver {
	chain := append(strategy.Default(cfg, reg), extOf(ext).Strategies...)
	return resolver.New(cfg, prov, chain...)
}
