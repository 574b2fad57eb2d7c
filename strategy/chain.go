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

package strategy

import (
	"dirpx.dev/tagx/apis"
)

// Chain is an immutable, order-preserving sequence of strategies.
type Chain []apis.Strategy

// NewChain constructs a Chain from the given strategies in order.
// Nil strategies are ignored.
func NewChain(strategies ...apis.Strategy) Chain {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make(Chain, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Ensure Chain implements apis.Strategy.
var _ apis.Strategy = Chain(nil)

// TryExclude runs strategies in order until one excludes t.
func (c Chain) TryExclude(t apis.TypeID, cfg apis.Config) (string, bool) {
	for _, s := range c {
		if reason, ok := s.TryExclude(t, cfg); ok {
			return reason, true
		}
	}
	return "", false
}

// Default returns the standard exclusion chain for cfg:
// anonymous types, then reserved prefixes in reg, then cfg.ReservedPatterns.
func Default(cfg apis.Config, reg apis.Registry) Chain {
	return NewChain(
		NewAnonymousStrategy(),
		NewRegistryStrategy(reg),
		NewPatternStrategy(cfg.ReservedPatterns...),
	)
}
