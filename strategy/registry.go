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

// NewRegistryStrategy creates an apis.Strategy that excludes types declared in
// a namespace reserved by reg.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults a provided reserved namespace registry.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryExclude looks up t's namespace in the registry.
func (s *registryStrategy) TryExclude(t apis.TypeID, _ apis.Config) (string, bool) {
	if s.reg == nil {
		return "", false
	}
	if p, ok := s.reg.Lookup(t.Namespace); ok {
		return "reserved:" + p, true
	}
	return "", false
}
