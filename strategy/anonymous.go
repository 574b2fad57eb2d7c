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

// NewAnonymousStrategy creates an apis.Strategy that excludes types without a
// namespace or name. Such types are builtins, proxies or synthesized values
// and never take part in a hierarchy.
func NewAnonymousStrategy() apis.Strategy {
	return &anonymousStrategy{}
}

// anonymousStrategy is a zero-cost fast path.
type anonymousStrategy struct{}

// Ensure anonymousStrategy implements apis.Strategy.
var _ apis.Strategy = (*anonymousStrategy)(nil)

// TryExclude excludes t when its namespace or name is empty.
func (*anonymousStrategy) TryExclude(t apis.TypeID, _ apis.Config) (string, bool) {
	if t.Namespace == "" || t.Name == "" {
		return "anonymous", true
	}
	return "", false
}
