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

package apis

// Registry holds the reserved namespace prefixes that hierarchy discovery
// must skip. It is mutable at runtime and never persisted.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register adds a reserved prefix. Implementations should be idempotent.
	Register(prefix string) error
	// Lookup returns the reserved prefix covering namespace, if any.
	Lookup(namespace string) (prefix string, ok bool)
	// Entries returns a sorted snapshot of the registered prefixes.
	Entries() []string
	// Additions returns the sorted prefixes registered after construction,
	// i.e. not seeded from the configuration. Builders migrate only these.
	Additions() []string
	// Count returns the number of registered prefixes.
	Count() int
	// Reset clears all registered prefixes.
	Reset()
}
