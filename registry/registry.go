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

package registry

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"dirpx.dev/tagx/apis"
)

var (
	// ErrEmptyPrefix is returned when an empty prefix is provided.
	ErrEmptyPrefix = errors.New("tagx(registry): empty namespace prefix provided")
)

// New constructs a Registry seeded with cfg.ReservedNamespaces and seeds.
// Invalid seed entries are ignored. Seeds are not reported by Additions.
func New(cfg apis.Config, seeds ...string) apis.Registry {
	r := &registry{}
	for _, p := range cfg.ReservedNamespaces {
		_ = r.add(p, false)
	}
	for _, p := range seeds {
		_ = r.add(p, false)
	}
	return r
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps normalized prefixes to true for runtime additions, false for seeds.
	m sync.Map // map[string]bool
	// count tracks the number of registered entries.
	count int
}

// Register adds a reserved prefix. It is idempotent. Registering a seeded
// prefix marks it as a runtime addition.
func (r *registry) Register(prefix string) error {
	return r.add(prefix, true)
}

// add stores prefix, counting it once.
func (r *registry) add(prefix string, added bool) error {
	p := Normalize(prefix)
	if p == "" {
		return ErrEmptyPrefix
	}

	// Fast read path: idempotency check without locking.
	if v, ok := r.m.Load(p); ok && (v.(bool) || !added) {
		return nil
	}

	// Write path: guard with a mutex to keep counter consistent.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	v, ok := r.m.Load(p)
	if ok && (v.(bool) || !added) {
		return nil
	}
	r.m.Store(p, added)
	if !ok {
		r.count++
	}
	return nil
}

// Lookup returns the longest registered prefix covering namespace.
func (r *registry) Lookup(namespace string) (string, bool) {
	if namespace == "" {
		return "", false
	}
	best := ""
	r.m.Range(func(key, _ any) bool {
		p := key.(string)
		if Covers(p, namespace) && len(p) > len(best) {
			best = p
		}
		return true
	})
	return best, best != ""
}

// Entries returns a sorted snapshot of the registered prefixes.
func (r *registry) Entries() []string {
	entries := make([]string, 0, r.Count())
	r.m.Range(func(key, _ any) bool {
		entries = append(entries, key.(string))
		return true
	})
	slices.Sort(entries)
	return entries
}

// Additions returns a sorted snapshot of the prefixes added by Register.
func (r *registry) Additions() []string {
	var out []string
	r.m.Range(func(key, v any) bool {
		if v.(bool) {
			out = append(out, key.(string))
		}
		return true
	})
	slices.Sort(out)
	return out
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}

// Normalize trims surrounding whitespace from prefix. A lone "/" is empty.
// A trailing "/" or "." is kept since it selects raw string-prefix matching.
func Normalize(prefix string) string {
	p := strings.TrimSpace(prefix)
	if p == "/" {
		return ""
	}
	return p
}

// Covers reports whether prefix p reserves namespace ns. Matching is path
// segment aware: "sync" covers "sync" and "sync/atomic" but not "syncthing".
// A prefix ending in "/" or "." matches any namespace starting with it, so
// "example.com/x/" covers "example.com/x/y" but not "example.com/x".
func Covers(p, ns string) bool {
	if p == "" || ns == "" {
		return false
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".") {
		return strings.HasPrefix(ns, p)
	}
	return ns == p || strings.HasPrefix(ns, p+"/")
}
