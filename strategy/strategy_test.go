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
	"testing"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/config"
	"dirpx.dev/tagx/registry"
)

func id(ns, name string) apis.TypeID { return apis.TypeID{Namespace: ns, Name: name} }

func TestAnonymousStrategy(t *testing.T) {
	s := NewAnonymousStrategy()
	cfg := config.DefaultConfig()

	cases := []struct {
		name string
		typ  apis.TypeID
		want bool
	}{
		{"no namespace", id("", "int"), true},
		{"no name", id("example.com/tags", ""), true},
		{"zero", apis.TypeID{}, true},
		{"named", id("example.com/tags", "Base"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, got := s.TryExclude(tc.typ, cfg); got != tc.want {
				t.Fatalf("TryExclude(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestRegistryStrategy(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	s := NewRegistryStrategy(reg)

	reason, ok := s.TryExclude(id("sync/atomic", "Value"), cfg)
	if !ok || reason != "reserved:sync" {
		t.Fatalf("TryExclude(sync/atomic.Value) = (%q,%v), want (reserved:sync,true)", reason, ok)
	}
	if _, ok := s.TryExclude(id("example.com/tags", "Base"), cfg); ok {
		t.Fatalf("TryExclude(example.com/tags.Base): want not excluded")
	}

	// Runtime registration is observed immediately.
	if err := reg.Register("example.com/tags"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := s.TryExclude(id("example.com/tags", "Base"), cfg); !ok {
		t.Fatalf("TryExclude after Register: want excluded")
	}
}

func TestRegistryStrategy_NilRegistry(t *testing.T) {
	s := NewRegistryStrategy(nil)
	if _, ok := s.TryExclude(id("sync", "Mutex"), config.DefaultConfig()); ok {
		t.Fatalf("nil registry must never exclude")
	}
}

func TestPatternStrategy(t *testing.T) {
	if NewPatternStrategy() != nil {
		t.Fatalf("NewPatternStrategy() without patterns must be nil")
	}

	s := NewPatternStrategy("internal", "gen/")
	cfg := config.DefaultConfig()

	cases := []struct {
		ns   string
		want bool
	}{
		{"example.com/app/internal/markers", true},
		{"example.com/app/gen/tags", true},
		{"example.com/app/tags", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, got := s.TryExclude(id(tc.ns, "T"), cfg); got != tc.want {
			t.Fatalf("TryExclude(%q) = %v, want %v", tc.ns, got, tc.want)
		}
	}
}

func TestChain_OrderAndNilFiltering(t *testing.T) {
	cfg := config.NewConfig(config.WithReservedPatterns("legacy"))
	reg := registry.New(cfg)
	c := Default(cfg, reg)

	if len(c) != 3 {
		t.Fatalf("len(Default) = %d, want 3", len(c))
	}
	if reason, ok := c.TryExclude(id("", "string"), cfg); !ok || reason != "anonymous" {
		t.Fatalf("anonymous: got (%q,%v)", reason, ok)
	}
	if reason, ok := c.TryExclude(id("reflect", "Type"), cfg); !ok || reason != "reserved:reflect" {
		t.Fatalf("reserved: got (%q,%v)", reason, ok)
	}
	if _, ok := c.TryExclude(id("example.com/legacy", "Old"), cfg); !ok {
		t.Fatalf("pattern: want excluded")
	}
	if _, ok := c.TryExclude(id("example.com/tags", "Base"), cfg); ok {
		t.Fatalf("plain type: want not excluded")
	}

	// Without patterns the pattern strategy is nil and dropped.
	if got := len(Default(config.DefaultConfig(), reg)); got != 2 {
		t.Fatalf("len(Default) without patterns = %d, want 2", got)
	}
	if got := len(NewChain(nil, nil)); got != 0 {
		t.Fatalf("len(NewChain(nil, nil)) = %d, want 0", got)
	}
}
