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

package config_test

import (
	"log/slog"
	"slices"
	"testing"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.Root != config.DefaultRoot {
		t.Fatalf("Root = %v, want %v", got.Root, config.DefaultRoot)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if !slices.Equal(got.ReservedNamespaces, config.DefaultReservedNamespaces) {
		t.Fatalf("ReservedNamespaces = %v, want %v", got.ReservedNamespaces, config.DefaultReservedNamespaces)
	}
	if got.Logger != nil {
		t.Fatalf("Logger = %v, want nil", got.Logger)
	}
}

func TestDefaultConfig_DoesNotAliasDefaults(t *testing.T) {
	got := config.DefaultConfig()
	got.ReservedNamespaces[0] = "mutated"
	if config.DefaultReservedNamespaces[0] == "mutated" {
		t.Fatalf("DefaultConfig shares its slice with DefaultReservedNamespaces")
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got.Root != def.Root || got.MaxUnwrap != def.MaxUnwrap ||
		!slices.Equal(got.ReservedNamespaces, def.ReservedNamespaces) {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithRoot(t *testing.T) {
	root := apis.TypeID{Namespace: "example.com/tags", Name: "Root"}
	c := config.NewConfig(config.WithRoot(root))
	if c.Root != root {
		t.Fatalf("Root = %v, want %v", c.Root, root)
	}

	c2 := config.NewConfig(config.WithRoot(apis.TypeID{}))
	if c2.Root != config.DefaultRoot {
		t.Fatalf("zero Root = %v, want default %v", c2.Root, config.DefaultRoot)
	}
}

func TestWithReservedNamespaces(t *testing.T) {
	c := config.NewConfig(config.WithReservedNamespaces("example.com/infra"))
	if !slices.Contains(c.ReservedNamespaces, "example.com/infra") {
		t.Fatalf("ReservedNamespaces = %v, want example.com/infra appended", c.ReservedNamespaces)
	}
	if !slices.Contains(c.ReservedNamespaces, "runtime") {
		t.Fatalf("ReservedNamespaces = %v, defaults dropped", c.ReservedNamespaces)
	}

	c2 := config.NewConfig(
		config.WithoutDefaultReservedNamespaces(),
		config.WithReservedNamespaces("only"),
	)
	if !slices.Equal(c2.ReservedNamespaces, []string{"only"}) {
		t.Fatalf("ReservedNamespaces = %v, want [only]", c2.ReservedNamespaces)
	}
}

func TestWithReservedPatterns(t *testing.T) {
	c := config.NewConfig(config.WithReservedPatterns("**/internal/**", "gen/*"))
	if !slices.Equal(c.ReservedPatterns, []string{"**/internal/**", "gen/*"}) {
		t.Fatalf("ReservedPatterns = %v", c.ReservedPatterns)
	}
}

func TestWithMaxUnwrap_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(3))
	if c.MaxUnwrap != 3 {
		t.Fatalf("MaxUnwrap = %d, want 3", c.MaxUnwrap)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestWithLogger(t *testing.T) {
	l := slog.New(slog.DiscardHandler)
	c := config.NewConfig(config.WithLogger(l))
	if c.Logger != l {
		t.Fatalf("Logger not applied")
	}
	if c.Log() != l {
		t.Fatalf("Log() did not return configured logger")
	}
	if config.DefaultConfig().Log() == nil {
		t.Fatalf("Log() on default config returned nil")
	}
}
