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

package config

import (
	"log/slog"
	"slices"

	"dirpx.dev/tagx/apis"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
)

var (
	// DefaultRoot is the default root marker.
	DefaultRoot = apis.TypeID{Namespace: "dirpx.dev/tagx", Name: "Aspect"}

	// DefaultReservedNamespaces are the infrastructure namespaces skipped by default.
	DefaultReservedNamespaces = []string{
		"runtime",
		"reflect",
		"sync",
		"unsafe",
		"internal",
		"vendor",
		"golang.org/x",
	}
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap and Root are valid.
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.Root.IsZero() {
		cfg.Root = DefaultRoot
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Root:               DefaultRoot,
		ReservedNamespaces: slices.Clone(DefaultReservedNamespaces),
		MaxUnwrap:          DefaultMaxUnwrap,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithRoot sets the root marker. The zero TypeID resets to the default.
func WithRoot(root apis.TypeID) Option {
	return func(c *apis.Config) {
		if root.IsZero() {
			c.Root = DefaultRoot
			return
		}
		c.Root = root
	}
}

// WithReservedNamespaces appends reserved namespace prefixes.
func WithReservedNamespaces(prefixes ...string) Option {
	return func(c *apis.Config) {
		c.ReservedNamespaces = append(c.ReservedNamespaces, prefixes...)
	}
}

// WithoutDefaultReservedNamespaces drops the default reserved prefixes.
// Options applied afterwards may add new ones.
func WithoutDefaultReservedNamespaces() Option {
	return func(c *apis.Config) {
		c.ReservedNamespaces = nil
	}
}

// WithReservedPatterns appends gitignore-style namespace patterns.
func WithReservedPatterns(patterns ...string) Option {
	return func(c *apis.Config) {
		c.ReservedPatterns = append(c.ReservedPatterns, patterns...)
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A non-positive value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
