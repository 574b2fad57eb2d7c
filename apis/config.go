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

import "log/slog"

// Config carries read-only resolution knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Root is the root marker every meaningful hierarchy descends from.
	Root TypeID

	// ReservedNamespaces seeds the reserved namespace registry. Types declared
	// in these namespaces are skipped during discovery.
	ReservedNamespaces []string

	// ReservedPatterns are gitignore-style patterns matched against namespaces.
	ReservedPatterns []string

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when Go values are normalized to tag types.
	MaxUnwrap int

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// Log returns cfg.Logger or the default logger.
func (cfg Config) Log() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}
