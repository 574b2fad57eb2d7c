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
	ignore "github.com/sabhiram/go-gitignore"

	"dirpx.dev/tagx/apis"
)

// NewPatternStrategy creates an apis.Strategy that excludes types whose
// namespace matches one of the gitignore-style patterns. Patterns apply to the
// namespace as a slash path, so "**/internal" reserves every internal package
// and "gen/" reserves everything below a "gen" segment.
// It returns nil when no patterns are given.
func NewPatternStrategy(patterns ...string) apis.Strategy {
	if len(patterns) == 0 {
		return nil
	}
	return &patternStrategy{m: ignore.CompileIgnoreLines(patterns...)}
}

// patternStrategy matches namespaces against compiled patterns.
type patternStrategy struct {
	m *ignore.GitIgnore
}

// Ensure patternStrategy implements apis.Strategy.
var _ apis.Strategy = (*patternStrategy)(nil)

// TryExclude matches t's namespace against the compiled patterns.
func (s *patternStrategy) TryExclude(t apis.TypeID, _ apis.Config) (string, bool) {
	if t.Namespace == "" {
		return "", false
	}
	if matched, how := s.m.MatchesPathHow(t.Namespace); matched {
		if how != nil {
			return "pattern:" + how.Line, true
		}
		return "pattern", true
	}
	return "", false
}
