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

// Package levels flattens a sequence of per-level collections into a single
// level-order (breadth-first) traversal.
package levels

import "iter"

// Seq yields every item of levels[0], then levels[1], and so on.
// Empty levels are skipped. Stopping early is honored.
func Seq[T any](levels [][]T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, level := range levels {
			for _, item := range level {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Flatten collects Seq(levels) into a slice, dropping repeated items so that
// each item appears at its lowest level only.
func Flatten[T comparable](levels [][]T) []T {
	var out []T
	seen := make(map[T]struct{})
	for item := range Seq(levels) {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
