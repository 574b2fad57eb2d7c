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

import (
	"maps"
	"slices"
)

// TypeSet is an unordered set of tag types.
type TypeSet map[TypeID]struct{}

// NewTypeSet returns a set holding ids.
func NewTypeSet(ids ...TypeID) TypeSet {
	s := make(TypeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s TypeSet) Add(id TypeID) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s TypeSet) Has(id TypeID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of elements.
func (s TypeSet) Len() int { return len(s) }

// Sorted returns the elements ordered by their string form.
func (s TypeSet) Sorted() []TypeID {
	out := slices.Collect(maps.Keys(s))
	SortTypeIDs(out)
	return out
}

// SortTypeIDs orders ids by their string form.
func SortTypeIDs(ids []TypeID) {
	slices.SortFunc(ids, func(a, b TypeID) int {
		switch sa, sb := a.String(), b.String(); {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
}
