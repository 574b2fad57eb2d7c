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

// Package graph is the store behind the dependency resolver: a directed graph
// of tag types where an edge A -> B means "B carries A as a meta-tag".
//
// Edges are deduplicated and self-loops are rejected. A Graph is not safe for
// concurrent mutation; the resolver treats every published Graph as immutable
// and mutates only private clones (see package resolver).
package graph
