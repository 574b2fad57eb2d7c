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

// Package view synthesizes capability views: given a tag instance and one of
// its ancestor tag types, a View answers that ancestor's accessors (and those
// of every other ancestor) with values resolved through the hierarchy.
//
// Accessor dispatch is an explicit table from signature to a bound instance,
// filled lazily. For a requested signature the first match wins, in order:
//
//  1. the instance's own type (a descendant shadows inherited fields);
//  2. the requested ancestor type, bound to the nearest meta-tag instance of
//     that ancestor found by climbing the shortest path in the graph;
//  3. every other ancestor in level order, climbed the same way.
//
// Casting only validates the type relationship. A missing accessor is
// reported when it is invoked.
package view
