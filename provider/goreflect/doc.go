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

// Package goreflect is an apis.Provider over plain Go types.
//
// A tag type is a named struct type. Its TypeID is its package path and type
// name (or the result of apis.Namer on the zero value). It extends other tag
// types by implementing apis.MetaTagger on a value receiver:
//
//	type Inheriting struct {
//		Value string `tagx:"value"`
//	}
//
//	func (Inheriting) MetaTags() []any { return []any{Base{}} }
//
// Accessors are the exported fields (renamed with the tagx struct tag, or
// skipped with `tagx:"-"`) and the exported value-receiver methods returning
// one value, optionally followed by an error. The struct tag option
// "override" (`tagx:"value,override"`) documents intentional shadowing of an
// ancestor's field and has no effect on resolution.
package goreflect
