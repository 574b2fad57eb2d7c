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

// Package document loads tag hierarchies from YAML, JSON and HCL files into a
// static provider.
//
// A document declares tag types, their fields and meta-tags, and named
// instances:
//
//	types:
//	  - type: example.com/tags.Inheriting
//	    fields:
//	      - {name: value, type: string}
//	    meta:
//	      - type: example.com/tags.Base
//	instances:
//	  annotated:
//	    type: example.com/tags.Nested
//	    values: {value: Test3}
//
// The HCL form uses tag, field, meta and instance blocks:
//
//	tag "example.com/tags.Inheriting" {
//	  field "value" { type = string }
//	  meta "example.com/tags.Base" {}
//	}
//
// Declarations may reference types declared later or in other files of the
// same Load call. The root marker is declared implicitly.
package document
