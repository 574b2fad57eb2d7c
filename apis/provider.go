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

// Provider is the read-only source of tag declarations. The dependency
// resolver and the view synthesizer never reflect on declarations directly;
// everything they know about a type comes from here.
type Provider interface {
	// Declares reports whether t is known to the provider. The resolver only
	// remembers a type as unrooted when every type it walked is declared.
	Declares(t TypeID) bool
	// Accessors returns the accessors declared by t itself (not inherited ones).
	// Unknown types yield nil.
	Accessors(t TypeID) []Signature
	// MetaTags returns the meta-tag instances attached to t's own declaration.
	// Unknown types yield nil.
	MetaTags(t TypeID) []Instance
}

// MetaTag returns the meta-tag instance of type of attached to the declaration of on.
func MetaTag(p Provider, on, of TypeID) (Instance, bool) {
	for _, m := range p.MetaTags(on) {
		if m != nil && m.Type() == of {
			return m, true
		}
	}
	return nil, false
}

// FindAccessor returns the accessor declared by t that structurally matches sig.
func FindAccessor(p Provider, t TypeID, sig Signature) (Signature, bool) {
	for _, a := range p.Accessors(t) {
		if a.Matches(sig) {
			return a, true
		}
	}
	return Signature{}, false
}
