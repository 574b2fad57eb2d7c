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

package static

import (
	"fmt"
	"maps"

	"dirpx.dev/tagx/apis"
)

// Tag is an instance of a statically declared tag type.
type Tag struct {
	id     apis.TypeID
	fields map[string]Field
	values map[string]any
}

// Ensure Tag implements apis.Instance.
var _ apis.Instance = (*Tag)(nil)

// Type returns the tag type.
func (t *Tag) Type() apis.TypeID { return t.id }

// Values returns a copy of the explicitly set field values.
func (t *Tag) Values() map[string]any { return maps.Clone(t.values) }

// Invoke returns the value of the field matching sig, falling back to its
// default. apis.AccessorFunc values are called with args.
func (t *Tag) Invoke(sig apis.Signature, args ...any) (any, error) {
	f, ok := t.fields[sig.Name]
	if !ok || !f.Signature().Matches(sig) {
		return nil, fmt.Errorf("%w: %s on %s", apis.ErrNoMatchingAccessor, sig, t.id)
	}
	v, ok := t.values[sig.Name]
	if !ok {
		if f.Default == nil {
			return nil, fmt.Errorf("%w: %s.%s", apis.ErrNoValue, t.id, sig.Name)
		}
		v = f.Default
	}
	if fn, ok := v.(apis.AccessorFunc); ok {
		return fn(args...)
	}
	return v, nil
}

// String renders the tag as "Type{field=value, ...}".
func (t *Tag) String() string {
	return fmt.Sprintf("%s%v", t.id, t.values)
}
