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

package view

import (
	"fmt"
	"reflect"

	"dirpx.dev/tagx/apis"
)

// Get invokes the accessor name on v, deriving the signature from T and the
// dynamic types of args, and asserts the result to T.
//
//	s, err := view.Get[string](v, "value")
func Get[T any](v *View, name string, args ...any) (T, error) {
	var zero T
	sig := apis.Signature{Name: name, Returns: reflect.TypeFor[T]().String()}
	for _, a := range args {
		at := reflect.TypeOf(a)
		if at == nil {
			at = reflect.TypeFor[any]()
		}
		sig.Params = append(sig.Params, at.String())
	}
	out, err := v.Invoke(sig, args...)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", apis.ErrTypeMismatch, sig, out)
	}
	return typed, nil
}
