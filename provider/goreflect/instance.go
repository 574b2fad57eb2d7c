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

package goreflect

import (
	"fmt"
	"reflect"

	"dirpx.dev/tagx/apis"
)

// Instance is a Go tag value.
type Instance struct {
	id   apis.TypeID
	v    reflect.Value
	info *typeInfo
}

// Ensure Instance implements apis.Instance.
var _ apis.Instance = (*Instance)(nil)

// Type returns the tag type.
func (i *Instance) Type() apis.TypeID { return i.id }

// Value returns the wrapped Go value.
func (i *Instance) Value() any { return i.v.Interface() }

// Invoke reads the field or calls the method matching sig.
func (i *Instance) Invoke(sig apis.Signature, args ...any) (any, error) {
	idx, ok := i.info.byName[sig.Name]
	if !ok || !i.info.accessors[idx].sig.Matches(sig) {
		return nil, fmt.Errorf("%w: %s on %s", apis.ErrNoMatchingAccessor, sig, i.id)
	}
	a := i.info.accessors[idx]
	if a.field != nil {
		return i.v.FieldByIndex(a.field).Interface(), nil
	}

	m := i.v.Method(a.method)
	mt := m.Type()
	if len(args) != mt.NumIn() {
		return nil, fmt.Errorf("tagx(goreflect): %s on %s: got %d arguments, want %d", sig, i.id, len(args), mt.NumIn())
	}
	in := make([]reflect.Value, len(args))
	for k, arg := range args {
		pt := mt.In(k)
		if arg == nil {
			in[k] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("tagx(goreflect): %s on %s: argument %d is %v, want %v", sig, i.id, k, av.Type(), pt)
		}
		in[k] = av
	}
	out := m.Call(in)
	if a.withErr {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// String renders the instance as "Type{...}".
func (i *Instance) String() string {
	return fmt.Sprintf("%s%+v", i.id, i.v.Interface())
}
