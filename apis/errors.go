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

import "errors"

var (
	// ErrInvalidTypeID is returned when a textual type identifier cannot be parsed.
	ErrInvalidTypeID = errors.New("tagx: invalid type identifier")
	// ErrTypeMismatch is returned by Cast when the target is not an ancestor of the instance type.
	ErrTypeMismatch = errors.New("tagx: type mismatch")
	// ErrNoMatchingAccessor is returned by a view when no ancestor declares the requested accessor.
	ErrNoMatchingAccessor = errors.New("tagx: no matching accessor")
	// ErrGraphInconsistency indicates that the dependency graph disagrees with
	// the metadata provider (e.g. a climb found no path or no meta-tag instance).
	ErrGraphInconsistency = errors.New("tagx: dependency graph inconsistency")
	// ErrNoValue is returned by an instance that has neither a value nor a default for an accessor.
	ErrNoValue = errors.New("tagx: accessor has no value")
	// ErrUnknownType is returned by providers asked about a type they never declared.
	ErrUnknownType = errors.New("tagx: unknown tag type")
)
