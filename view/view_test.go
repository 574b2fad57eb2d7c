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

package view_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/internal/testutil"
	"dirpx.dev/tagx/provider/static"
	"dirpx.dev/tagx/registry"
	"dirpx.dev/tagx/resolver"
	"dirpx.dev/tagx/strategy"
	"dirpx.dev/tagx/view"
)

func newSynth(t *testing.T, p apis.Provider) *view.Synthesizer {
	t.Helper()
	cfg := testutil.Config()
	return view.New(resolver.New(cfg, p, strategy.Default(cfg, registry.New(cfg))...), nil)
}

func TestCast_ShadowWins(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)

	v, err := s.Cast(h.Nested, testutil.Inheriting)
	require.NoError(t, err)

	got, err := v.Invoke(testutil.Value)
	require.NoError(t, err)
	assert.Equal(t, "Test3", got)
}

func TestCast_ClimbsToDirectMetaTag(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)

	v, err := s.Cast(h.Multi, testutil.Inheriting)
	require.NoError(t, err)

	got, err := view.Get[string](v, "value")
	require.NoError(t, err)
	assert.Equal(t, "Test2", got)
}

func TestCast_TypeMismatch(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)

	_, err := s.Cast(h.Nested, testutil.Inheriting2)
	assert.ErrorIs(t, err, apis.ErrTypeMismatch)

	_, err = s.Cast(h.Nested, testutil.Nested)
	assert.ErrorIs(t, err, apis.ErrTypeMismatch, "a type is never an instance of itself")

	_, err = s.Cast(nil, testutil.Base)
	assert.ErrorIs(t, err, apis.ErrTypeMismatch)
}

func TestCast_Capabilities(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)

	v, err := s.Cast(h.Multi, testutil.Base)
	require.NoError(t, err)

	assert.Equal(t, testutil.Base, v.Target())
	assert.Same(t, h.Multi, v.Instance())
	assert.ElementsMatch(t, []apis.TypeID{
		testutil.Root, testutil.Base, testutil.Inheriting, testutil.Inheriting2, testutil.Multi,
	}, v.Capabilities())
	assert.True(t, v.Implements(testutil.Inheriting2))
	assert.False(t, v.Implements(testutil.Nested))
	assert.Len(t, v.Levels(), 4)
}

func TestInvoke_LevelOrderSearch(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)

	// Base declares nothing; "value" is found on Inheriting while scanning levels.
	v, err := s.Cast(h.Multi, testutil.Base)
	require.NoError(t, err)

	got, err := v.Invoke(testutil.Value)
	require.NoError(t, err)
	assert.Equal(t, "Test2", got)
}

func TestInvoke_NoMatchingAccessorIsDeferred(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)

	v, err := s.Cast(h.Multi, testutil.Inheriting)
	require.NoError(t, err, "casting validates the relationship only")

	_, err = v.Invoke(apis.Signature{Name: "missing", Returns: "string"})
	assert.ErrorIs(t, err, apis.ErrNoMatchingAccessor)
	assert.Contains(t, err.Error(), "missing() string")

	// Structural match requires the same return type.
	_, err = v.Invoke(apis.Signature{Name: "value", Returns: "int"})
	assert.ErrorIs(t, err, apis.ErrNoMatchingAccessor)

	_, err = view.Get[int](v, "value")
	assert.ErrorIs(t, err, apis.ErrNoMatchingAccessor)
}

func TestInvoke_NearestDeclarationWins(t *testing.T) {
	// Aspect <- Base <- Inheriting(value)
	// Mid carries Inheriting(value="far")
	// Leaf carries Mid and Inheriting(value="near")
	h := testutil.NewHierarchy()
	p := h.Provider
	mid := apis.TypeID{Namespace: testutil.NS, Name: "Mid"}
	leaf := apis.TypeID{Namespace: testutil.NS, Name: "Leaf"}

	p.MustDeclare(static.Decl{ID: mid, Meta: []apis.Instance{
		p.MustNew(testutil.Inheriting, map[string]any{"value": "far"}),
	}})
	p.MustDeclare(static.Decl{ID: leaf, Meta: []apis.Instance{
		p.MustNew(mid, nil),
		p.MustNew(testutil.Inheriting, map[string]any{"value": "near"}),
	}})

	s := newSynth(t, p)
	v, err := s.Cast(p.MustNew(leaf, nil), testutil.Inheriting)
	require.NoError(t, err)

	got, err := v.Invoke(testutil.Value)
	require.NoError(t, err)
	assert.Equal(t, "near", got)

	// Casting Mid yields its own meta-tag.
	v, err = s.Cast(p.MustNew(mid, nil), testutil.Inheriting)
	require.NoError(t, err)
	got, err = v.Invoke(testutil.Value)
	require.NoError(t, err)
	assert.Equal(t, "far", got)
}

func TestInvoke_DefaultsAndComputedAccessors(t *testing.T) {
	h := testutil.NewHierarchy()
	p := h.Provider
	sized := apis.TypeID{Namespace: testutil.NS, Name: "Sized"}
	user := apis.TypeID{Namespace: testutil.NS, Name: "User"}
	p.MustDeclare(static.Decl{
		ID: sized,
		Fields: []static.Field{
			{Name: "limit", Type: "int", Default: 10},
			{Name: "scale", Type: "int", Params: []string{"int"}},
		},
		Meta: []apis.Instance{p.MustNew(testutil.Base, nil)},
	})
	p.MustDeclare(static.Decl{ID: user, Meta: []apis.Instance{
		p.MustNew(sized, map[string]any{
			"scale": apis.AccessorFunc(func(args ...any) (any, error) { return args[0].(int) * 3, nil }),
		}),
	}})

	v, err := newSynth(t, p).Cast(p.MustNew(user, nil), sized)
	require.NoError(t, err)

	limit, err := view.Get[int](v, "limit")
	require.NoError(t, err)
	assert.Equal(t, 10, limit)

	scaled, err := view.Get[int](v, "scale", 4)
	require.NoError(t, err)
	assert.Equal(t, 12, scaled)
}

// countingProvider counts Accessors calls per type.
type countingProvider struct {
	apis.Provider
	mu       sync.Mutex
	accessor map[apis.TypeID]int
}

func (c *countingProvider) Accessors(t apis.TypeID) []apis.Signature {
	c.mu.Lock()
	c.accessor[t]++
	c.mu.Unlock()
	return c.Provider.Accessors(t)
}

func TestInvoke_BindingIsCachedPerView(t *testing.T) {
	h := testutil.NewHierarchy()
	p := &countingProvider{Provider: h.Provider, accessor: map[apis.TypeID]int{}}
	s := newSynth(t, p)

	v, err := s.Cast(h.Multi, testutil.Inheriting)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		got, err := v.Invoke(testutil.Value)
		require.NoError(t, err)
		assert.Equal(t, "Test2", got)
	}
	assert.Equal(t, 1, p.accessor[testutil.Multi], "resolution runs once")

	// A fresh view resolves again.
	v2, err := s.Cast(h.Multi, testutil.Inheriting)
	require.NoError(t, err)
	_, err = v2.Invoke(testutil.Value)
	require.NoError(t, err)
	assert.Equal(t, 2, p.accessor[testutil.Multi])
}

func TestInvoke_SharedViewIsRaceFree(t *testing.T) {
	h := testutil.NewHierarchy()
	s := newSynth(t, h.Provider)
	v, err := s.Cast(h.Nested, testutil.Inheriting)
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	results := make([]any, workers)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			results[id], _ = v.Invoke(testutil.Value)
		}(w)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Test3", r)
	}
}

func TestClimb(t *testing.T) {
	h := testutil.NewHierarchy()
	cfg := testutil.Config()
	r := resolver.New(cfg, h.Provider, strategy.Default(cfg, registry.New(cfg))...)
	r.ResolveDependencies(testutil.Nested)

	inst, err := view.Climb(r, testutil.Inheriting, testutil.Nested)
	require.NoError(t, err)
	assert.Same(t, h.NestedInheriting, inst)

	_, err = view.Climb(r, testutil.Nested, testutil.Inheriting)
	assert.ErrorIs(t, err, apis.ErrGraphInconsistency)
}
