package tagx

import (
	"errors"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/builder"
	"dirpx.dev/tagx/config"
	"dirpx.dev/tagx/provider/static"
	"dirpx.dev/tagx/registry"
	uref "dirpx.dev/tagx/utils/reflect"
	"dirpx.dev/tagx/view"
)

// ---------------------- Helpers ----------------------

// Reset to a clean snapshot using our test builder.
// This fully replaces builder, config, ext and provider and rebuilds
// registry/resolver. Pins are reset because we pass nil reg/res.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	SetAll(&cfg, ext, nil, nil, nil, b)
	tb.Cleanup(func() { resetDefault(tb) })
}

// resetDefault restores the state published by init. The registry is
// replaced, not rebuilt, so namespaces reserved by a test do not carry over.
func resetDefault(tb testing.TB) {
	tb.Helper()
	cfg := config.DefaultConfig()
	SetAll(&cfg, nil, nil, registry.New(cfg), nil, builder.New())
	UnpinRegistry()
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[string]struct{}
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[string]struct{})}
}

func (m *mockRegistry) Register(prefix string) error {
	m.mu.Lock()
	m.data[prefix] = struct{}{}
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(ns string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[ns]
	return ns, ok
}
func (m *mockRegistry) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p := range m.data {
		out = append(out, p)
	}
	return out
}
func (m *mockRegistry) Additions() []string { return m.Entries() }
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset()     { m.mu.Lock(); m.data = make(map[string]struct{}); m.mu.Unlock() }

type mockResolver struct {
	id   string
	prov apis.Provider
	mu   sync.Mutex
	n    int
}

func (r *mockResolver) hit() {
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
}

func (r *mockResolver) Root() apis.TypeID { return config.DefaultRoot }
func (r *mockResolver) Provider() apis.Provider { return r.prov }
func (r *mockResolver) ResolveDependencies(apis.TypeID) []apis.Edge { r.hit(); return nil }
func (r *mockResolver) FlattenDependencies(apis.TypeID) apis.TypeSet { r.hit(); return apis.NewTypeSet() }
func (r *mockResolver) IsInstanceOf(apis.TypeID, apis.TypeID) bool { r.hit(); return false }
func (r *mockResolver) Levels(apis.TypeID) [][]apis.TypeID { return nil }
func (r *mockResolver) ShortestPath(apis.TypeID, apis.TypeID) ([]apis.Edge, bool) { return nil, false }
func (r *mockResolver) Edges() []apis.Edge { return nil }
func (r *mockResolver) Generation() uint64 { return 0 }

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastExt        any
	lastProv       apis.Provider
	lastPrevRegID  string
	lastPrevResID  string
	regCounter     int
	resCounter     int
	returnFixedReg apis.Registry // optional override
	returnFixedRes apis.Resolver // optional override
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if prev != nil {
		if mr, ok := prev.(*mockRegistry); ok {
			b.lastPrevRegID = mr.id
		}
	}
	if b.returnFixedReg != nil {
		return b.returnFixedReg
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prov apis.Provider, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt, b.lastProv = cfg, ext, prov
	if prev != nil {
		if mr, ok := prev.(*mockResolver); ok {
			b.lastPrevResID = mr.id
		}
	}
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter), prov: prov}
}

func cfgWithRoot(name string) apis.Config {
	return config.NewConfig(config.WithRoot(apis.TypeID{Namespace: "example.com/roots", Name: name}))
}

// ---------------------- Go tag fixture ----------------------

type base struct{}

// reflect.Method lives in a reserved namespace and is skipped by discovery.
func (base) MetaTags() []any { return []any{Aspect{}, reflect.Method{}} }

type inheriting struct {
	Value string `tagx:"value"`
}

func (inheriting) MetaTags() []any { return []any{base{}} }

type inheriting2 struct{}

func (inheriting2) MetaTags() []any { return []any{base{}} }

type nested struct {
	Value string `tagx:"value,override"`
}

func (nested) MetaTags() []any { return []any{inheriting{Value: "Test"}} }

type multi struct{}

func (multi) MetaTags() []any { return []any{inheriting{Value: "Test2"}, inheriting2{}} }

type brokenBase struct{}

func mustTypeFor[T any](t *testing.T) apis.TypeID {
	t.Helper()
	id, err := TypeFor[T]()
	if err != nil {
		t.Fatalf("TypeFor[%T]: %v", *new(T), err)
	}
	return id
}

// ---------------------- Tests ----------------------

func TestAspectIsDefaultRoot(t *testing.T) {
	if got := mustTypeFor[Aspect](t); got != config.DefaultRoot {
		t.Fatalf("TypeFor[Aspect] = %v, want %v", got, config.DefaultRoot)
	}
	if n := FlattenDependencies(config.DefaultRoot).Len(); n != 0 {
		t.Fatalf("FlattenDependencies(root) has %d types, want 0", n)
	}
}

func TestGoTags_EndToEnd(t *testing.T) {
	resetDefault(t)

	nestedID, inheritingID := mustTypeFor[nested](t), mustTypeFor[inheriting](t)
	baseID := mustTypeFor[base](t)

	if !Is[inheriting](nested{}) || !Is[base](nested{}) || !Is[Aspect](&nested{}) {
		t.Fatal("nested should be an instance of inheriting, base and Aspect")
	}
	if Is[nested](nested{}) {
		t.Fatal("a type is never an instance of itself")
	}
	if Is[base](brokenBase{}) {
		t.Fatal("unrooted type reported as instance")
	}
	if !IsInstanceOf(nestedID, baseID) {
		t.Fatalf("IsInstanceOf(%v, %v) = false, want true", nestedID, baseID)
	}

	deps := FlattenDependencies(nestedID)
	want := apis.NewTypeSet(config.DefaultRoot, baseID, inheritingID)
	if !reflect.DeepEqual(deps, want) {
		t.Fatalf("FlattenDependencies(nested) = %v, want %v", deps.Sorted(), want.Sorted())
	}
	if n := len(ResolveDependencies(nestedID)); n != 3 {
		t.Fatalf("ResolveDependencies(nested) has %d edges, want 3", n)
	}

	v, err := As[inheriting](nested{Value: "Test3"})
	if err != nil {
		t.Fatalf("As[inheriting]: %v", err)
	}
	if got, err := view.Get[string](v, "value"); err != nil || got != "Test3" {
		t.Fatalf("value = %q,%v, want %q", got, err, "Test3")
	}

	v, err = As[inheriting](multi{})
	if err != nil {
		t.Fatalf("As[inheriting]: %v", err)
	}
	if got, err := view.Get[string](v, "value"); err != nil || got != "Test2" {
		t.Fatalf("value = %q,%v, want %q", got, err, "Test2")
	}

	if _, err := As[nested](multi{}); !errors.Is(err, apis.ErrTypeMismatch) {
		t.Fatalf("As[nested](multi) err = %v, want ErrTypeMismatch", err)
	}
	if _, err := Cast(42, baseID); !errors.Is(err, ErrNotAnInstance) {
		t.Fatalf("Cast(42) err = %v, want ErrNotAnInstance", err)
	}
}

func TestReserveNamespace_AffectsOnlyNewDiscovery(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	nestedID := mustTypeFor[nested](t)
	if !IsInstanceOf(nestedID, config.DefaultRoot) {
		t.Fatal("nested should be rooted")
	}

	if err := ReserveNamespace(nestedID.Namespace); err != nil {
		t.Fatalf("ReserveNamespace: %v", err)
	}
	if !IsInstanceOf(nestedID, config.DefaultRoot) {
		t.Fatal("already resolved types keep their place")
	}
	if Is[inheriting2](multi{}) {
		t.Fatal("multi was discovered through a reserved namespace")
	}
}

func TestQueryBeforeFirstUse(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	// The id is computed without registering nested with the provider.
	nestedID := uref.TypeID(reflect.TypeFor[nested]())
	if n := FlattenDependencies(nestedID).Len(); n != 0 {
		t.Fatalf("FlattenDependencies(unregistered nested) has %d types, want 0", n)
	}

	if _, err := As[inheriting](nested{Value: "Test3"}); err != nil {
		t.Fatalf("As[inheriting] after an early query: %v", err)
	}
	if !IsInstanceOf(nestedID, mustTypeFor[base](t)) {
		t.Fatalf("IsInstanceOf(%v, base) = false, want true", nestedID)
	}
}

func TestSetConfig_DropsRemovedDefaults_KeepsReservations(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	if err := ReserveNamespace("example.com/infra"); err != nil {
		t.Fatalf("ReserveNamespace: %v", err)
	}
	SetConfig(config.NewConfig(config.WithoutDefaultReservedNamespaces()))

	if p, ok := Registry().Lookup("sync"); ok {
		t.Fatalf("Lookup(sync) = %q,true, want the removed default gone", p)
	}
	if got := Registry().Entries(); !slices.Equal(got, []string{"example.com/infra"}) {
		t.Fatalf("Entries = %v, want [example.com/infra]", got)
	}
}

// excludeByName excludes types by name.
type excludeByName string

func (n excludeByName) TryExclude(t apis.TypeID, _ apis.Config) (string, bool) {
	return "name", t.Name == string(n)
}

func TestSetExt_ExtendsDefaultBuilder(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	multiID, inh2ID := mustTypeFor[multi](t), mustTypeFor[inheriting2](t)
	if !IsInstanceOf(multiID, inh2ID) {
		t.Fatal("IsInstanceOf(multi, inheriting2) = false, want true")
	}

	SetExt(builder.Ext{Strategies: []apis.Strategy{excludeByName(inh2ID.Name)}})
	if IsInstanceOf(multiID, inh2ID) {
		t.Fatal("IsInstanceOf(multi, inheriting2) = true, want the Ext strategy to exclude it")
	}
	if !IsInstanceOf(multiID, mustTypeFor[inheriting](t)) {
		t.Fatal("IsInstanceOf(multi, inheriting) = false, want true")
	}
	if ext, ok := ExtAs[builder.Ext](); !ok || len(ext.Strategies) != 1 {
		t.Fatalf("ExtAs = %#v,%v, want the installed Ext", ext, ok)
	}

	SetExt(builder.Ext{Namespaces: []string{uref.TypeID(reflect.TypeFor[multi]()).Namespace}})
	if IsInstanceOf(multiID, inh2ID) {
		t.Fatal("IsInstanceOf(multi, inheriting2) = true, want the Ext namespace reserved")
	}
}

func TestStaticProvider(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	mark := apis.TypeID{Namespace: "example.com/tags", Name: "Mark"}
	p := static.New(config.DefaultRoot)
	p.MustDeclare(static.Decl{ID: mark, Meta: []apis.Instance{p.MustNew(config.DefaultRoot, nil)}})
	SetProvider(p)

	if Provider() != p {
		t.Fatal("provider not installed")
	}
	if !IsInstanceOf(mark, config.DefaultRoot) {
		t.Fatal("IsInstanceOf(Mark, root) = false, want true")
	}
	inst := p.MustNew(mark, nil)
	if got, err := TypeOf(inst); err != nil || got != mark {
		t.Fatalf("TypeOf = %v,%v, want %v", got, err, mark)
	}
	if _, err := Of(nested{}); !errors.Is(err, ErrNotAnInstance) {
		t.Fatalf("Of(Go value) with static provider err = %v, want ErrNotAnInstance", err)
	}

	SetProvider(nil)
	if _, err := Of(nested{}); err != nil {
		t.Fatalf("Of after restoring default provider: %v", err)
	}
}

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWithRoot("A"), nil)

	// snapshot 1
	s1Reg := Registry()
	s1Res := Resolver()

	// change cfg -> both should rebuild (not pinned)
	SetConfig(cfgWithRoot("B"))

	if s1Reg == Registry() {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if s1Res == Resolver() {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg := b.lastCfg
	b.mu.Unlock()
	if gotCfg.Root.Name != "B" {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if Config().Root.Name != "B" {
		t.Fatalf("Config().Root = %v, want B", Config().Root)
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWithRoot("A"), nil)

	customReg := newMockRegistry("custom")
	SetRegistry(customReg)
	if !IsRegistryPinned() {
		t.Fatal("SetRegistry did not pin the registry")
	}

	beforeRes := Resolver()
	SetConfig(cfgWithRoot("B"))

	if Registry() != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWithRoot("A"), nil)

	// Pin resolver
	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	if !IsResolverPinned() {
		t.Fatal("SetResolver did not pin the resolver")
	}

	regBefore := Registry()

	// Change cfg -> expect: registry rebuilt (not pinned), resolver unchanged (pinned)
	SetConfig(cfgWithRoot("B"))

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}

	// Queries go through the pinned resolver.
	_ = IsInstanceOf(config.DefaultRoot, config.DefaultRoot)
	customRes.mu.Lock()
	n := customRes.n
	customRes.mu.Unlock()
	if n != 1 {
		t.Fatalf("pinned resolver saw %d queries, want 1", n)
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	// Start with builder A
	a := &mockBuilder{}
	resetWithBuilder(t, a, cfgWithRoot("A"), nil)

	// Pin resolver, leave registry unpinned
	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)
	if Builder() != b {
		t.Fatal("builder not installed")
	}

	if Registry() == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	b.mu.Lock()
	prev := b.lastPrevRegID
	b.mu.Unlock()
	if prev == "" {
		t.Fatal("builder did not receive the previous registry")
	}
}

func TestSetProvider_RebuildsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWithRoot("A"), nil)

	p := static.New()
	before := Resolver()
	SetProvider(p)

	if Resolver() == before {
		t.Fatal("resolver was not rebuilt on SetProvider")
	}
	b.mu.Lock()
	got := b.lastProv
	b.mu.Unlock()
	if got != p {
		t.Fatalf("builder received provider %v, want %v", got, p)
	}

	// An explicit provider survives SetConfig.
	SetConfig(cfgWithRoot("B"))
	if Provider() != p {
		t.Fatal("explicit provider was replaced on SetConfig")
	}
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	// Ensure snapshot uses our mock builder
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWithRoot("A"), nil)

	// Change ext -> should rebuild unpinned layers via current builder (b) and pass ext
	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	ec, ok := got.(extCfg)
	if !ok || ec.X != 42 {
		t.Fatalf("builder did not receive ext properly: %#v", got)
	}
	if ec, ok := ExtAs[extCfg](); !ok || ec.X != 42 {
		t.Fatalf("ExtAs = %#v,%v, want X=42", ec, ok)
	}

	// Pin both and ensure no rebuild on SetExt
	PinRegistry()
	PinResolver()
	rCntBefore, sCntBefore := func() (int, int) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.regCounter, b.resCounter
	}()
	SetExt(extCfg{X: 7})
	rCntAfter, sCntAfter := func() (int, int) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.regCounter, b.resCounter
	}()
	if rCntAfter != rCntBefore || sCntAfter != sCntBefore {
		t.Fatalf("SetExt should not rebuild when both layers are pinned")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, cfgWithRoot("A"), nil)

	SetRegistry(Registry())
	SetResolver(Resolver())

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(cfgWithRoot("B"))
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatal("unpin did not clear the pins")
	}
	SetConfig(cfgWithRoot("C"))
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestSetAll_NilBuilds_Panic(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	defer func() {
		if r := recover(); r != ErrNilResolver {
			t.Fatalf("recover() = %v, want ErrNilResolver", r)
		}
	}()
	SetAll(nil, nil, nil, newMockRegistry("r"), nil, &nilResolverBuilder{})
}

type nilResolverBuilder struct{ mockBuilder }

func (*nilResolverBuilder) BuildResolver(apis.Config, apis.Registry, apis.Provider, apis.Resolver, any) apis.Resolver {
	return nil
}

func TestQueries_Concurrent_With_SetConfig(t *testing.T) {
	resetDefault(t)
	t.Cleanup(func() { resetDefault(t) })

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = Is[base](nested{})
				if v, err := As[inheriting](multi{}); err == nil {
					_, _ = view.Get[string](v, "value")
				}
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(config.WithMaxUnwrap(4 + i%5)))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done

	if !Is[base](nested{}) {
		t.Fatal("nested lost its ancestry after reconfiguration")
	}
}
