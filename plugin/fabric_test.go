package plugin

import (
	"errors"
	"testing"

	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

type stubPlugin struct {
	id       ID
	name     string
	deps     []ID
	priority int
	hasPrio  bool
	initFn   func(ctx *Context) error
	ready    func()
}

func (p *stubPlugin) ID() ID     { return p.id }
func (p *stubPlugin) Name() string { return p.name }
func (p *stubPlugin) Init(ctx *Context) error {
	if p.initFn != nil {
		return p.initFn(ctx)
	}
	return nil
}
func (p *stubPlugin) Dependencies() []ID { return p.deps }
func (p *stubPlugin) Priority() int {
	if p.hasPrio {
		return p.priority
	}
	return DefaultPriority
}
func (p *stubPlugin) OnReady() {
	if p.ready != nil {
		p.ready()
	}
}

func newTestFabric() *Fabric { return New(schema.New()) }

func dummyGetState(f *Fabric) func() *state.EditorState {
	return func() *state.EditorState { return state.Create(nil, nil, f.Schema()) }
}

func noopDispatch(transaction.Transaction) error { return nil }

func TestTopoSortRespectsDependencies(t *testing.T) {
	f := newTestFabric()
	var order []ID
	record := func(id ID) func(ctx *Context) error {
		return func(ctx *Context) error {
			order = append(order, id)
			return nil
		}
	}
	f.Register(&stubPlugin{id: "a", initFn: record("a")})
	f.Register(&stubPlugin{id: "b", deps: []ID{"a"}, initFn: record("b")})
	f.Register(&stubPlugin{id: "c", deps: []ID{"b"}, initFn: record("c")})

	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want := []ID{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTopoSortTiesBreakByPriorityThenID(t *testing.T) {
	f := newTestFabric()
	var order []ID
	record := func(id ID) func(ctx *Context) error {
		return func(ctx *Context) error { order = append(order, id); return nil }
	}
	f.Register(&stubPlugin{id: "z", hasPrio: true, priority: 10, initFn: record("z")})
	f.Register(&stubPlugin{id: "y", hasPrio: true, priority: 5, initFn: record("y")})
	f.Register(&stubPlugin{id: "x", initFn: record("x")})

	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want := []ID{"y", "z", "x"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTopoSortMissingDependencyFailsFast(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "a", deps: []ID{"ghost"}})

	err := f.Init(dummyGetState(f), noopDispatch)
	if err == nil {
		t.Fatal("expected error for missing dependency")
	}
	var depErr *DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("err = %v, want *DependencyError", err)
	}
	if depErr.Missing != "ghost" || depErr.MissingOf != "a" {
		t.Fatalf("depErr = %+v", depErr)
	}
}

func TestTopoSortCycleFailsFastWithParticipants(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "a", deps: []ID{"b"}})
	f.Register(&stubPlugin{id: "b", deps: []ID{"a"}})

	err := f.Init(dummyGetState(f), noopDispatch)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var depErr *DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("err = %v, want *DependencyError", err)
	}
	if len(depErr.Cycle) != 2 {
		t.Fatalf("cycle participants = %v, want 2 entries", depErr.Cycle)
	}
}

func TestReadyHookRunsAfterEveryInit(t *testing.T) {
	f := newTestFabric()
	var seenInit, seenReady []ID
	mk := func(id ID, deps ...ID) *stubPlugin {
		return &stubPlugin{
			id:   id,
			deps: deps,
			initFn: func(ctx *Context) error {
				seenInit = append(seenInit, id)
				return nil
			},
			ready: func() { seenReady = append(seenReady, id) },
		}
	}
	f.Register(mk("a"))
	f.Register(mk("b", "a"))

	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(seenInit) != 2 || len(seenReady) != 2 {
		t.Fatalf("seenInit=%v seenReady=%v", seenInit, seenReady)
	}
	if seenReady[0] != "a" || seenReady[1] != "b" {
		t.Fatalf("OnReady order = %v, want [a b]", seenReady)
	}
}

func TestCommandRegistrationCollisionNamesIncumbent(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "first", initFn: func(ctx *Context) error {
		return ctx.RegisterCommand("bold", func(s *state.EditorState) *transaction.Transaction { return nil })
	}})
	f.Register(&stubPlugin{id: "second", deps: []ID{"first"}, initFn: func(ctx *Context) error {
		return ctx.RegisterCommand("bold", func(s *state.EditorState) *transaction.Transaction { return nil })
	}})

	err := f.Init(dummyGetState(f), noopDispatch)
	if err == nil {
		t.Fatal("expected collision error")
	}
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("err = %v, want *RegistrationError", err)
	}
	if regErr.Owner != "first" {
		t.Fatalf("owner = %q, want \"first\"", regErr.Owner)
	}
}

func TestExecuteCommandRecoversPanic(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "boom", initFn: func(ctx *Context) error {
		return ctx.RegisterCommand("boom", func(s *state.EditorState) *transaction.Transaction {
			panic("kaboom")
		})
	}})
	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var reported *PluginRuntimeError
	f.Bus().On(EventPluginError, func(payload any) {
		if e, ok := payload.(*PluginRuntimeError); ok {
			reported = e
		}
	})

	s := state.Create(nil, nil, f.Schema())
	tr, ok := f.ExecuteCommand("boom", s)
	if ok || tr != nil {
		t.Fatalf("ExecuteCommand = (%v, %v), want (nil, false)", tr, ok)
	}
	if reported == nil || reported.PluginID != "boom" {
		t.Fatalf("reported = %v, want PluginRuntimeError for \"boom\"", reported)
	}
}

func TestExecuteCommandUnknownReturnsFalse(t *testing.T) {
	f := newTestFabric()
	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s := state.Create(nil, nil, f.Schema())
	if _, ok := f.ExecuteCommand("nope", s); ok {
		t.Fatal("expected false for unknown command")
	}
}

func TestMiddlewareChainRunsInPriorityOrderAndCallsFinalDispatch(t *testing.T) {
	f := newTestFabric()
	var seen []string
	f.Register(&stubPlugin{id: "mw", initFn: func(ctx *Context) error {
		ctx.RegisterMiddleware(func(tr transaction.Transaction, s *state.EditorState, next func(transaction.Transaction)) {
			seen = append(seen, "second")
			next(tr)
		}, 20)
		ctx.RegisterMiddleware(func(tr transaction.Transaction, s *state.EditorState, next func(transaction.Transaction)) {
			seen = append(seen, "first")
			next(tr)
		}, 10)
		return nil
	}})
	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}

	s := state.Create(nil, nil, f.Schema())
	tr := transaction.New(s.Selection, 0).Build()
	finalRan := false
	f.DispatchWithMiddleware(tr, s, func(transaction.Transaction) { finalRan = true })

	if !finalRan {
		t.Fatal("finalDispatch was never called")
	}
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Fatalf("seen = %v, want [first second]", seen)
	}
}

func TestMiddlewareThatNeverCallsNextStopsTheChain(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "swallow", initFn: func(ctx *Context) error {
		ctx.RegisterMiddleware(func(tr transaction.Transaction, s *state.EditorState, next func(transaction.Transaction)) {
			// intentionally never calls next
		}, 10)
		return nil
	}})
	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s := state.Create(nil, nil, f.Schema())
	tr := transaction.New(s.Selection, 0).Build()
	finalRan := false
	f.DispatchWithMiddleware(tr, s, func(transaction.Transaction) { finalRan = true })
	if finalRan {
		t.Fatal("finalDispatch should not run when middleware swallows the transaction")
	}
}

func TestMiddlewarePanicFallsThroughUnchangedAndReportsError(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "boom", initFn: func(ctx *Context) error {
		ctx.RegisterMiddleware(func(tr transaction.Transaction, s *state.EditorState, next func(transaction.Transaction)) {
			panic("middleware exploded")
		}, 10)
		return nil
	}})
	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var reported *PluginRuntimeError
	f.Bus().On(EventPluginError, func(payload any) {
		if e, ok := payload.(*PluginRuntimeError); ok {
			reported = e
		}
	})

	s := state.Create(nil, nil, f.Schema())
	tr := transaction.New(s.Selection, 0).Build()
	var got transaction.Transaction
	finalRan := false
	f.DispatchWithMiddleware(tr, s, func(out transaction.Transaction) {
		finalRan = true
		got = out
	})
	if !finalRan {
		t.Fatal("finalDispatch should still run after a panicking middleware")
	}
	if got.Metadata.Timestamp != tr.Metadata.Timestamp {
		t.Fatal("transaction should pass through unchanged after a panic")
	}
	if reported == nil || reported.PluginID != "boom" {
		t.Fatalf("reported = %v, want PluginRuntimeError for \"boom\"", reported)
	}
}

func TestDestroyReversesCommandAndMiddlewareRegistrations(t *testing.T) {
	f := newTestFabric()
	f.Register(&stubPlugin{id: "p", initFn: func(ctx *Context) error {
		if err := ctx.RegisterCommand("cmd", func(s *state.EditorState) *transaction.Transaction { return nil }); err != nil {
			return err
		}
		ctx.RegisterMiddleware(func(tr transaction.Transaction, s *state.EditorState, next func(transaction.Transaction)) {
			next(tr)
		}, 10)
		return nil
	}})
	if err := f.Init(dummyGetState(f), noopDispatch); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !f.HasCommand("cmd") {
		t.Fatal("expected command registered")
	}
	f.Destroy("p")
	if f.HasCommand("cmd") {
		t.Fatal("expected command removed after Destroy")
	}
	if len(f.middleware) != 0 {
		t.Fatalf("middleware = %v, want empty after Destroy", f.middleware)
	}
}

func TestEventBusIsolatesPanickingListeners(t *testing.T) {
	b := NewEventBus()
	calledSecond := false
	b.On("k", func(payload any) { panic("boom") })
	b.On("k", func(payload any) { calledSecond = true })
	b.Emit("k", nil)
	if !calledSecond {
		t.Fatal("second listener should still run after the first panics")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	b := NewEventBus()
	count := 0
	unsub := b.On("k", func(payload any) { count++ })
	b.Emit("k", nil)
	unsub()
	b.Emit("k", nil)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
