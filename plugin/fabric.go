package plugin

import (
	"sort"

	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

// Fabric hosts a dependency-ordered set of plugins, the command table and
// middleware chain they contribute, and the per-plugin registration
// bookkeeping needed to tear one back out cleanly (spec.md §4.9).
type Fabric struct {
	schema *schema.Registry
	bus    *EventBus

	plugins map[ID]Plugin
	order   []ID
	regs    map[ID]*Registrations

	commands     map[string]CommandFn
	commandOwner map[string]ID

	middleware []middlewareEntry

	services     map[ServiceKey]any
	serviceOwner map[ServiceKey]ID

	styleSheets []styleSheetEntry

	getState func() *state.EditorState
	dispatch func(transaction.Transaction) error
}

// New returns an empty fabric bound to the given schema registry.
func New(reg *schema.Registry) *Fabric {
	return &Fabric{
		schema:       reg,
		bus:          NewEventBus(),
		plugins:      make(map[ID]Plugin),
		regs:         make(map[ID]*Registrations),
		commands:     make(map[string]CommandFn),
		commandOwner: make(map[string]ID),
		services:     make(map[ServiceKey]any),
		serviceOwner: make(map[ServiceKey]ID),
	}
}

// Bus returns the shared event bus.
func (f *Fabric) Bus() *EventBus { return f.bus }

// Schema returns the shared schema registry.
func (f *Fabric) Schema() *schema.Registry { return f.schema }

// Register adds a plugin. It does not run Init; call Init on the fabric
// once every plugin has been registered.
func (f *Fabric) Register(p Plugin) {
	f.plugins[p.ID()] = p
}

// topoSort orders plugins by dependency (Kahn's algorithm), breaking ties
// among ready nodes by ascending priority then by ID for determinism.
// It fails fast naming a missing dependency, or the cycle participants if
// one exists, per spec.md §4.9.
func topoSort(plugins map[ID]Plugin) ([]ID, error) {
	inDegree := make(map[ID]int, len(plugins))
	dependents := make(map[ID][]ID, len(plugins))

	for id, p := range plugins {
		deps := dependenciesOf(p)
		inDegree[id] = len(deps)
		for _, dep := range deps {
			if _, ok := plugins[dep]; !ok {
				return nil, &DependencyError{Missing: dep, MissingOf: id}
			}
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := make([]ID, 0, len(plugins))
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sortByPriorityThenID(ready, plugins)

	order := make([]ID, 0, len(plugins))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		newlyReady := make([]ID, 0)
		for _, dep := range dependents[next] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				newlyReady = append(newlyReady, dep)
			}
		}
		sortByPriorityThenID(newlyReady, plugins)
		ready = mergeByPriority(ready, newlyReady, plugins)
	}

	if len(order) != len(plugins) {
		remaining := make([]ID, 0)
		for id := range plugins {
			found := false
			for _, o := range order {
				if o == id {
					found = true
					break
				}
			}
			if !found {
				remaining = append(remaining, id)
			}
		}
		sort.Slice(remaining, func(i, j int) bool { return remaining[i] < remaining[j] })
		return nil, &DependencyError{Cycle: remaining}
	}
	return order, nil
}

func sortByPriorityThenID(ids []ID, plugins map[ID]Plugin) {
	sort.SliceStable(ids, func(i, j int) bool {
		pi, pj := priorityOf(plugins[ids[i]]), priorityOf(plugins[ids[j]])
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
}

func mergeByPriority(a, b []ID, plugins map[ID]Plugin) []ID {
	out := append(append([]ID(nil), a...), b...)
	sortByPriorityThenID(out, plugins)
	return out
}

// Init runs every plugin's Init in dependency order, then every plugin's
// OnReady (for those that implement ReadyHook) in the same order. getState
// and dispatch are bound into every Context this fabric creates.
func (f *Fabric) Init(getState func() *state.EditorState, dispatch func(transaction.Transaction) error) error {
	order, err := topoSort(f.plugins)
	if err != nil {
		return err
	}
	f.order = order
	f.getState = getState
	f.dispatch = dispatch

	for _, id := range order {
		p := f.plugins[id]
		regs := &Registrations{}
		f.regs[id] = regs
		ctx := &Context{fabric: f, id: id, regs: regs, getStateFn: getState, dispatchFn: dispatch}
		if err := p.Init(ctx); err != nil {
			return err
		}
	}
	for _, id := range order {
		if rh, ok := f.plugins[id].(ReadyHook); ok {
			rh.OnReady()
		}
	}
	return nil
}

// Destroy tears a single plugin's registrations back out of the fabric and
// schema, then calls its DestroyHook if it implements one. It is a no-op
// for an unknown ID.
func (f *Fabric) Destroy(id ID) {
	regs, ok := f.regs[id]
	if !ok {
		return
	}
	for _, n := range regs.Nodes {
		f.schema.RemoveNode(n)
	}
	for _, m := range regs.Marks {
		f.schema.RemoveMark(m)
	}
	for _, n := range regs.InlineNodes {
		f.schema.RemoveInlineNode(n)
	}
	for _, n := range regs.NodeViews {
		f.schema.RemoveNodeView(n)
	}
	for _, k := range regs.Keymaps {
		f.schema.RemoveKeymap(k)
	}
	for _, n := range regs.InputRules {
		f.schema.RemoveInputRule(n)
	}
	for _, tid := range regs.ToolbarItems {
		f.schema.RemoveToolbarItem(tid)
	}
	for _, pid := range regs.PickerEntries {
		f.schema.RemoveBlockTypePickerEntry(pid)
	}
	for _, hid := range regs.FileHandlers {
		f.schema.RemoveFileHandler(hid)
	}
	for _, name := range regs.Commands {
		delete(f.commands, name)
		delete(f.commandOwner, name)
	}
	for _, key := range regs.Services {
		delete(f.services, key)
		delete(f.serviceOwner, key)
	}
	if len(regs.StyleSheets) > 0 {
		kept := f.styleSheets[:0]
		for _, entry := range f.styleSheets {
			if entry.pluginID != id {
				kept = append(kept, entry)
			}
		}
		f.styleSheets = kept
	}
	kept := f.middleware[:0]
	for _, m := range f.middleware {
		if m.pluginID != id {
			kept = append(kept, m)
		}
	}
	f.middleware = kept

	for _, unsub := range regs.eventUnsubs {
		unsub()
	}

	delete(f.regs, id)

	if dh, ok := f.plugins[id].(DestroyHook); ok {
		dh.Destroy()
	}
	delete(f.plugins, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i:i], f.order[i+1:]...)
			break
		}
	}
}

// DestroyAll tears down every registered plugin in reverse init order.
func (f *Fabric) DestroyAll() {
	for i := len(f.order) - 1; i >= 0; i-- {
		f.Destroy(f.order[i])
	}
}

// DispatchWithMiddleware runs tr through the registered middleware chain
// in ascending-priority order and invokes finalDispatch with whatever the
// chain produces. Each step must call next exactly once; a step that never
// calls it stops the transaction from reaching finalDispatch, and a step
// that calls it more than once only has its first call honored. A panicking
// middleware is recovered, reported via EventPluginError, and the chain
// continues as if that step had passed tr through unchanged.
func (f *Fabric) DispatchWithMiddleware(tr transaction.Transaction, s *state.EditorState, finalDispatch func(transaction.Transaction)) {
	chain := append([]middlewareEntry(nil), f.middleware...)
	sort.SliceStable(chain, func(i, j int) bool { return chain[i].priority < chain[j].priority })

	var run func(i int, tr transaction.Transaction)
	run = func(i int, tr transaction.Transaction) {
		if i >= len(chain) {
			finalDispatch(tr)
			return
		}
		entry := chain[i]
		called := false
		next := func(t transaction.Transaction) {
			if called {
				return
			}
			called = true
			run(i+1, t)
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					f.reportPanic(entry.pluginID, r)
					if !called {
						called = true
						run(i+1, tr)
					}
				}
			}()
			entry.fn(tr, s, next)
		}()
	}
	run(0, tr)
}

// ExecuteCommand looks up name in the command table and invokes it against
// s. It returns (nil, false) for an unknown command or one whose execution
// panics (spec.md §4.9: a throwing command resolves to "no transaction",
// never propagates).
func (f *Fabric) ExecuteCommand(name string, s *state.EditorState) (tr *transaction.Transaction, ok bool) {
	fn, exists := f.commands[name]
	if !exists {
		return nil, false
	}
	owner := f.commandOwner[name]
	defer func() {
		if r := recover(); r != nil {
			f.reportPanic(owner, r)
			tr, ok = nil, false
		}
	}()
	result := fn(s)
	if result == nil {
		return nil, true
	}
	return result, true
}

// HasCommand reports whether name is registered.
func (f *Fabric) HasCommand(name string) bool {
	_, ok := f.commands[name]
	return ok
}

// BroadcastStateChange notifies every plugin implementing StateChangeHook,
// in init order, isolating each from the others' panics.
func (f *Fabric) BroadcastStateChange(old, newState *state.EditorState, tr transaction.Transaction) {
	for _, id := range f.order {
		if sch, ok := f.plugins[id].(StateChangeHook); ok {
			f.safeCall(id, func() { sch.OnStateChange(old, newState, tr) })
		}
	}
}

// Decorations aggregates every plugin's DecorationsProvider output, in
// init order.
func (f *Fabric) Decorations(s *state.EditorState, tr transaction.Transaction) DecorationSet {
	var out DecorationSet
	for _, id := range f.order {
		dp, ok := f.plugins[id].(DecorationsProvider)
		if !ok {
			continue
		}
		f.safeCall(id, func() {
			out = append(out, dp.Decorations(s, tr)...)
		})
	}
	return out
}

// ConfigurePlugin delivers cfg to id's OnConfigure hook if it has one,
// reporting false if id is unknown or doesn't implement ConfigurableHook.
func (f *Fabric) ConfigurePlugin(id ID, cfg map[string]any) bool {
	p, ok := f.plugins[id]
	if !ok {
		return false
	}
	ch, ok := p.(ConfigurableHook)
	if !ok {
		return false
	}
	f.safeCall(id, func() { ch.OnConfigure(cfg) })
	return true
}

// StyleSheets returns the CSS contributed by every plugin, in
// registration order.
func (f *Fabric) StyleSheets() []string {
	out := make([]string, len(f.styleSheets))
	for i, e := range f.styleSheets {
		out[i] = e.css
	}
	return out
}

func (f *Fabric) safeCall(id ID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			f.reportPanic(id, r)
		}
	}()
	fn()
}

func (f *Fabric) reportPanic(id ID, r any) {
	err, ok := r.(error)
	if !ok {
		err = &panicValue{r}
	}
	f.bus.Emit(EventPluginError, &PluginRuntimeError{PluginID: id, Err: err})
}

type panicValue struct{ v any }

func (p *panicValue) Error() string { return "panic: " + formatPanic(p.v) }

func formatPanic(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if e, ok := v.(error); ok {
		return e.Error()
	}
	return "non-error panic value"
}
