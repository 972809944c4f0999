// Package plugin implements the plugin fabric from spec.md §4.9: a
// dependency-ordered plugin host, a transaction middleware chain, a typed
// event bus, and per-plugin registration tracking for atomic teardown.
//
// A Plugin is a capability set, not a base class (spec.md §9): the
// required Plugin interface carries only identity and Init; every other
// hook (OnReady, OnStateChange, Decorations, OnConfigure, Destroy) is an
// optional interface the fabric type-asserts for, the idiomatic Go
// analogue of spec.md's "duck-typed" hooks.
package plugin

import (
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

// ID identifies a plugin, used both as a map key and in dependency lists.
type ID string

// DefaultPriority is used for a plugin that doesn't implement Prioritized.
const DefaultPriority = 100

// Plugin is the minimal required capability set.
type Plugin interface {
	ID() ID
	Name() string
	Init(ctx *Context) error
}

// Prioritized is implemented by a plugin that wants a non-default
// initialization priority (lower runs first among ties).
type Prioritized interface {
	Priority() int
}

// DependsOn is implemented by a plugin with other plugins as prerequisites.
type DependsOn interface {
	Dependencies() []ID
}

// ReadyHook is invoked once, after every plugin's Init has run, in
// dependency order.
type ReadyHook interface {
	OnReady()
}

// StateChangeHook is invoked after every dispatch that changes state, in
// plugin init order (spec.md §5 "Ordering guarantees").
type StateChangeHook interface {
	OnStateChange(old, newState *state.EditorState, tr transaction.Transaction)
}

// DecorationsProvider contributes presentation-only annotations for a
// state, not reflected in the document itself (e.g. syntax-highlight
// spans).
type DecorationsProvider interface {
	Decorations(s *state.EditorState, tr transaction.Transaction) DecorationSet
}

// ConfigurableHook receives a host-supplied configuration blob via
// editor.Editor.ConfigurePlugin.
type ConfigurableHook interface {
	OnConfigure(cfg map[string]any)
}

// DestroyHook releases any plugin-owned resource not covered by
// Registrations (timers, external connections, ...).
type DestroyHook interface {
	Destroy()
}

func priorityOf(p Plugin) int {
	if pr, ok := p.(Prioritized); ok {
		return pr.Priority()
	}
	return DefaultPriority
}

func dependenciesOf(p Plugin) []ID {
	if d, ok := p.(DependsOn); ok {
		return d.Dependencies()
	}
	return nil
}

// Decoration annotates a range of a block for presentation purposes only;
// it never mutates the document.
type Decoration struct {
	BlockId model.BlockId
	From, To int
	Attrs   map[string]any
}

// DecorationSet is the combined output of every plugin's Decorations hook
// for one state/transaction pair.
type DecorationSet []Decoration

// Container identifies a mount point a plugin can render into (toolbar,
// sidebar, status line, ...). The core treats it as an opaque handle; a
// host like cmd/editorctl/tui interprets it.
type Container string

// RootContainer is the single top-level container every host provides.
const RootContainer Container = "root"

// EventKey identifies an event-bus channel.
type EventKey string

// ServiceKey identifies a registered service implementation.
type ServiceKey string

// EventAnnounce carries Context.Announce's accessibility-style status
// text.
const EventAnnounce EventKey = "editor:announce"

// EventPluginError is emitted whenever middleware, a command, or an
// OnStateChange, Decorations or OnConfigure hook panics (Init, OnReady and
// Destroy hooks are not recovered), carrying a *PluginRuntimeError payload — the
// event-bus report spec.md §7 requires in place of writing to a log
// (the core library never logs; see SPEC_FULL.md's ambient stack notes).
const EventPluginError EventKey = "plugin:error"

// CommandFn is the function shape every command in this codebase has:
// command.InsertTextCommand and friends all satisfy it directly.
type CommandFn func(s *state.EditorState) *transaction.Transaction

// Middleware observes or rewrites a transaction before it reaches the
// editor's final dispatch. It must call next exactly once; the fabric
// tolerates zero or multiple calls per spec.md §4.9's guard rules, but a
// well-behaved middleware calls it once.
type Middleware func(tr transaction.Transaction, s *state.EditorState, next func(transaction.Transaction))
