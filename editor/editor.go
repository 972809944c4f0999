// Package editor implements the host-facing core (spec.md §4.10): it
// orchestrates state (state), undo/redo (history), and plugins (plugin)
// behind one stable API, and owns the single dispatch pipeline every edit
// flows through.
//
// The core never imports htmlbridge: SetHTML/GetHTML delegate to an
// HTMLPipeline collaborator supplied by the host, exactly as spec.md §1/§6
// require of the view/IO layer.
package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/scrivlet/editorcore/history"
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/plugin"
	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

// Config seeds the editor at Init.
type Config struct {
	Doc          *model.Document
	GroupTimeout int64
	UndoCap      int
	Plugins      []plugin.Plugin
}

// HTMLPipeline is the collaborator SetHTML/GetHTML delegate to. A host
// supplies a concrete implementation (e.g. package htmlbridge); the core
// only depends on this interface.
type HTMLPipeline interface {
	ToHTML(doc *model.Document, reg *schema.Registry) (string, error)
	FromHTML(html string, reg *schema.Registry) (*model.Document, error)
}

// StateChangeEvent is the payload delivered to stateChange listeners and
// the "stateChange" event-bus channel, per spec.md §6.
type StateChangeEvent struct {
	OldState    *state.EditorState
	NewState    *state.EditorState
	Transaction transaction.Transaction
}

const (
	EventStateChange plugin.EventKey = "stateChange"
	EventReady       plugin.EventKey = "ready"
	EventDestroy     plugin.EventKey = "destroy"
)

// Editor is the host-facing core. Not safe for concurrent use, matching
// the engine's single-threaded dispatch model (spec.md §5).
type Editor struct {
	schema  *schema.Registry
	fabric  *plugin.Fabric
	history *history.Manager
	html    HTMLPipeline

	st *state.EditorState

	initialized bool
}

// New returns an uninitialized Editor bound to reg (a nil reg allocates a
// fresh, empty registry). Call Init before using it.
func New(reg *schema.Registry) *Editor {
	if reg == nil {
		reg = schema.New()
	}
	return &Editor{
		schema:  reg,
		fabric:  plugin.New(reg),
		history: history.New(),
	}
}

// SetHTMLPipeline attaches the collaborator SetHTML/GetHTML delegate to.
func (e *Editor) SetHTMLPipeline(p HTMLPipeline) { e.html = p }

// Init brings the editor to a usable state: seeds the document, registers
// and initializes every configured plugin (in dependency order, per
// plugin.Fabric.Init), then emits EventReady. Per spec.md §5, plugin
// init/onReady are the one async-flavored suspension point; this
// synchronous Init runs them in sequence to completion before returning.
func (e *Editor) Init(cfg Config) error {
	if e.initialized {
		return fmt.Errorf("editor: already initialized")
	}
	if cfg.GroupTimeout > 0 {
		e.history.GroupTimeout = cfg.GroupTimeout
	}
	if cfg.UndoCap > 0 {
		e.history.UndoCap = cfg.UndoCap
	}
	e.st = state.Create(cfg.Doc, nil, e.schema)

	for _, p := range cfg.Plugins {
		e.fabric.Register(p)
	}
	if err := e.fabric.Init(e.GetState, e.dispatchNoMiddleware); err != nil {
		return fmt.Errorf("editor: plugin init: %w", err)
	}
	e.initialized = true
	e.fabric.Bus().Emit(EventReady, nil)
	return nil
}

// dispatchNoMiddleware is the function plugins receive as their Dispatch
// capability; it routes back through the editor's normal Dispatch so a
// plugin-issued transaction still passes through middleware.
func (e *Editor) dispatchNoMiddleware(tr transaction.Transaction) error {
	return e.Dispatch(tr)
}

// Destroy tears down every plugin (reverse init order) and emits
// EventDestroy. The Editor is not usable afterward.
func (e *Editor) Destroy() {
	if !e.initialized {
		return
	}
	e.fabric.Bus().Emit(EventDestroy, nil)
	e.fabric.DestroyAll()
	e.initialized = false
}

// Configure applies a partial runtime configuration change (currently:
// history window and cap).
func (e *Editor) Configure(groupTimeout int64, undoCap int) {
	if groupTimeout > 0 {
		e.history.GroupTimeout = groupTimeout
	}
	if undoCap > 0 {
		e.history.UndoCap = undoCap
	}
}

// ConfigurePlugin delivers cfg to a single plugin's OnConfigure hook.
func (e *Editor) ConfigurePlugin(id plugin.ID, cfg map[string]any) bool {
	return e.fabric.ConfigurePlugin(id, cfg)
}

// GetState returns the current immutable snapshot.
func (e *Editor) GetState() *state.EditorState { return e.st }

// Schema returns the shared schema registry, for host/plugin setup code
// that runs before Init.
func (e *Editor) Schema() *schema.Registry { return e.schema }

// Fabric returns the plugin fabric, for hosts that need direct access
// (e.g. a TUI driving toolbar items).
func (e *Editor) Fabric() *plugin.Fabric { return e.fabric }

// History returns the undo/redo manager.
func (e *Editor) History() *history.Manager { return e.history }

// GetJSON returns the current document in spec.md §6's wire form.
func (e *Editor) GetJSON() ([]byte, error) {
	return e.st.Doc.MarshalJSON()
}

// clearHistoryForReplace enforces the recorded decision on spec.md §9's
// open question: setJSON/setHTML clear undo/redo, since the replacement
// they perform has no meaningful single inverse step within the existing
// history groups.
func (e *Editor) clearHistoryForReplace(newDoc *model.Document) {
	leaves := model.LeafBlocks(newDoc)
	var sel selection.Selection
	if len(leaves) > 0 {
		sel = selection.NewCollapsed(selection.Position{BlockId: leaves[0].ID, Offset: 0})
	}
	old := e.st
	e.st = state.Create(newDoc, sel, e.schema)
	e.history.Clear()
	e.fabric.BroadcastStateChange(old, e.st, transaction.Transaction{
		Metadata: transaction.Metadata{Origin: transaction.OriginExternal, Timestamp: nowMillis()},
	})
}

// SetJSON replaces the document wholesale from spec.md §6's wire form,
// clearing history (documented behavior, not a bug — spec.md §9).
func (e *Editor) SetJSON(data []byte) error {
	var doc model.Document
	if err := doc.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("editor: setJSON: %w", err)
	}
	e.clearHistoryForReplace(&doc)
	return nil
}

// GetHTML renders the current document through the configured
// HTMLPipeline collaborator.
func (e *Editor) GetHTML() (string, error) {
	if e.html == nil {
		return "", fmt.Errorf("editor: no HTMLPipeline configured")
	}
	return e.html.ToHTML(e.st.Doc, e.schema)
}

// SetHTML parses html through the configured HTMLPipeline collaborator and
// replaces the document, clearing history.
func (e *Editor) SetHTML(html string) error {
	if e.html == nil {
		return fmt.Errorf("editor: no HTMLPipeline configured")
	}
	doc, err := e.html.FromHTML(html, e.schema)
	if err != nil {
		return fmt.Errorf("editor: setHTML: %w", err)
	}
	e.clearHistoryForReplace(doc)
	return nil
}

// GetText returns the document's plain-text content, blocks joined by a
// newline and inline atoms flattened to nothing (the core has no concept
// of a per-atom text representation; a plugin-supplied one belongs to
// HTMLPipeline-style collaborators, not this method).
func (e *Editor) GetText() string {
	var sb strings.Builder
	first := true
	for _, b := range model.LeafBlocks(e.st.Doc) {
		if !first {
			sb.WriteByte('\n')
		}
		first = false
		for _, n := range b.Inline {
			if tn, ok := n.(model.TextNode); ok {
				sb.WriteString(tn.Text)
			}
		}
	}
	return sb.String()
}

// ExecuteCommand runs a fabric-registered command by name against the
// current state and dispatches its resulting transaction, if any.
func (e *Editor) ExecuteCommand(name string) error {
	tr, ok := e.fabric.ExecuteCommand(name, e.st)
	if !ok {
		return fmt.Errorf("editor: command %q failed or is unregistered", name)
	}
	if tr == nil {
		return nil
	}
	return e.Dispatch(*tr)
}

// Can reports whether executeCommand(name) would currently be able to run
// (registered and, on a trial run, produces a transaction). This performs
// no dispatch.
func (e *Editor) Can(name string) bool {
	if !e.fabric.HasCommand(name) {
		return false
	}
	tr, ok := e.fabric.ExecuteCommand(name, e.st)
	return ok && tr != nil
}

// CanUndo/CanRedo expose undo/redo availability for capability checks.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Undo pops and applies the top undo group.
func (e *Editor) Undo() error {
	old := e.st
	next, ok, err := e.history.Undo(e.st, nowMillis())
	if err != nil {
		return fmt.Errorf("editor: undo: %w", err)
	}
	if !ok {
		return nil
	}
	e.st = next
	e.fabric.BroadcastStateChange(old, e.st, transaction.Transaction{Metadata: transaction.Metadata{Origin: transaction.OriginHistory}})
	e.fabric.Bus().Emit(EventStateChange, &StateChangeEvent{OldState: old, NewState: e.st})
	return nil
}

// Redo re-applies the top redo group.
func (e *Editor) Redo() error {
	old := e.st
	next, ok, err := e.history.Redo(e.st, nowMillis())
	if err != nil {
		return fmt.Errorf("editor: redo: %w", err)
	}
	if !ok {
		return nil
	}
	e.st = next
	e.fabric.BroadcastStateChange(old, e.st, transaction.Transaction{Metadata: transaction.Metadata{Origin: transaction.OriginHistory}})
	e.fabric.Bus().Emit(EventStateChange, &StateChangeEvent{OldState: old, NewState: e.st})
	return nil
}

// On subscribes to a named event on the shared bus (spec.md §6: stateChange,
// ready, destroy, plugin-registered, plugin-unregistered, plus
// plugin-defined events). It returns an unsubscribe function.
func (e *Editor) On(key plugin.EventKey, fn func(payload any)) func() {
	return e.fabric.Bus().On(key, fn)
}

// Dispatch is the one path every edit flows through (spec.md §2.3):
// middleware chain, then finalDispatch applies tr to state, pushes it to
// history, and notifies listeners/plugin hooks with (oldState, newState,
// tr).
func (e *Editor) Dispatch(tr transaction.Transaction) error {
	if tr.Metadata.Timestamp == 0 {
		tr.Metadata.Timestamp = nowMillis()
	}
	var dispatchErr error
	e.fabric.DispatchWithMiddleware(tr, e.st, func(final transaction.Transaction) {
		dispatchErr = e.finalDispatch(final)
	})
	return dispatchErr
}

func (e *Editor) finalDispatch(tr transaction.Transaction) error {
	old := e.st
	next, err := e.st.Apply(tr)
	if err != nil {
		return fmt.Errorf("editor: dispatch: %w", err)
	}
	e.st = next
	e.history.Push(tr)
	e.fabric.BroadcastStateChange(old, e.st, tr)
	e.fabric.Bus().Emit(EventStateChange, &StateChangeEvent{OldState: old, NewState: e.st, Transaction: tr})
	return nil
}

func nowMillis() int64 { return time.Now().UnixMilli() }
