package editor

import (
	"testing"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/plugin"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	e := New(nil)
	if err := e.Init(Config{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return e
}

func TestInitSeedsASingleEmptyParagraph(t *testing.T) {
	e := newTestEditor(t)
	leaves := model.LeafBlocks(e.GetState().Doc)
	if len(leaves) != 1 {
		t.Fatalf("leaves = %d, want 1", len(leaves))
	}
}

func TestDispatchPushesHistoryAndUpdatesState(t *testing.T) {
	e := newTestEditor(t)
	leaf := model.LeafBlocks(e.GetState().Doc)[0]
	st := step.NewInsertText(leaf.ID, 0, "hi", nil)
	tr := transaction.New(e.GetState().Selection, 1).Step(st).Build()

	if err := e.Dispatch(tr); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if e.GetText() != "hi" {
		t.Fatalf("GetText() = %q, want \"hi\"", e.GetText())
	}
	if !e.CanUndo() {
		t.Fatal("expected CanUndo after a real edit")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEditor(t)
	leaf := model.LeafBlocks(e.GetState().Doc)[0]
	st := step.NewInsertText(leaf.ID, 0, "hi", nil)
	tr := transaction.New(e.GetState().Selection, 1).Step(st).Build()
	if err := e.Dispatch(tr); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.GetText() != "" {
		t.Fatalf("GetText() after undo = %q, want \"\"", e.GetText())
	}
	if !e.CanRedo() {
		t.Fatal("expected CanRedo after an undo")
	}

	if err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if e.GetText() != "hi" {
		t.Fatalf("GetText() after redo = %q, want \"hi\"", e.GetText())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	e := newTestEditor(t)
	leaf := model.LeafBlocks(e.GetState().Doc)[0]
	st := step.NewInsertText(leaf.ID, 0, "hello", nil)
	tr := transaction.New(e.GetState().Selection, 1).Step(st).Build()
	if err := e.Dispatch(tr); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	data, err := e.GetJSON()
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if err := e.SetJSON(data); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if e.GetText() != "hello" {
		t.Fatalf("GetText() after round-trip = %q, want \"hello\"", e.GetText())
	}
	if e.CanUndo() {
		t.Fatal("SetJSON should clear history")
	}
}

type stateCountingPlugin struct {
	id     plugin.ID
	events int
}

func (p *stateCountingPlugin) ID() plugin.ID   { return p.id }
func (p *stateCountingPlugin) Name() string    { return string(p.id) }
func (p *stateCountingPlugin) Init(ctx *plugin.Context) error {
	return ctx.RegisterCommand("insertHi", func(s *state.EditorState) *transaction.Transaction {
		leaves := model.LeafBlocks(s.Doc)
		if len(leaves) == 0 {
			return nil
		}
		st := step.NewInsertText(leaves[0].ID, 0, "hi", nil)
		t := transaction.New(s.Selection, 1).Step(st).Build()
		return &t
	})
}
func (p *stateCountingPlugin) OnStateChange(old, newState *state.EditorState, tr transaction.Transaction) {
	p.events++
}

func TestPluginCommandAndStateChangeHook(t *testing.T) {
	p := &stateCountingPlugin{id: "counter"}
	e := New(nil)
	if err := e.Init(Config{Plugins: []plugin.Plugin{p}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !e.Can("insertHi") {
		t.Fatal("expected Can(\"insertHi\") true")
	}
	if err := e.ExecuteCommand("insertHi"); err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	if e.GetText() != "hi" {
		t.Fatalf("GetText() = %q, want \"hi\"", e.GetText())
	}
	if p.events != 1 {
		t.Fatalf("events = %d, want 1", p.events)
	}
}

func TestDestroyRemovesPluginCommands(t *testing.T) {
	p := &stateCountingPlugin{id: "counter"}
	e := New(nil)
	if err := e.Init(Config{Plugins: []plugin.Plugin{p}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	e.Destroy()
	if e.Fabric().HasCommand("insertHi") {
		t.Fatal("expected command removed after Destroy")
	}
}

func TestOnStateChangeEventFires(t *testing.T) {
	e := newTestEditor(t)
	fired := false
	e.On(EventStateChange, func(payload any) {
		if _, ok := payload.(*StateChangeEvent); ok {
			fired = true
		}
	})
	leaf := model.LeafBlocks(e.GetState().Doc)[0]
	st := step.NewInsertText(leaf.ID, 0, "x", nil)
	tr := transaction.New(selection.NewCollapsed(selection.Position{BlockId: leaf.ID, Offset: 0}), 1).Step(st).Build()
	if err := e.Dispatch(tr); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !fired {
		t.Fatal("expected stateChange event to fire")
	}
}
