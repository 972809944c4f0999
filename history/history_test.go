package history

import (
	"testing"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

func insertTr(s *state.EditorState, id string, offset int, text string, ts int64) transaction.Transaction {
	bid := model.BlockId(id)
	return transaction.New(s.Selection, ts).
		SetOrigin(transaction.OriginInput).
		Step(step.NewInsertText(bid, offset, text, nil)).
		SetSelection(selection.NewCollapsed(selection.Position{BlockId: bid, Offset: offset + len(text)})).
		Build()
}

func TestPushMergesSameWindowSameOriginSameFirstType(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)
	id := string(s.Doc.Blocks[0].ID)

	m.Push(insertTr(s, id, 0, "a", 0))
	m.Push(insertTr(s, id, 1, "b", 100))

	if len(m.undo) != 1 || len(m.undo[0].transactions) != 2 {
		t.Fatalf("expected 1 group of 2 merged transactions, got %+v", m.undo)
	}
}

func TestPushStartsNewGroupOutsideWindow(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)
	id := string(s.Doc.Blocks[0].ID)

	m.Push(insertTr(s, id, 0, "a", 0))
	m.Push(insertTr(s, id, 1, "b", 1000))

	if len(m.undo) != 2 {
		t.Fatalf("expected 2 separate groups, got %d", len(m.undo))
	}
}

func TestPushIgnoresHistoryOriginAndEmptySteps(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)

	historyTr := transaction.Transaction{Metadata: transaction.Metadata{Origin: transaction.OriginHistory}}
	m.Push(historyTr)
	if len(m.undo) != 0 {
		t.Fatalf("expected history-origin transaction not pushed")
	}

	empty := transaction.New(s.Selection, 0).Build()
	m.Push(empty)
	if len(m.undo) != 0 {
		t.Fatalf("expected empty-step transaction not pushed")
	}
}

func TestPushClearsRedoStack(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)
	id := string(s.Doc.Blocks[0].ID)

	m.Push(insertTr(s, id, 0, "a", 0))
	next, ok, err := m.Undo(s, 10)
	if !ok || err != nil {
		t.Fatalf("expected undo to succeed, ok=%v err=%v", ok, err)
	}
	if !m.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}
	m.Push(insertTr(next, id, 0, "c", 20))
	if m.CanRedo() {
		t.Fatalf("expected redo stack cleared by a fresh push")
	}
}

func TestUndoRedoRoundTripsDocumentState(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)
	id := string(s.Doc.Blocks[0].ID)

	after, err := s.Apply(insertTr(s, id, 0, "hi", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Push(insertTr(s, id, 0, "hi", 0))

	undone, ok, err := m.Undo(after, 10)
	if !ok || err != nil {
		t.Fatalf("undo failed: ok=%v err=%v", ok, err)
	}
	b, _ := undone.GetBlock(model.BlockId(id))
	if b.Length() != 0 {
		t.Fatalf("expected undo to remove the inserted text, got length %d", b.Length())
	}

	redone, ok, err := m.Redo(undone, 20)
	if !ok || err != nil {
		t.Fatalf("redo failed: ok=%v err=%v", ok, err)
	}
	b, _ = redone.GetBlock(model.BlockId(id))
	if b.Length() != 2 {
		t.Fatalf("expected redo to restore the inserted text, got length %d", b.Length())
	}
}

func TestUndoOnEmptyStackIsNoop(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)
	next, ok, err := m.Undo(s, 0)
	if ok || err != nil {
		t.Fatalf("expected no-op undo, got ok=%v err=%v", ok, err)
	}
	if next != s {
		t.Fatalf("expected the same state back")
	}
}

func TestClearEmptiesBothStacks(t *testing.T) {
	m := New()
	s := state.Create(nil, nil, nil)
	id := string(s.Doc.Blocks[0].ID)
	m.Push(insertTr(s, id, 0, "a", 0))
	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("expected both stacks empty after Clear")
	}
}
