package command

import (
	"testing"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
)

func cursorAt(id model.BlockId, offset int) selection.Selection {
	return selection.NewCollapsed(selection.Position{BlockId: id, Offset: offset})
}

func newDocState(text string) (*state.EditorState, model.BlockId) {
	id := model.NewBlockID()
	doc := &model.Document{Blocks: []*model.BlockNode{
		{ID: id, Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: text}}},
	}}
	s := state.Create(doc, cursorAt(id, len(text)), nil)
	return s, id
}

func TestInsertTextCommandInsertsAtCollapsedCursor(t *testing.T) {
	s, id := newDocState("hello")
	tr := InsertTextCommand(s, "!")
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := next.GetBlock(id)
	if b.Length() != 6 {
		t.Fatalf("expected length 6, got %d", b.Length())
	}
}

func TestInsertTextCommandReplacesNonCollapsedSelection(t *testing.T) {
	s, id := newDocState("hello")
	s2 := state.Create(s.Doc, selection.NewTextSelection(
		selection.Position{BlockId: id, Offset: 0},
		selection.Position{BlockId: id, Offset: 5},
	), nil)

	tr := InsertTextCommand(s2, "bye")
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s2.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := next.GetBlock(id)
	if b.Length() != 3 {
		t.Fatalf("expected the whole selection replaced, length 3, got %d", b.Length())
	}
}

func TestSplitBlockCommandCreatesNewBlockAtCursor(t *testing.T) {
	s, id := newDocState("helloworld")
	s2 := state.Create(s.Doc, cursorAt(id, 5), nil)

	tr := SplitBlockCommand(s2)
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s2.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks after split, got %d", len(next.Doc.Blocks))
	}
	ts, ok := next.Selection.(selection.TextSelection)
	if !ok || ts.Anchor.Offset != 0 {
		t.Fatalf("expected the cursor at the start of the new block, got %v", next.Selection)
	}
}

func TestDeleteBackwardRemovesPrecedingGrapheme(t *testing.T) {
	s, id := newDocState("hello")
	tr := DeleteBackward(s)
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := next.GetBlock(id)
	if b.Length() != 4 {
		t.Fatalf("expected length 4, got %d", b.Length())
	}
}

func TestDeleteBackwardAtBlockStartMergesWithPrevious(t *testing.T) {
	idA := model.NewBlockID()
	idB := model.NewBlockID()
	doc := &model.Document{Blocks: []*model.BlockNode{
		{ID: idA, Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: "foo"}}},
		{ID: idB, Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: "bar"}}},
	}}
	s := state.Create(doc, cursorAt(idB, 0), nil)

	tr := DeleteBackward(s)
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Doc.Blocks) != 1 {
		t.Fatalf("expected the two blocks merged into one, got %d", len(next.Doc.Blocks))
	}
	b, _ := next.GetBlock(idA)
	if b.Length() != 6 {
		t.Fatalf("expected merged length 6, got %d", b.Length())
	}
}

func TestDeleteBackwardAtDocumentStartIsNoop(t *testing.T) {
	s, id := newDocState("hello")
	s2 := state.Create(s.Doc, cursorAt(id, 0), nil)
	if tr := DeleteBackward(s2); tr != nil {
		t.Fatalf("expected nil transaction at the very start of the document")
	}
}

func TestToggleBoldOnCollapsedSelectionTogglesStoredMarks(t *testing.T) {
	s, _ := newDocState("hi")
	tr := ToggleBold(s)
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.StoredMarks.HasType("bold") {
		t.Fatalf("expected bold added to stored marks")
	}

	tr2 := ToggleBold(next)
	next2, err := next.Apply(*tr2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next2.StoredMarks.HasType("bold") {
		t.Fatalf("expected bold removed on second toggle")
	}
}

func TestToggleBoldOnRangeAddsMarkWhenAnyRunLacksIt(t *testing.T) {
	id := model.NewBlockID()
	doc := &model.Document{Blocks: []*model.BlockNode{
		{ID: id, Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: "hello"}}},
	}}
	s := state.Create(doc, selection.NewTextSelection(
		selection.Position{BlockId: id, Offset: 0},
		selection.Position{BlockId: id, Offset: 5},
	), nil)

	tr := ToggleBold(s)
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	next, err := s.Apply(*tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := next.GetBlock(id)
	tn, ok := b.Inline[0].(model.TextNode)
	if !ok || !tn.Marks.HasType("bold") {
		t.Fatalf("expected the whole run bolded, got %v", b.Inline)
	}
}

func TestSelectAllSelectsFirstToLastLeafBlock(t *testing.T) {
	idA := model.NewBlockID()
	idB := model.NewBlockID()
	doc := &model.Document{Blocks: []*model.BlockNode{
		{ID: idA, Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: "foo"}}},
		{ID: idB, Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: "bar"}}},
	}}
	s := state.Create(doc, cursorAt(idA, 0), nil)

	tr := SelectAll(s)
	if tr == nil {
		t.Fatalf("expected a transaction")
	}
	ts, ok := tr.SelectionAfter.(selection.TextSelection)
	if !ok {
		t.Fatalf("expected a text selection, got %v", tr.SelectionAfter)
	}
	if ts.Anchor.BlockId != idA || ts.Anchor.Offset != 0 {
		t.Fatalf("expected anchor at start of first block, got %v", ts.Anchor)
	}
	if ts.Head.BlockId != idB || ts.Head.Offset != 3 {
		t.Fatalf("expected head at end of last block, got %v", ts.Head)
	}
}
