package step

import (
	"reflect"
	"testing"

	"github.com/scrivlet/editorcore/model"
)

const (
	bold   model.MarkTypeName = "bold"
	italic model.MarkTypeName = "italic"
)

func paragraph(id model.BlockId, children ...model.InlineNode) *model.BlockNode {
	return &model.BlockNode{ID: id, Type: "paragraph", Inline: children}
}

func text(s string, marks ...model.Mark) model.TextNode {
	return model.TextNode{Text: s, Marks: model.MarkSet(marks)}
}

func docEqual(t *testing.T, got, want *model.Document) {
	t.Helper()
	gj, err := got.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}
	wj, err := want.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal want: %v", err)
	}
	if string(gj) != string(wj) {
		t.Fatalf("documents differ:\n got=%s\nwant=%s", gj, wj)
	}
}

func roundTrip(t *testing.T, doc *model.Document, s Step) {
	t.Helper()
	after, err := s.Apply(doc)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	back, err := s.Invert().Apply(after)
	if err != nil {
		t.Fatalf("invert apply: %v", err)
	}
	docEqual(t, back, doc)
}

// S1: splitting a block and merging it back restores the original.
func TestSplitMergeRoundTrip(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{paragraph("b1", text("hello world"))}}

	split, err := NewSplitBlock(doc, "b1", 5, "b2")
	if err != nil {
		t.Fatalf("NewSplitBlock: %v", err)
	}
	afterSplit, err := split.Apply(doc)
	if err != nil {
		t.Fatalf("split apply: %v", err)
	}
	if len(afterSplit.Blocks) != 2 {
		t.Fatalf("expected 2 blocks after split, got %d", len(afterSplit.Blocks))
	}
	if got := afterSplit.Blocks[0].Inline[0].(model.TextNode).Text; got != "hello" {
		t.Fatalf("left half = %q, want %q", got, "hello")
	}
	if got := afterSplit.Blocks[1].Inline[0].(model.TextNode).Text; got != " world" {
		t.Fatalf("right half = %q, want %q", got, " world")
	}

	merge, err := NewMergeBlocks(afterSplit, "b1", "b2")
	if err != nil {
		t.Fatalf("NewMergeBlocks: %v", err)
	}
	merged, err := merge.Apply(afterSplit)
	if err != nil {
		t.Fatalf("merge apply: %v", err)
	}
	docEqual(t, merged, doc)

	// And the inverse direction: split.Invert() should also merge back.
	roundTrip(t, doc, split)
}

// S2: deleting a range that crosses a mark boundary and undoing it must
// restore each run's original marks, not just the leftmost run's.
func TestDeleteAcrossMarkBoundaryRestoresPerSliceMarks(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		paragraph("b1",
			text("bold", model.Mark{Type: bold}),
			text("plain"),
			text("italic", model.Mark{Type: italic}),
		),
	}}
	// Range spans the middle of "bold" through the middle of "italic".
	del, err := NewDeleteText(doc, "b1", 2, 11)
	if err != nil {
		t.Fatalf("NewDeleteText: %v", err)
	}
	if len(del.CapturedSegments) != 3 {
		t.Fatalf("expected 3 captured segments, got %d: %+v", len(del.CapturedSegments), del.CapturedSegments)
	}
	roundTrip(t, doc, del)
}

func TestInsertTextInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{paragraph("b1", text("hello"))}}
	ins := NewInsertText("b1", 5, " world", nil)
	roundTrip(t, doc, ins)
}

func TestAddMarkInvertRestoresHeterogeneousMarks(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		paragraph("b1",
			text("one", model.Mark{Type: bold}),
			text("two"),
		),
	}}
	add, err := NewAddMark(doc, "b1", 0, 6, model.Mark{Type: italic})
	if err != nil {
		t.Fatalf("NewAddMark: %v", err)
	}
	after, err := add.Apply(doc)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	marks := model.GetBlockMarksAtOffset(after.Blocks[0], 1)
	if !marks.HasType(bold) || !marks.HasType(italic) {
		t.Fatalf("expected both bold and italic at offset 1, got %+v", marks)
	}
	roundTrip(t, doc, add)
}

func TestRemoveMarkInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		paragraph("b1", text("hello", model.Mark{Type: bold}, model.Mark{Type: italic})),
	}}
	rm, err := NewRemoveMark(doc, "b1", 0, 5, bold)
	if err != nil {
		t.Fatalf("NewRemoveMark: %v", err)
	}
	after, err := rm.Apply(doc)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	marks := model.GetBlockMarksAtOffset(after.Blocks[0], 1)
	if marks.HasType(bold) {
		t.Fatalf("bold should have been removed, got %+v", marks)
	}
	if !marks.HasType(italic) {
		t.Fatalf("italic should survive, got %+v", marks)
	}
	roundTrip(t, doc, rm)
}

func TestSetBlockTypeInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{paragraph("b1", text("x"))}}
	sbt, err := NewSetBlockType(doc, "b1", "heading", map[string]any{"level": 2})
	if err != nil {
		t.Fatalf("NewSetBlockType: %v", err)
	}
	roundTrip(t, doc, sbt)
}

func TestInsertRemoveNodeInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{paragraph("b1", text("x"))}}
	ins, err := NewInsertNode(doc, nil, 1, paragraph("b2", text("y")), nil)
	if err != nil {
		t.Fatalf("NewInsertNode: %v", err)
	}
	roundTrip(t, doc, ins)

	after, err := ins.Apply(doc)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	rm, err := NewRemoveNode(after, nil, 1)
	if err != nil {
		t.Fatalf("NewRemoveNode: %v", err)
	}
	roundTrip(t, after, rm)
}

func TestInsertRemoveInlineNodeInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{paragraph("b1", text("ac"))}}
	ins := &InsertInlineNode{BlockId: "b1", Offset: 1, Atom: model.InlineAtom{Type: "hard_break"}}
	roundTrip(t, doc, ins)

	after, err := ins.Apply(doc)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	rm, err := NewRemoveInlineNode(after, "b1", 1)
	if err != nil {
		t.Fatalf("NewRemoveInlineNode: %v", err)
	}
	roundTrip(t, after, rm)
}

func TestSetNodeAttrInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		{ID: "b1", Type: "paragraph", Attrs: map[string]any{"align": "left"}, Inline: []model.InlineNode{text("x")}},
	}}
	sna, err := NewSetNodeAttr(doc, "b1", map[string]any{"align": "right"})
	if err != nil {
		t.Fatalf("NewSetNodeAttr: %v", err)
	}
	roundTrip(t, doc, sna)
}

func TestSetInlineNodeAttrInvert(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		paragraph("b1", model.InlineAtom{Type: "image", Attrs: map[string]any{"src": "a.png"}}),
	}}
	sia, err := NewSetInlineNodeAttr(doc, "b1", 0, map[string]any{"src": "b.png"})
	if err != nil {
		t.Fatalf("NewSetInlineNodeAttr: %v", err)
	}
	roundTrip(t, doc, sia)
}

func TestSetStoredMarksInvert(t *testing.T) {
	s := &SetStoredMarks{NewMarks: model.MarkSet{{Type: bold}}, OldMarks: nil}
	inv := s.Invert().(*SetStoredMarks)
	if !reflect.DeepEqual(inv.NewMarks, s.OldMarks) || !reflect.DeepEqual(inv.OldMarks, s.NewMarks) {
		t.Fatalf("invert did not swap marks: %+v", inv)
	}
}

// Universal invariant (spec.md §8): MapBlock-based steps must share
// untouched sibling subtrees by pointer identity.
func TestInsertTextSharesUntouchedSiblings(t *testing.T) {
	untouched := paragraph("b2", text("unchanged"))
	doc := &model.Document{Blocks: []*model.BlockNode{paragraph("b1", text("x")), untouched}}
	ins := NewInsertText("b1", 1, "y", nil)
	after, err := ins.Apply(doc)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if after.Blocks[1] != untouched {
		t.Fatalf("sibling block b2 was not shared by pointer identity")
	}
}
