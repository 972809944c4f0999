package command

import (
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

// ContentSlice is a portable fragment of the document tree — the shape a
// clipboard payload, drag-and-drop source, or plugin-generated content
// takes before PasteSlice reconciles it with the current selection
// (spec.md §3 GLOSSARY "slice").
type ContentSlice struct {
	Blocks []*model.BlockNode
}

func inlineContentLen(nodes []model.InlineNode) int {
	total := 0
	for _, n := range nodes {
		total += n.Len()
	}
	return total
}

func insertInlineContent(sb *stepBuilder, blockID model.BlockId, offset int, nodes []model.InlineNode) (int, error) {
	cur := offset
	for _, n := range nodes {
		switch v := n.(type) {
		case model.TextNode:
			if err := sb.add(step.NewInsertText(blockID, cur, v.Text, v.Marks)); err != nil {
				return cur, err
			}
			cur += v.Len()
		case model.InlineAtom:
			if err := sb.add(&step.InsertInlineNode{BlockId: blockID, Offset: cur, Atom: v}); err != nil {
				return cur, err
			}
			cur++
		}
	}
	return cur, nil
}

func indexInSiblings(doc *model.Document, path []model.BlockId, id model.BlockId) int {
	siblings, err := siblingsAtPath(doc, path)
	if err != nil {
		return 0
	}
	for i, b := range siblings {
		if b.ID == id {
			return i
		}
	}
	return 0
}

// PasteSlice reconciles slice with the current selection per spec.md
// §4.7's three paste shapes: a single paragraph merges its inline content
// into the current block; a single non-paragraph block replaces the
// current block's type and inserts the slice's content; more than one
// block splits the current block at the cursor and splices the slice
// blocks between the two halves. A GapCursor instead inserts the slice's
// blocks as new siblings at the gap.
func PasteSlice(s *state.EditorState, slice ContentSlice) *transaction.Transaction {
	if len(slice.Blocks) == 0 {
		return nil
	}
	switch sel := s.Selection.(type) {
	case selection.GapCursor:
		return pasteAtGap(s, sel, slice)
	case selection.TextSelection:
		return pasteAtText(s, sel, slice)
	default:
		return nil
	}
}

func pasteAtGap(s *state.EditorState, gap selection.GapCursor, slice ContentSlice) *transaction.Transaction {
	siblings, err := siblingsAtPath(s.Doc, gap.Path)
	if err != nil {
		return nil
	}
	anchorIdx := -1
	for i, b := range siblings {
		if b.ID == gap.AnchorBlockId {
			anchorIdx = i
			break
		}
	}
	if anchorIdx < 0 {
		return nil
	}
	insertIdx := anchorIdx
	if gap.Side == selection.After {
		insertIdx = anchorIdx + 1
	}

	sb := &stepBuilder{doc: s.Doc}
	for i, blk := range slice.Blocks {
		ins, err := step.NewInsertNode(sb.doc, gap.Path, insertIdx+i, blk, s.Schema)
		if err != nil {
			return nil
		}
		if err := sb.add(ins); err != nil {
			return nil
		}
	}

	last := slice.Blocks[len(slice.Blocks)-1]
	sel := selection.NewCollapsed(selection.Position{BlockId: last.ID, Offset: last.Length()})
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}

func pasteAtText(s *state.EditorState, ts selection.TextSelection, slice ContentSlice) *transaction.Transaction {
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)

	sb := &stepBuilder{doc: s.Doc}
	if rng.From != rng.To {
		if err := deleteRangeSteps(sb, rng.From, rng.To); err != nil {
			return nil
		}
	}

	if len(slice.Blocks) == 1 {
		first := slice.Blocks[0]
		if first.Type == "paragraph" {
			return pasteInline(sb, s.Selection, rng.From, first)
		}
		return pasteReplaceType(sb, s.Selection, rng.From, first)
	}
	return pasteMultiBlock(sb, s.Selection, rng.From, slice.Blocks)
}

func pasteInline(sb *stepBuilder, before selection.Selection, at selection.Position, block *model.BlockNode) *transaction.Transaction {
	end, err := insertInlineContent(sb, at.BlockId, at.Offset, block.Inline)
	if err != nil {
		return nil
	}
	sel := selection.NewCollapsed(selection.Position{BlockId: at.BlockId, Offset: end})
	t := transaction.New(before, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}

func pasteReplaceType(sb *stepBuilder, before selection.Selection, at selection.Position, block *model.BlockNode) *transaction.Transaction {
	sbt, err := step.NewSetBlockType(sb.doc, at.BlockId, block.Type, block.Attrs)
	if err != nil {
		return nil
	}
	if err := sb.add(sbt); err != nil {
		return nil
	}
	end, err := insertInlineContent(sb, at.BlockId, at.Offset, block.Inline)
	if err != nil {
		return nil
	}
	sel := selection.NewCollapsed(selection.Position{BlockId: at.BlockId, Offset: end})
	t := transaction.New(before, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}

func pasteMultiBlock(sb *stepBuilder, before selection.Selection, at selection.Position, blocks []*model.BlockNode) *transaction.Transaction {
	newRightID := model.NewBlockID()
	split, err := step.NewSplitBlock(sb.doc, at.BlockId, at.Offset, newRightID)
	if err != nil {
		return nil
	}
	if err := sb.add(split); err != nil {
		return nil
	}
	leftID, rightID := at.BlockId, newRightID

	first := blocks[0]
	leftLen, ok := sb.findBlock(leftID)
	if !ok {
		return nil
	}
	if _, err := insertInlineContent(sb, leftID, leftLen.Length(), first.Inline); err != nil {
		return nil
	}

	_, path := model.FindBlock(sb.doc, leftID)
	rightIdx := indexInSiblings(sb.doc, path, rightID)
	middle := blocks[1 : len(blocks)-1]
	for i, blk := range middle {
		ins, err := step.NewInsertNode(sb.doc, path, rightIdx+i, blk, nil)
		if err != nil {
			return nil
		}
		if err := sb.add(ins); err != nil {
			return nil
		}
	}

	last := blocks[len(blocks)-1]
	if _, err := insertInlineContent(sb, rightID, 0, last.Inline); err != nil {
		return nil
	}

	sel := selection.NewCollapsed(selection.Position{BlockId: rightID, Offset: inlineContentLen(last.Inline)})
	t := transaction.New(before, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}
