// Package command implements the higher-level editing intents from
// spec.md §4.7: pure functions of (state, ...args) that build a
// transaction.Transaction, or return nil when a precondition fails so the
// dispatcher can no-op.
package command

import (
	"fmt"
	"time"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

func nowMillis() int64 { return time.Now().UnixMilli() }

// stepBuilder threads a scratch document through a sequence of step
// constructions so each New* constructor captures against the document as
// it exists *after* the previous step in the same command, mirroring how
// the transaction builder's steps are meant to compose.
type stepBuilder struct {
	doc   *model.Document
	steps []step.Step
}

func (sb *stepBuilder) add(s step.Step) error {
	next, err := s.Apply(sb.doc)
	if err != nil {
		return err
	}
	sb.doc = next
	sb.steps = append(sb.steps, s)
	return nil
}

func (sb *stepBuilder) findBlock(id model.BlockId) (*model.BlockNode, bool) {
	b, _ := model.FindBlock(sb.doc, id)
	return b, b != nil
}

func siblingsAtPath(doc *model.Document, path []model.BlockId) ([]*model.BlockNode, error) {
	if len(path) == 0 {
		return doc.Blocks, nil
	}
	parent, ok := model.ResolvePath(doc, path)
	if !ok {
		return nil, fmt.Errorf("command: path %v does not resolve", path)
	}
	return parent.Blocks, nil
}

// deleteRangeSteps deletes [from, to) from sb's scratch document, handling
// both the single-block case and a range spanning several sibling leaf
// blocks: the trailing part of from's block and the leading part of to's
// block are deleted, every fully-enclosed block in between has its content
// cleared, and the whole run is merged back into from's block, per
// spec.md §4.7's insertTextCommand contract (shared by every command that
// needs to collapse a non-empty TextSelection first).
func deleteRangeSteps(sb *stepBuilder, from, to selection.Position) error {
	if from.BlockId == to.BlockId {
		if from.Offset == to.Offset {
			return nil
		}
		del, err := step.NewDeleteText(sb.doc, from.BlockId, from.Offset, to.Offset)
		if err != nil {
			return err
		}
		return sb.add(del)
	}

	fromBlock, ok := sb.findBlock(from.BlockId)
	if !ok {
		return fmt.Errorf("command: block %q not found", from.BlockId)
	}
	if from.Offset < fromBlock.Length() {
		del, err := step.NewDeleteText(sb.doc, from.BlockId, from.Offset, fromBlock.Length())
		if err != nil {
			return err
		}
		if err := sb.add(del); err != nil {
			return err
		}
	}

	between := leafOrderBetween(sb.doc, from.BlockId, to.BlockId)
	for _, id := range between {
		blk, ok := sb.findBlock(id)
		if !ok {
			return fmt.Errorf("command: block %q not found", id)
		}
		trimEnd := blk.Length()
		if id == to.BlockId {
			trimEnd = to.Offset
		}
		if trimEnd > 0 {
			del, err := step.NewDeleteText(sb.doc, id, 0, trimEnd)
			if err != nil {
				return err
			}
			if err := sb.add(del); err != nil {
				return err
			}
		}
		merge, err := step.NewMergeBlocks(sb.doc, from.BlockId, id)
		if err != nil {
			return err
		}
		if err := sb.add(merge); err != nil {
			return err
		}
	}
	return nil
}

// leafOrderBetween returns the leaf-block ids strictly after fromID
// through toID inclusive, in document order.
func leafOrderBetween(doc *model.Document, fromID, toID model.BlockId) []model.BlockId {
	leaves := model.LeafBlocks(doc)
	fi, ti := -1, -1
	for i, b := range leaves {
		if b.ID == fromID {
			fi = i
		}
		if b.ID == toID {
			ti = i
		}
	}
	if fi < 0 || ti < 0 || ti < fi {
		return nil
	}
	ids := make([]model.BlockId, 0, ti-fi)
	for i := fi + 1; i <= ti; i++ {
		ids = append(ids, leaves[i].ID)
	}
	return ids
}

// SelectAll selects from the start of the first leaf block to the end of
// the last, clearing storedMarks per spec.md §4.7's motion-builder
// contract.
func SelectAll(s *state.EditorState) *transaction.Transaction {
	leaves := model.LeafBlocks(s.Doc)
	if len(leaves) == 0 {
		return nil
	}
	first, last := leaves[0], leaves[len(leaves)-1]
	sel := selection.NewTextSelection(
		selection.Position{BlockId: first.ID, Offset: 0},
		selection.Position{BlockId: last.ID, Offset: last.Length()},
	)
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		SetStoredMarks(nil, s.StoredMarks).
		SetSelection(sel).
		Build()
	return &t
}

// MoveTx collapses the selection to pos, clearing storedMarks.
func MoveTx(s *state.EditorState, pos selection.Position) *transaction.Transaction {
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		SetStoredMarks(nil, s.StoredMarks).
		SetSelection(selection.NewCollapsed(pos)).
		Build()
	return &t
}

// NodeSelTx selects a whole block as an atomic unit, clearing storedMarks.
func NodeSelTx(s *state.EditorState, blockID model.BlockId, path []model.BlockId) *transaction.Transaction {
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		SetStoredMarks(nil, s.StoredMarks).
		SetSelection(selection.NewNodeSelection(blockID, path)).
		Build()
	return &t
}

// ExtendTx moves the selection's head to pos, keeping its current anchor
// (or using pos as both if the current selection has none), clearing
// storedMarks.
func ExtendTx(s *state.EditorState, head selection.Position) *transaction.Transaction {
	anchor := head
	if ts, ok := s.Selection.(selection.TextSelection); ok {
		anchor = ts.Anchor
	}
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		SetStoredMarks(nil, s.StoredMarks).
		SetSelection(selection.NewTextSelection(anchor, head)).
		Build()
	return &t
}

// InsertTextCommand deletes any selected range first, then inserts text at
// the resulting collapsed position — the **from** position of the range,
// not the selection's anchor, so a backward selection still inserts where
// the document-order range begins (spec.md §4.7, scenario S3). A collapsed
// selection with non-empty storedMarks uses those marks for the inserted
// text.
func InsertTextCommand(s *state.EditorState, text string) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)

	sb := &stepBuilder{doc: s.Doc}
	if rng.From != rng.To {
		if err := deleteRangeSteps(sb, rng.From, rng.To); err != nil {
			return nil
		}
	}

	marks := s.StoredMarks
	ins := step.NewInsertText(rng.From.BlockId, rng.From.Offset, text, marks)
	if err := sb.add(ins); err != nil {
		return nil
	}

	endOffset := rng.From.Offset + len([]rune(text))
	sel := selection.NewCollapsed(selection.Position{BlockId: rng.From.BlockId, Offset: endOffset})
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}

// SplitBlockCommand deletes any selected range, then splits the block at
// the resulting cursor, placing the new cursor at the start of the new
// right-hand block.
func SplitBlockCommand(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)

	sb := &stepBuilder{doc: s.Doc}
	if rng.From != rng.To {
		if err := deleteRangeSteps(sb, rng.From, rng.To); err != nil {
			return nil
		}
	}

	newID := model.NewBlockID()
	split, err := step.NewSplitBlock(sb.doc, rng.From.BlockId, rng.From.Offset, newID)
	if err != nil {
		return nil
	}
	if err := sb.add(split); err != nil {
		return nil
	}

	sel := selection.NewCollapsed(selection.Position{BlockId: newID, Offset: 0})
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}

func mergeBlockBackwardAt(s *state.EditorState, blockID model.BlockId) *transaction.Transaction {
	leaves := model.LeafBlocks(s.Doc)
	idx := -1
	for i, b := range leaves {
		if b.ID == blockID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil
	}
	target := leaves[idx-1]
	merge, err := step.NewMergeBlocks(s.Doc, target.ID, blockID)
	if err != nil {
		return nil
	}
	sel := selection.NewCollapsed(selection.Position{BlockId: target.ID, Offset: target.Length()})
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Step(merge).
		SetSelection(sel).
		Build()
	return &t
}

func mergeBlockForwardAt(s *state.EditorState, blockID model.BlockId) *transaction.Transaction {
	leaves := model.LeafBlocks(s.Doc)
	idx := -1
	for i, b := range leaves {
		if b.ID == blockID {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(leaves)-1 {
		return nil
	}
	source := leaves[idx+1]
	merge, err := step.NewMergeBlocks(s.Doc, blockID, source.ID)
	if err != nil {
		return nil
	}
	target, _ := model.FindBlock(s.Doc, blockID)
	sel := selection.NewCollapsed(selection.Position{BlockId: blockID, Offset: target.Length()})
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Step(merge).
		SetSelection(sel).
		Build()
	return &t
}

// MergeBlockBackward merges the current block into its previous leaf
// sibling. Returns nil at the start of the document or on a non-collapsed
// selection.
func MergeBlockBackward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok || !selection.IsCollapsed(ts) {
		return nil
	}
	return mergeBlockBackwardAt(s, ts.Head.BlockId)
}

// MergeBlockForward merges the next leaf sibling into the current block.
func MergeBlockForward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok || !selection.IsCollapsed(ts) {
		return nil
	}
	return mergeBlockForwardAt(s, ts.Head.BlockId)
}
