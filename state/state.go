// Package state implements the editor's deterministic state machine
// (spec.md §4.6): an immutable (doc, selection, storedMarks, schema)
// snapshot plus the fold that turns a transaction into the next snapshot.
package state

import (
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

// EditorState is the immutable snapshot every command reads and every
// transaction is folded against. The private constructor pattern
// (newState) keeps callers going through Create or Apply, matching the
// "private constructor and a create(init?) factory" contract.
type EditorState struct {
	Doc         *model.Document
	Selection   selection.Selection
	StoredMarks model.MarkSet
	Schema      *schema.Registry

	blockIndex map[model.BlockId]*model.BlockNode
	blockOrder []model.BlockId
}

func newState(doc *model.Document, sel selection.Selection, marks model.MarkSet, reg *schema.Registry) *EditorState {
	return &EditorState{Doc: doc, Selection: sel, StoredMarks: marks, Schema: reg}
}

// Create builds the initial EditorState. A nil doc defaults to a single
// empty paragraph so every state has at least one leaf block to fall back
// selections onto. A nil sel defaults to a collapsed cursor at the start
// of the first leaf block.
func Create(doc *model.Document, sel selection.Selection, reg *schema.Registry) *EditorState {
	if doc == nil {
		doc = &model.Document{Blocks: []*model.BlockNode{
			{ID: model.NewBlockID(), Type: "paragraph", Inline: []model.InlineNode{model.TextNode{}}},
		}}
	}
	if reg == nil {
		reg = schema.New()
	}
	if sel == nil {
		leaves := model.LeafBlocks(doc)
		if len(leaves) > 0 {
			sel = selection.NewCollapsed(selection.Position{BlockId: leaves[0].ID, Offset: 0})
		}
	}
	return newState(doc, sel, nil, reg)
}

// GetBlock resolves id in O(1) amortized time via a lazily-built index
// cached on this immutable snapshot, per spec.md §4.6's performance
// contract.
func (s *EditorState) GetBlock(id model.BlockId) (*model.BlockNode, bool) {
	if s.blockIndex == nil {
		idx := make(map[model.BlockId]*model.BlockNode)
		model.WalkBlocks(s.Doc, func(b *model.BlockNode, _ []model.BlockId) bool {
			idx[b.ID] = b
			return true
		})
		s.blockIndex = idx
	}
	b, ok := s.blockIndex[id]
	return b, ok
}

// GetBlockOrder returns the depth-first block-id order, cached so repeated
// calls on the same state return the identical slice reference (universal
// invariant 8, spec.md §8).
func (s *EditorState) GetBlockOrder() []model.BlockId {
	if s.blockOrder == nil {
		s.blockOrder = model.BlockOrder(s.Doc)
	}
	return s.blockOrder
}

func applyStep(doc *model.Document, s step.Step) (*model.Document, error) {
	return s.Apply(doc)
}

// Apply folds tr's steps through the document, recomputes storedMarks, and
// validates/repairs selectionAfter, returning the next EditorState
// (spec.md §4.6). The receiver is untouched — EditorState is immutable.
func (s *EditorState) Apply(tr transaction.Transaction) (*EditorState, error) {
	doc := s.Doc
	storedMarks := s.StoredMarks
	storedMarksSet := false
	for _, st := range tr.Steps {
		var err error
		doc, err = applyStep(doc, st)
		if err != nil {
			return nil, err
		}
		if sm, ok := st.(*step.SetStoredMarks); ok {
			storedMarks = sm.NewMarks
			storedMarksSet = true
		}
	}
	if !storedMarksSet {
		storedMarks = s.StoredMarks
	}
	sel := validateSelection(doc, tr.SelectionAfter)
	return newState(doc, sel, storedMarks, s.Schema), nil
}

// validateSelection implements spec.md §4.6's selection-validation-on-apply
// rules: repair references to blocks the edit removed, clamp offsets that
// ran past the end of a shrunk block, and pass a fully valid selection
// through unchanged (by identity, so callers doing sel == before still see
// sharing where nothing needed to move).
func validateSelection(doc *model.Document, sel selection.Selection) selection.Selection {
	if sel == nil {
		return fallbackSelection(doc)
	}
	switch v := sel.(type) {
	case selection.TextSelection:
		anchor, okA := validatePosition(doc, v.Anchor)
		head, okH := validatePosition(doc, v.Head)
		if !okA || !okH {
			return fallbackSelection(doc)
		}
		if anchor == v.Anchor && head == v.Head {
			return sel
		}
		return selection.NewTextSelection(anchor, head)
	case selection.NodeSelection:
		if b, _ := model.FindBlock(doc, v.BlockId); b == nil {
			return fallbackSelection(doc)
		}
		return sel
	case selection.GapCursor:
		if b, _ := model.FindBlock(doc, v.AnchorBlockId); b == nil {
			return fallbackSelection(doc)
		}
		return sel
	default:
		return fallbackSelection(doc)
	}
}

// validatePosition clamps pos's offset into its block's valid range,
// reporting false if the block no longer exists at all.
func validatePosition(doc *model.Document, pos selection.Position) (selection.Position, bool) {
	b, _ := model.FindBlock(doc, pos.BlockId)
	if b == nil {
		return pos, false
	}
	if pos.Offset < 0 {
		return selection.Position{BlockId: pos.BlockId, Offset: 0}, true
	}
	if pos.Offset > b.Length() {
		return selection.Position{BlockId: pos.BlockId, Offset: b.Length()}, true
	}
	return pos, true
}

// fallbackSelection returns a collapsed cursor at the start of the first
// leaf block, the universal fallback spec.md §4.6 prescribes.
func fallbackSelection(doc *model.Document) selection.Selection {
	leaves := model.LeafBlocks(doc)
	if len(leaves) == 0 {
		return nil
	}
	return selection.NewCollapsed(selection.Position{BlockId: leaves[0].ID, Offset: 0})
}
