package selection

import "github.com/scrivlet/editorcore/model"

// Range is a from/to pair normalized to document order.
type Range struct {
	From Position
	To   Position
}

// comparePositions orders two positions using order, the document's
// block-order array (model.BlockOrder or EditorState.GetBlockOrder).
// Positions in blocks absent from order sort after all known blocks, so
// callers degrade gracefully rather than panicking.
func comparePositions(a, b Position, order []model.BlockId) int {
	if a.BlockId == b.BlockId {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		default:
			return 0
		}
	}
	idx := model.BlockOrderIndex(order)
	ai, aok := idx[a.BlockId]
	bi, bok := idx[b.BlockId]
	switch {
	case aok && bok:
		if ai < bi {
			return -1
		}
		return 1
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	default:
		return 0
	}
}

// IsCollapsed reports whether sel selects zero positions: true for a
// TextSelection whose anchor equals its head, false for NodeSelection and
// GapCursor (which always select something, even if a single node or a
// void gap).
func IsCollapsed(sel Selection) bool {
	ts, ok := sel.(TextSelection)
	return ok && ts.Anchor == ts.Head
}

// IsForward reports whether the selection's head comes at or after its
// anchor in document order, consulting order for cross-block comparisons
// (spec.md §4.2). Always true for NodeSelection/GapCursor, which have no
// anchor/head pair.
func IsForward(sel Selection, order []model.BlockId) bool {
	ts, ok := sel.(TextSelection)
	if !ok {
		return true
	}
	return comparePositions(ts.Anchor, ts.Head, order) <= 0
}

// SelectionRange normalizes sel to a document-order {from, to} pair.
func SelectionRange(sel Selection, order []model.BlockId) Range {
	switch v := sel.(type) {
	case TextSelection:
		if comparePositions(v.Anchor, v.Head, order) <= 0 {
			return Range{From: v.Anchor, To: v.Head}
		}
		return Range{From: v.Head, To: v.Anchor}
	case NodeSelection:
		pos := Position{BlockId: v.BlockId, Offset: 0}
		return Range{From: pos, To: pos}
	case GapCursor:
		pos := Position{BlockId: v.AnchorBlockId, Offset: 0}
		return Range{From: pos, To: pos}
	default:
		return Range{}
	}
}

// SelectionsEqual reports deep equality between two selections of
// possibly different kinds (different kinds are never equal).
func SelectionsEqual(a, b Selection) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case TextSelection:
		bv := b.(TextSelection)
		return av == bv
	case NodeSelection:
		bv := b.(NodeSelection)
		if av.BlockId != bv.BlockId || len(av.Path) != len(bv.Path) {
			return false
		}
		for i := range av.Path {
			if av.Path[i] != bv.Path[i] {
				return false
			}
		}
		return true
	case GapCursor:
		bv := b.(GapCursor)
		if av.AnchorBlockId != bv.AnchorBlockId || av.Side != bv.Side || len(av.Path) != len(bv.Path) {
			return false
		}
		for i := range av.Path {
			if av.Path[i] != bv.Path[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}
