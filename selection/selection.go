// Package selection implements the text-range, node-selection and
// gap-cursor position variants from spec.md §3/§4.2, plus the
// block-order–aware ordering operations built on top of them. Selections
// are immutable values; the engine never mutates one in place.
package selection

import "github.com/scrivlet/editorcore/model"

// Position is a caret location: a block id and an offset within that
// block's offset space.
type Position struct {
	BlockId model.BlockId
	Offset  int
}

// Kind discriminates the three selection variants.
type Kind int

const (
	KindText Kind = iota
	KindNode
	KindGap
)

// Selection is the tagged union of the three position variants
// (spec.md §3 "Sum types").
type Selection interface {
	Kind() Kind
}

// TextSelection is an anchor/head pair of text positions. It is
// collapsed when anchor == head.
type TextSelection struct {
	Anchor Position
	Head   Position
}

func (TextSelection) Kind() Kind { return KindText }

// NewTextSelection constructs a TextSelection.
func NewTextSelection(anchor, head Position) TextSelection {
	return TextSelection{Anchor: anchor, Head: head}
}

// NewCollapsed constructs a collapsed TextSelection (anchor == head) at
// pos, per spec.md §3.
func NewCollapsed(pos Position) TextSelection {
	return TextSelection{Anchor: pos, Head: pos}
}

// NodeSelection selects one block as an atomic unit, carrying the full
// path from the document root (a breadcrumb, never a back-pointer —
// spec.md §9).
type NodeSelection struct {
	BlockId model.BlockId
	Path    []model.BlockId
}

func (NodeSelection) Kind() Kind { return KindNode }

// NewNodeSelection constructs a NodeSelection.
func NewNodeSelection(id model.BlockId, path []model.BlockId) NodeSelection {
	return NodeSelection{BlockId: id, Path: path}
}

// GapSide indicates which side of the anchor block the gap cursor sits on.
type GapSide int

const (
	Before GapSide = iota
	After
)

// GapCursor is a caret between two blocks (or before the first / after the
// last) where no text position exists, e.g. adjacent to a void block.
type GapCursor struct {
	AnchorBlockId model.BlockId
	Side          GapSide
	Path          []model.BlockId
}

func (GapCursor) Kind() Kind { return KindGap }

// NewGapCursor constructs a GapCursor.
func NewGapCursor(anchor model.BlockId, side GapSide, path []model.BlockId) GapCursor {
	return GapCursor{AnchorBlockId: anchor, Side: side, Path: path}
}

// IsTextSelection reports whether sel is a TextSelection.
func IsTextSelection(sel Selection) bool { return sel.Kind() == KindText }

// IsNodeSelection reports whether sel is a NodeSelection.
func IsNodeSelection(sel Selection) bool { return sel.Kind() == KindNode }

// IsGapCursor reports whether sel is a GapCursor.
func IsGapCursor(sel Selection) bool { return sel.Kind() == KindGap }
