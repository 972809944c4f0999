package step

import "github.com/scrivlet/editorcore/model"

// InsertInlineNode inserts a single InlineAtom at Offset within a block's
// inline content (an image, mention, or hard break — never a TextNode;
// use InsertText for runs of text).
type InsertInlineNode struct {
	BlockId model.BlockId
	Offset  int
	Atom    model.InlineAtom
}

func (s *InsertInlineNode) Apply(doc *model.Document) (*model.Document, error) {
	b, err := findBlockOrErr(doc, "InsertInlineNode", s.BlockId)
	if err != nil {
		return nil, err
	}
	if s.Offset < 0 || s.Offset > b.Length() {
		return nil, notFound("InsertInlineNode", s.BlockId, "offset out of range")
	}
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		idx, start, within := model.InlineSliceForInsert(blk.Inline, s.Offset)
		nb := blk.CloneShallow()
		if idx < 0 {
			nb.Inline = []model.InlineNode{s.Atom}
			return nb, nil
		}
		out := make([]model.InlineNode, 0, len(blk.Inline)+1)
		out = append(out, blk.Inline[:idx]...)
		target := blk.Inline[idx]
		if tn, ok := target.(model.TextNode); ok && within > 0 && within < len([]rune(tn.Text)) {
			runes := []rune(tn.Text)
			out = append(out, model.TextNode{Text: string(runes[:within]), Marks: tn.Marks}, s.Atom, model.TextNode{Text: string(runes[within:]), Marks: tn.Marks})
		} else if within == 0 {
			out = append(out, s.Atom, target)
		} else {
			out = append(out, target, s.Atom)
		}
		out = append(out, blk.Inline[idx+1:]...)
		_ = start
		nb.Inline = model.NormalizeInline(out)
		return nb, nil
	})
	return newDoc, err
}

// Invert returns the RemoveInlineNode that undoes the insertion.
func (s *InsertInlineNode) Invert() Step {
	return &RemoveInlineNode{BlockId: s.BlockId, Offset: s.Offset, CapturedAtom: s.Atom}
}

// RemoveInlineNode removes the InlineAtom occupying [Offset, Offset+1).
// CapturedAtom is required for Apply to validate the node being removed is
// in fact the atom it expects, and for Invert to recreate it exactly.
type RemoveInlineNode struct {
	BlockId      model.BlockId
	Offset       int
	CapturedAtom model.InlineAtom
}

// NewRemoveInlineNode captures the atom at offset before removing it.
func NewRemoveInlineNode(doc *model.Document, blockID model.BlockId, offset int) (*RemoveInlineNode, error) {
	b, err := findBlockOrErr(doc, "RemoveInlineNode", blockID)
	if err != nil {
		return nil, err
	}
	idx, _, within := model.InlineSliceForInsert(b.Inline, offset)
	if idx < 0 || within != 0 {
		return nil, notFound("RemoveInlineNode", blockID, "offset does not land on a node boundary")
	}
	atom, ok := b.Inline[idx].(model.InlineAtom)
	if !ok {
		return nil, notFound("RemoveInlineNode", blockID, "node at offset is not an inline atom")
	}
	return &RemoveInlineNode{BlockId: blockID, Offset: offset, CapturedAtom: atom}, nil
}

func (s *RemoveInlineNode) Apply(doc *model.Document) (*model.Document, error) {
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		idx, _, within := model.InlineSliceForInsert(blk.Inline, s.Offset)
		if idx < 0 || within != 0 {
			return nil, notFound("RemoveInlineNode", s.BlockId, "offset does not land on a node boundary")
		}
		if _, ok := blk.Inline[idx].(model.InlineAtom); !ok {
			return nil, notFound("RemoveInlineNode", s.BlockId, "node at offset is not an inline atom")
		}
		nb := blk.CloneShallow()
		out := make([]model.InlineNode, 0, len(blk.Inline)-1)
		out = append(out, blk.Inline[:idx]...)
		out = append(out, blk.Inline[idx+1:]...)
		nb.Inline = model.NormalizeInline(out)
		return nb, nil
	})
	return newDoc, err
}

// Invert returns the InsertInlineNode that recreates the removed atom.
func (s *RemoveInlineNode) Invert() Step {
	return &InsertInlineNode{BlockId: s.BlockId, Offset: s.Offset, Atom: s.CapturedAtom}
}
