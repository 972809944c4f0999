package step

import "github.com/scrivlet/editorcore/model"

// SetNodeAttr replaces a block's entire Attrs map. OldAttrs is captured at
// construction for symmetric inversion.
type SetNodeAttr struct {
	BlockId  model.BlockId
	NewAttrs map[string]any
	OldAttrs map[string]any
}

// NewSetNodeAttr captures blk's current attrs before replacing them.
func NewSetNodeAttr(doc *model.Document, blockID model.BlockId, newAttrs map[string]any) (*SetNodeAttr, error) {
	b, err := findBlockOrErr(doc, "SetNodeAttr", blockID)
	if err != nil {
		return nil, err
	}
	return &SetNodeAttr{BlockId: blockID, NewAttrs: cloneAttrsPublic(newAttrs), OldAttrs: cloneAttrsPublic(b.Attrs)}, nil
}

func (s *SetNodeAttr) Apply(doc *model.Document) (*model.Document, error) {
	b, _ := model.FindBlock(doc, s.BlockId)
	if b == nil {
		return nil, notFound("SetNodeAttr", s.BlockId, "block does not exist")
	}
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		nb := blk.CloneShallow()
		nb.Attrs = cloneAttrsPublic(s.NewAttrs)
		return nb, nil
	})
	return newDoc, err
}

// Invert returns the SetNodeAttr that restores the block's original attrs.
func (s *SetNodeAttr) Invert() Step {
	return &SetNodeAttr{BlockId: s.BlockId, NewAttrs: s.OldAttrs, OldAttrs: s.NewAttrs}
}

// SetInlineNodeAttr replaces the Attrs of the InlineAtom occupying
// [Offset, Offset+1) within a block. OldAttrs is captured at construction.
type SetInlineNodeAttr struct {
	BlockId  model.BlockId
	Offset   int
	NewAttrs map[string]any
	OldAttrs map[string]any
}

// NewSetInlineNodeAttr captures the atom's current attrs before replacing
// them.
func NewSetInlineNodeAttr(doc *model.Document, blockID model.BlockId, offset int, newAttrs map[string]any) (*SetInlineNodeAttr, error) {
	b, err := findBlockOrErr(doc, "SetInlineNodeAttr", blockID)
	if err != nil {
		return nil, err
	}
	idx, _, within := model.InlineSliceForInsert(b.Inline, offset)
	if idx < 0 || within != 0 {
		return nil, notFound("SetInlineNodeAttr", blockID, "offset does not land on a node boundary")
	}
	atom, ok := b.Inline[idx].(model.InlineAtom)
	if !ok {
		return nil, notFound("SetInlineNodeAttr", blockID, "node at offset is not an inline atom")
	}
	return &SetInlineNodeAttr{BlockId: blockID, Offset: offset, NewAttrs: cloneAttrsPublic(newAttrs), OldAttrs: cloneAttrsPublic(atom.Attrs)}, nil
}

func (s *SetInlineNodeAttr) Apply(doc *model.Document) (*model.Document, error) {
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		idx, _, within := model.InlineSliceForInsert(blk.Inline, s.Offset)
		if idx < 0 || within != 0 {
			return nil, notFound("SetInlineNodeAttr", s.BlockId, "offset does not land on a node boundary")
		}
		atom, ok := blk.Inline[idx].(model.InlineAtom)
		if !ok {
			return nil, notFound("SetInlineNodeAttr", s.BlockId, "node at offset is not an inline atom")
		}
		nb := blk.CloneShallow()
		out := append([]model.InlineNode(nil), blk.Inline...)
		out[idx] = model.InlineAtom{Type: atom.Type, Attrs: cloneAttrsPublic(s.NewAttrs)}
		nb.Inline = out
		return nb, nil
	})
	return newDoc, err
}

// Invert returns the SetInlineNodeAttr that restores the atom's original
// attrs.
func (s *SetInlineNodeAttr) Invert() Step {
	return &SetInlineNodeAttr{BlockId: s.BlockId, Offset: s.Offset, NewAttrs: s.OldAttrs, OldAttrs: s.NewAttrs}
}
