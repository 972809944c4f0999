package step

import "github.com/scrivlet/editorcore/model"

// SetBlockType changes a block's Type and Attrs wholesale (e.g. paragraph
// to heading level 2). OldType/OldAttrs are captured at construction so
// Invert is a symmetric SetBlockType back to the original.
type SetBlockType struct {
	BlockId  model.BlockId
	NewType  model.NodeType
	NewAttrs map[string]any
	OldType  model.NodeType
	OldAttrs map[string]any
}

// NewSetBlockType captures blk's current type/attrs before changing them.
func NewSetBlockType(doc *model.Document, blockID model.BlockId, newType model.NodeType, newAttrs map[string]any) (*SetBlockType, error) {
	b, err := findBlockOrErr(doc, "SetBlockType", blockID)
	if err != nil {
		return nil, err
	}
	return &SetBlockType{
		BlockId:  blockID,
		NewType:  newType,
		NewAttrs: cloneAttrsPublic(newAttrs),
		OldType:  b.Type,
		OldAttrs: cloneAttrsPublic(b.Attrs),
	}, nil
}

func (s *SetBlockType) Apply(doc *model.Document) (*model.Document, error) {
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		nb := blk.CloneShallow()
		nb.Type = s.NewType
		nb.Attrs = cloneAttrsPublic(s.NewAttrs)
		return nb, nil
	})
	if err != nil {
		return nil, err
	}
	if newDoc == doc {
		return nil, notFound("SetBlockType", s.BlockId, "block does not exist")
	}
	return newDoc, nil
}

// Invert returns the SetBlockType that restores the block's original type
// and attrs.
func (s *SetBlockType) Invert() Step {
	return &SetBlockType{BlockId: s.BlockId, NewType: s.OldType, NewAttrs: s.OldAttrs, OldType: s.NewType, OldAttrs: s.NewAttrs}
}
