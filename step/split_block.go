package step

import "github.com/scrivlet/editorcore/model"

// SplitBlock splits a leaf block's inline content at Offset into two
// sibling blocks: BlockId keeps its identity and the left half, NewBlockId
// is a freshly allocated sibling carrying the right half. Both halves
// default to the original block's type and attrs (a plain paragraph
// split); NewBlockType/NewBlockAttrs let callers produce a different kind
// of block for the second half (e.g. splitting a heading into a heading
// plus a paragraph).
type SplitBlock struct {
	BlockId       model.BlockId
	Offset        int
	NewBlockId    model.BlockId
	NewBlockType  model.NodeType
	NewBlockAttrs map[string]any
}

// NewSplitBlock reads blk's current type/attrs so the new sibling matches
// it by default.
func NewSplitBlock(doc *model.Document, blockID model.BlockId, offset int, newBlockID model.BlockId) (*SplitBlock, error) {
	b, err := findBlockOrErr(doc, "SplitBlock", blockID)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > b.Length() {
		return nil, notFound("SplitBlock", blockID, "offset out of range")
	}
	return &SplitBlock{
		BlockId:       blockID,
		Offset:        offset,
		NewBlockId:    newBlockID,
		NewBlockType:  b.Type,
		NewBlockAttrs: cloneAttrsPublic(b.Attrs),
	}, nil
}

func (s *SplitBlock) Apply(doc *model.Document) (*model.Document, error) {
	b, path := model.FindBlock(doc, s.BlockId)
	if b == nil {
		return nil, notFound("SplitBlock", s.BlockId, "block does not exist")
	}
	if s.Offset < 0 || s.Offset > b.Length() {
		return nil, notFound("SplitBlock", s.BlockId, "offset out of range")
	}
	left := removeRange(b.Inline, s.Offset, b.Length())
	right := removeRange(b.Inline, 0, s.Offset)

	return model.MapNodeByPath(doc, path, func(siblings []*model.BlockNode) ([]*model.BlockNode, error) {
		out := make([]*model.BlockNode, 0, len(siblings)+1)
		for _, sib := range siblings {
			if sib.ID != s.BlockId {
				out = append(out, sib)
				continue
			}
			firstHalf := sib.CloneShallow()
			firstHalf.Inline = model.NormalizeInline(left)
			secondHalf := &model.BlockNode{
				ID:     s.NewBlockId,
				Type:   s.NewBlockType,
				Attrs:  cloneAttrsPublic(s.NewBlockAttrs),
				Inline: model.NormalizeInline(right),
			}
			out = append(out, firstHalf, secondHalf)
		}
		return out, nil
	})
}

// Invert returns the MergeBlocks that joins the two halves back together.
func (s *SplitBlock) Invert() Step {
	return &MergeBlocks{
		TargetBlockId: s.BlockId,
		SourceBlockId: s.NewBlockId,
		SplitOffset:   s.Offset,
		CapturedSource: BlockSnapshot{
			ID:    s.NewBlockId,
			Type:  s.NewBlockType,
			Attrs: s.NewBlockAttrs,
		},
	}
}

// cloneAttrsPublic mirrors model's unexported cloneAttrs for use from this
// package, which has no access to it.
func cloneAttrsPublic(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
