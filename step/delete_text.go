package step

import "github.com/scrivlet/editorcore/model"

// DeleteText removes [From, To) from a block's inline content. It must be
// built via NewDeleteText so CapturedSegments holds the exact per-slice
// marks being removed (spec.md §4.4: "naive inversion that captures only
// the left-edge marks is a bug").
type DeleteText struct {
	BlockId          model.BlockId
	From, To         int
	CapturedSegments []Segment
}

// NewDeleteText reads blk's current content and captures the per-slice
// segments in [from, to) before returning a ready-to-apply step.
func NewDeleteText(doc *model.Document, blockID model.BlockId, from, to int) (*DeleteText, error) {
	b, err := findBlockOrErr(doc, "DeleteText", blockID)
	if err != nil {
		return nil, err
	}
	if from < 0 || to > b.Length() || from > to {
		return nil, notFound("DeleteText", blockID, "range out of bounds")
	}
	return &DeleteText{BlockId: blockID, From: from, To: to, CapturedSegments: captureRange(b.Inline, from, to)}, nil
}

func (s *DeleteText) Apply(doc *model.Document) (*model.Document, error) {
	b, err := findBlockOrErr(doc, "DeleteText", s.BlockId)
	if err != nil {
		return nil, err
	}
	if s.From < 0 || s.To > b.Length() || s.From > s.To {
		return nil, notFound("DeleteText", s.BlockId, "range out of bounds")
	}
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		nb := blk.CloneShallow()
		nb.Inline = model.NormalizeInline(removeRange(blk.Inline, s.From, s.To))
		return nb, nil
	})
	return newDoc, err
}

// Invert returns the InsertText that restores the captured segments.
func (s *DeleteText) Invert() Step {
	return &InsertText{BlockId: s.BlockId, Offset: s.From, Segments: s.CapturedSegments}
}
