package step

import "github.com/scrivlet/editorcore/model"

// InsertText inserts text at offset, splitting the surrounding TextNode
// and re-normalizing per spec.md §4.4. It carries either a single
// (text, marks) pair or a pre-split list of Segments (e.g. when
// reconstructing a DeleteText's captured content during undo).
type InsertText struct {
	BlockId  model.BlockId
	Offset   int
	Segments []Segment
}

// NewInsertText constructs an InsertText step for a single run of text
// sharing one mark set.
func NewInsertText(blockID model.BlockId, offset int, text string, marks model.MarkSet) *InsertText {
	return &InsertText{BlockId: blockID, Offset: offset, Segments: []Segment{{Text: text, Marks: marks}}}
}

func findBlockOrErr(doc *model.Document, op string, id model.BlockId) (*model.BlockNode, error) {
	b, _ := model.FindBlock(doc, id)
	if b == nil {
		return nil, notFound(op, id, "block does not exist")
	}
	return b, nil
}

func (s *InsertText) Apply(doc *model.Document) (*model.Document, error) {
	b, err := findBlockOrErr(doc, "InsertText", s.BlockId)
	if err != nil {
		return nil, err
	}
	if s.Offset < 0 || s.Offset > b.Length() {
		return nil, notFound("InsertText", s.BlockId, "offset out of range")
	}
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		nb := blk.CloneShallow()
		nb.Inline = model.NormalizeInline(insertSegmentsAt(blk.Inline, s.Offset, s.Segments))
		return nb, nil
	})
	return newDoc, err
}

// Invert returns the DeleteText that removes exactly what was inserted.
func (s *InsertText) Invert() Step {
	return &DeleteText{
		BlockId:          s.BlockId,
		From:             s.Offset,
		To:               s.Offset + segmentsLen(s.Segments),
		CapturedSegments: s.Segments,
	}
}
