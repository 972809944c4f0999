package step

import "github.com/scrivlet/editorcore/model"

// replaceRangeSegments rebuilds the inline children of a block by
// capturing the exact per-TextNode segments in [from, to), running each
// through transform, and reinserting the results. Shared by AddMark and
// RemoveMark so a range crossing several differently-marked runs keeps
// each run's untouched marks intact — the per-slice capture spec.md §4.4
// calls out for deletes, generalized here to mark edits.
func replaceRangeSegments(children []model.InlineNode, from, to int, transform func(Segment) Segment) []model.InlineNode {
	segs := captureRange(children, from, to)
	transformed := make([]Segment, len(segs))
	for i, sg := range segs {
		transformed[i] = transform(sg)
	}
	removed := removeRange(children, from, to)
	return insertSegmentsAt(removed, from, transformed)
}

// segmentReplace is the internal primitive both AddMark and RemoveMark
// reduce to: swap out [From, From+len(Old)) for New, captured entirely at
// construction time so Apply and Invert are pure, pointwise functions of
// the step's own fields (neither re-reads the document). Old and New are
// mirror images of the same range, so inverting is just swapping them.
type segmentReplace struct {
	BlockId model.BlockId
	From    int
	Old     []Segment
	New     []Segment
}

func (s *segmentReplace) Apply(doc *model.Document) (*model.Document, error) {
	b, err := findBlockOrErr(doc, "ReplaceSegments", s.BlockId)
	if err != nil {
		return nil, err
	}
	to := s.From + segmentsLen(s.Old)
	if s.From < 0 || to > b.Length() {
		return nil, notFound("ReplaceSegments", s.BlockId, "range out of bounds")
	}
	newDoc, _, err := model.MapBlock(doc, s.BlockId, func(blk *model.BlockNode) (*model.BlockNode, error) {
		nb := blk.CloneShallow()
		removed := removeRange(blk.Inline, s.From, to)
		nb.Inline = model.NormalizeInline(insertSegmentsAt(removed, s.From, s.New))
		return nb, nil
	})
	return newDoc, err
}

func (s *segmentReplace) Invert() Step {
	return &segmentReplace{BlockId: s.BlockId, From: s.From, Old: s.New, New: s.Old}
}

// AddMark applies Mark to every text run in [From, To), replacing any
// existing mark of the same type per attributed-mark replace semantics
// (model.AddMark). It captures the exact pre-edit segments (Before) so
// Invert restores each run's original marks exactly, rather than just
// stripping Mark.Type from the whole range — a range with heterogeneous
// marks loses information under the naive approach (spec.md §4.4's
// DeleteText bug class, generalized to mark edits).
type AddMark struct {
	BlockId model.BlockId
	From, To int
	Mark    model.Mark
	Before  []Segment
}

// NewAddMark captures the current content of [from, to) before the mark is
// applied.
func NewAddMark(doc *model.Document, blockID model.BlockId, from, to int, mark model.Mark) (*AddMark, error) {
	b, err := findBlockOrErr(doc, "AddMark", blockID)
	if err != nil {
		return nil, err
	}
	if from < 0 || to > b.Length() || from > to {
		return nil, notFound("AddMark", blockID, "range out of bounds")
	}
	return &AddMark{BlockId: blockID, From: from, To: to, Mark: mark, Before: captureRange(b.Inline, from, to)}, nil
}

func (s *AddMark) after() []Segment {
	out := make([]Segment, len(s.Before))
	for i, sg := range s.Before {
		out[i] = Segment{Text: sg.Text, Marks: model.AddMark(sg.Marks, s.Mark)}
	}
	return out
}

func (s *AddMark) Apply(doc *model.Document) (*model.Document, error) {
	r := &segmentReplace{BlockId: s.BlockId, From: s.From, Old: s.Before, New: s.after()}
	return r.Apply(doc)
}

// Invert returns the step that restores each run's pre-edit marks exactly.
func (s *AddMark) Invert() Step {
	r := &segmentReplace{BlockId: s.BlockId, From: s.From, Old: s.Before, New: s.after()}
	return r.Invert()
}

// RemoveMark strips every mark of MarkType from [From, To). Before holds
// the pre-edit per-slice content (marks included) so Invert restores each
// run's original marks exactly.
type RemoveMark struct {
	BlockId  model.BlockId
	From, To int
	MarkType model.MarkTypeName
	Before   []Segment
}

// NewRemoveMark captures the current content of [from, to) before the mark
// is stripped.
func NewRemoveMark(doc *model.Document, blockID model.BlockId, from, to int, markType model.MarkTypeName) (*RemoveMark, error) {
	b, err := findBlockOrErr(doc, "RemoveMark", blockID)
	if err != nil {
		return nil, err
	}
	if from < 0 || to > b.Length() || from > to {
		return nil, notFound("RemoveMark", blockID, "range out of bounds")
	}
	return &RemoveMark{BlockId: blockID, From: from, To: to, MarkType: markType, Before: captureRange(b.Inline, from, to)}, nil
}

func (s *RemoveMark) after() []Segment {
	out := make([]Segment, len(s.Before))
	for i, sg := range s.Before {
		out[i] = Segment{Text: sg.Text, Marks: model.RemoveMarkType(sg.Marks, s.MarkType)}
	}
	return out
}

func (s *RemoveMark) Apply(doc *model.Document) (*model.Document, error) {
	r := &segmentReplace{BlockId: s.BlockId, From: s.From, Old: s.Before, New: s.after()}
	return r.Apply(doc)
}

// Invert returns the step that restores each run's pre-edit marks exactly,
// including marks of types other than MarkType that coexisted on a run.
func (s *RemoveMark) Invert() Step {
	r := &segmentReplace{BlockId: s.BlockId, From: s.From, Old: s.Before, New: s.after()}
	return r.Invert()
}
