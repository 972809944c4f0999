package command

import (
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

func isMarkActiveInRange(doc *model.Document, blockID model.BlockId, from, to int, markType model.MarkTypeName) bool {
	b, _ := model.FindBlock(doc, blockID)
	if b == nil {
		return false
	}
	cum := 0
	any := false
	for _, c := range b.Inline {
		l := c.Len()
		start, end := cum, cum+l
		cum = end
		if end <= from || start >= to {
			continue
		}
		tn, ok := c.(model.TextNode)
		if !ok {
			continue
		}
		any = true
		if !tn.Marks.HasType(markType) {
			return false
		}
	}
	return any
}

// ToggleMark toggles a boolean mark type. On a collapsed selection it
// toggles storedMarks (affecting the next character typed); on a
// single-block range it adds the mark to the whole range if any run
// lacks it, or removes it from the whole range if every run already has
// it (spec.md §4.7). Multi-block ranges are unsupported by this simple
// toggle and return nil — callers needing that should issue one toggle
// per block.
func ToggleMark(s *state.EditorState, markType model.MarkTypeName) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)

	if rng.From == rng.To {
		var newMarks model.MarkSet
		if s.StoredMarks.HasType(markType) {
			newMarks = model.RemoveMarkType(s.StoredMarks, markType)
		} else {
			newMarks = model.AddMark(s.StoredMarks, model.Mark{Type: markType})
		}
		t := transaction.New(s.Selection, nowMillis()).
			SetOrigin(transaction.OriginCommand).
			SetStoredMarks(newMarks, s.StoredMarks).
			Build()
		return &t
	}

	if rng.From.BlockId != rng.To.BlockId {
		return nil
	}

	active := isMarkActiveInRange(s.Doc, rng.From.BlockId, rng.From.Offset, rng.To.Offset, markType)
	var st step.Step
	var err error
	if active {
		st, err = step.NewRemoveMark(s.Doc, rng.From.BlockId, rng.From.Offset, rng.To.Offset, markType)
	} else {
		st, err = step.NewAddMark(s.Doc, rng.From.BlockId, rng.From.Offset, rng.To.Offset, model.Mark{Type: markType})
	}
	if err != nil {
		return nil
	}
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		Step(st).
		Build()
	return &t
}

// ToggleBold, ToggleItalic, ToggleUnderline and ToggleStrikethrough are the
// four boolean marks spec.md §3 calls out by name.
func ToggleBold(s *state.EditorState) *transaction.Transaction          { return ToggleMark(s, "bold") }
func ToggleItalic(s *state.EditorState) *transaction.Transaction        { return ToggleMark(s, "italic") }
func ToggleUnderline(s *state.EditorState) *transaction.Transaction     { return ToggleMark(s, "underline") }
func ToggleStrikethrough(s *state.EditorState) *transaction.Transaction { return ToggleMark(s, "strikethrough") }

// ApplyAttributedMark applies an attributed mark (font, fontSize,
// textColor, highlight, link, ...) to a single-block, non-collapsed
// range, replacing any existing mark of the same type on every run in the
// range (model.AddMark's replace semantics — spec.md §3, scenario S4).
func ApplyAttributedMark(s *state.EditorState, markType model.MarkTypeName, attrs map[string]any) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)
	if rng.From == rng.To || rng.From.BlockId != rng.To.BlockId {
		return nil
	}
	st, err := step.NewAddMark(s.Doc, rng.From.BlockId, rng.From.Offset, rng.To.Offset, model.Mark{Type: markType, Attrs: attrs})
	if err != nil {
		return nil
	}
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		Step(st).
		Build()
	return &t
}

// RemoveAttributedMark strips markType from a single-block, non-collapsed
// range.
func RemoveAttributedMark(s *state.EditorState, markType model.MarkTypeName) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)
	if rng.From == rng.To || rng.From.BlockId != rng.To.BlockId {
		return nil
	}
	st, err := step.NewRemoveMark(s.Doc, rng.From.BlockId, rng.From.Offset, rng.To.Offset, markType)
	if err != nil {
		return nil
	}
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginCommand).
		Step(st).
		Build()
	return &t
}

// GetMarkAttrAtSelection returns the value of key on markType as it
// applies at the selection's starting position (the mark of the run
// immediately preceding the cursor for a collapsed selection, or of the
// first run in the range otherwise).
func GetMarkAttrAtSelection(s *state.EditorState, markType model.MarkTypeName, key string) (any, bool) {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil, false
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)
	b, ok := s.GetBlock(rng.From.BlockId)
	if !ok {
		return nil, false
	}
	var marks model.MarkSet
	if selection.IsCollapsed(ts) {
		marks = model.GetBlockMarksAtOffset(b, rng.From.Offset)
	} else if idx, _, _ := model.InlineSliceForInsert(b.Inline, rng.From.Offset); idx >= 0 {
		if tn, isText := b.Inline[idx].(model.TextNode); isText {
			marks = tn.Marks
		}
	}
	m, ok := marks.Get(markType)
	if !ok {
		return nil, false
	}
	v, ok := m.Attrs[key]
	return v, ok
}

// IsAttributedMarkActive reports whether markType is present on every run
// of a single-block selection.
func IsAttributedMarkActive(s *state.EditorState, markType model.MarkTypeName) bool {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return false
	}
	order := s.GetBlockOrder()
	rng := selection.SelectionRange(ts, order)
	if rng.From.BlockId != rng.To.BlockId {
		return false
	}
	return isMarkActiveInRange(s.Doc, rng.From.BlockId, rng.From.Offset, rng.To.Offset, markType)
}
