package command

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/step"
	"github.com/scrivlet/editorcore/transaction"
)

func newDeleteText(s *state.EditorState, blockID model.BlockId, from, to int) (*step.DeleteText, error) {
	return step.NewDeleteText(s.Doc, blockID, from, to)
}

// objectReplacementChar stands in for an InlineAtom when a block's inline
// content is flattened to plain text for grapheme/word segmentation — the
// Unicode convention for "one embedded non-text object", which keeps an
// atom contributing exactly one rune, matching its Len() of 1 in offset
// space.
const objectReplacementChar = '￼'

func flattenBlockText(b *model.BlockNode) string {
	var sb strings.Builder
	for _, c := range b.Inline {
		switch v := c.(type) {
		case model.TextNode:
			sb.WriteString(v.Text)
		case model.InlineAtom:
			sb.WriteRune(objectReplacementChar)
		}
	}
	return sb.String()
}

// graphemeBoundaries returns the rune offsets (including 0 and the full
// length) at which text's grapheme clusters begin or end, per UAX #29 via
// github.com/rivo/uniseg — the boundary finder spec.md §4.7/§9 requires
// deletion commands to consult so a multi-rune emoji or combining
// sequence is deleted as one unit.
func graphemeBoundaries(text string) []int {
	bounds := []int{0}
	if text == "" {
		return bounds
	}
	count := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		count += len(g.Runes())
		bounds = append(bounds, count)
	}
	return bounds
}

// wordBoundaries returns the rune offsets at which word segments begin or
// end, per UAX #29 word-boundary rules via uniseg.FirstWordInString.
func wordBoundaries(text string) []int {
	bounds := []int{0}
	if text == "" {
		return bounds
	}
	count := 0
	rest := text
	state := -1
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		count += len([]rune(word))
		bounds = append(bounds, count)
	}
	return bounds
}

func prevBoundary(bounds []int, offset int) int {
	best := 0
	for _, b := range bounds {
		if b < offset {
			best = b
		}
	}
	return best
}

func nextBoundary(bounds []int, offset int) int {
	for _, b := range bounds {
		if b > offset {
			return b
		}
	}
	if len(bounds) > 0 {
		return bounds[len(bounds)-1]
	}
	return offset
}

func deleteTextRangeCommand(s *state.EditorState, blockID model.BlockId, from, to int) *transaction.Transaction {
	st, err := newDeleteText(s, blockID, from, to)
	if err != nil {
		return nil
	}
	sel := selection.NewCollapsed(selection.Position{BlockId: blockID, Offset: from})
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Step(st).
		SetSelection(sel).
		Build()
	return &t
}

func deleteRangeCommand(s *state.EditorState, ts selection.TextSelection, order []model.BlockId) *transaction.Transaction {
	rng := selection.SelectionRange(ts, order)
	sb := &stepBuilder{doc: s.Doc}
	if err := deleteRangeSteps(sb, rng.From, rng.To); err != nil {
		return nil
	}
	sel := selection.NewCollapsed(rng.From)
	t := transaction.New(s.Selection, nowMillis()).
		SetOrigin(transaction.OriginInput).
		Steps(sb.steps...).
		SetSelection(sel).
		Build()
	return &t
}

// DeleteBackward deletes the grapheme cluster before a collapsed cursor,
// or the entire selected range for a non-collapsed one. At the start of a
// block it merges the block into its previous sibling instead.
func DeleteBackward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	if !selection.IsCollapsed(ts) {
		return deleteRangeCommand(s, ts, order)
	}
	pos := ts.Head
	b, ok := s.GetBlock(pos.BlockId)
	if !ok {
		return nil
	}
	if pos.Offset == 0 {
		return mergeBlockBackwardAt(s, pos.BlockId)
	}
	bounds := graphemeBoundaries(flattenBlockText(b))
	from := prevBoundary(bounds, pos.Offset)
	return deleteTextRangeCommand(s, pos.BlockId, from, pos.Offset)
}

// DeleteForward mirrors DeleteBackward in the other direction.
func DeleteForward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	if !selection.IsCollapsed(ts) {
		return deleteRangeCommand(s, ts, order)
	}
	pos := ts.Head
	b, ok := s.GetBlock(pos.BlockId)
	if !ok {
		return nil
	}
	if pos.Offset >= b.Length() {
		return mergeBlockForwardAt(s, pos.BlockId)
	}
	bounds := graphemeBoundaries(flattenBlockText(b))
	to := nextBoundary(bounds, pos.Offset)
	return deleteTextRangeCommand(s, pos.BlockId, pos.Offset, to)
}

// DeleteWordBackward deletes from a collapsed cursor back to the start of
// the preceding word segment, per UAX #29 word boundaries.
func DeleteWordBackward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	if !selection.IsCollapsed(ts) {
		return deleteRangeCommand(s, ts, order)
	}
	pos := ts.Head
	b, ok := s.GetBlock(pos.BlockId)
	if !ok {
		return nil
	}
	if pos.Offset == 0 {
		return mergeBlockBackwardAt(s, pos.BlockId)
	}
	bounds := wordBoundaries(flattenBlockText(b))
	from := prevBoundary(bounds, pos.Offset)
	return deleteTextRangeCommand(s, pos.BlockId, from, pos.Offset)
}

// DeleteWordForward deletes from a collapsed cursor forward to the end of
// the following word segment.
func DeleteWordForward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	order := s.GetBlockOrder()
	if !selection.IsCollapsed(ts) {
		return deleteRangeCommand(s, ts, order)
	}
	pos := ts.Head
	b, ok := s.GetBlock(pos.BlockId)
	if !ok {
		return nil
	}
	if pos.Offset >= b.Length() {
		return mergeBlockForwardAt(s, pos.BlockId)
	}
	bounds := wordBoundaries(flattenBlockText(b))
	to := nextBoundary(bounds, pos.Offset)
	return deleteTextRangeCommand(s, pos.BlockId, pos.Offset, to)
}

// DeleteSoftLineBackward deletes from a collapsed cursor to the start of
// its block. The engine carries no line-wrap information, so "soft line"
// degrades to "whole block" (documented simplification; a host with a
// layout engine can implement a sharper version against the same
// primitives).
func DeleteSoftLineBackward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	if !selection.IsCollapsed(ts) {
		return deleteRangeCommand(s, ts, s.GetBlockOrder())
	}
	pos := ts.Head
	if pos.Offset == 0 {
		return nil
	}
	return deleteTextRangeCommand(s, pos.BlockId, 0, pos.Offset)
}

// DeleteSoftLineForward deletes from a collapsed cursor to the end of its
// block (see DeleteSoftLineBackward's note on "soft line").
func DeleteSoftLineForward(s *state.EditorState) *transaction.Transaction {
	ts, ok := s.Selection.(selection.TextSelection)
	if !ok {
		return nil
	}
	if !selection.IsCollapsed(ts) {
		return deleteRangeCommand(s, ts, s.GetBlockOrder())
	}
	pos := ts.Head
	b, ok := s.GetBlock(pos.BlockId)
	if !ok || pos.Offset >= b.Length() {
		return nil
	}
	return deleteTextRangeCommand(s, pos.BlockId, pos.Offset, b.Length())
}
