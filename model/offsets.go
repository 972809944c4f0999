package model

// inlineSlice locates the inline child an offset falls within, along with
// that child's starting cumulative offset and the intra-child offset.
// rightBias controls which child owns an exact boundary position: true
// resolves a boundary to the child on the right (used for insertion —
// spec.md §4.4's tie-break rule), false resolves it to the child on the
// left (used for "marks at a position", which look at what precedes the
// cursor). The very first boundary (offset 0) and the very last boundary
// (offset == block length) have no "other side" to prefer, so both biases
// agree there.
func inlineSlice(children []InlineNode, offset int, rightBias bool) (index, start, within int) {
	cum := 0
	n := len(children)
	for i := 0; i < n; i++ {
		l := children[i].Len()
		startI, endI := cum, cum+l
		switch {
		case offset > startI && offset < endI:
			return i, startI, offset - startI
		case offset == startI:
			if rightBias || i == 0 {
				return i, startI, 0
			}
			return i - 1, startI - children[i-1].Len(), children[i-1].Len()
		case offset == endI && i == n-1:
			return i, startI, l
		}
		cum = endI
	}
	if n == 0 {
		return -1, 0, 0
	}
	last := n - 1
	return last, cum - children[last].Len(), children[last].Len()
}

// InlineSliceForInsert is the exported, right-biased form of inlineSlice
// used by the step algebra to locate an insertion point.
func InlineSliceForInsert(children []InlineNode, offset int) (index, start, within int) {
	return inlineSlice(children, offset, true)
}

// GetBlockMarksAtOffset returns the marks that would apply to text typed
// at the given offset: the marks of the TextNode immediately preceding the
// offset, or of the node at offset 0 when the block begins there. Used to
// seed StoredMarks when a collapsed cursor lands next to styled text.
func GetBlockMarksAtOffset(b *BlockNode, offset int) MarkSet {
	if len(b.Inline) == 0 {
		return nil
	}
	idx, _, _ := inlineSlice(b.Inline, offset, false)
	if idx < 0 {
		return nil
	}
	if tn, ok := b.Inline[idx].(TextNode); ok {
		return tn.Marks
	}
	return nil
}

// BlockOrderIndex builds a position index (BlockId -> ordinal) over a
// flattened, depth-first walk of the document, used by the selection
// model's cross-block ordering.
func BlockOrderIndex(order []BlockId) map[BlockId]int {
	idx := make(map[BlockId]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	return idx
}
