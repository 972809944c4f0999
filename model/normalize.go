package model

// NormalizeInline enforces spec.md §3 invariant 2 over a block's inline
// children: adjacent TextNodes with equal mark sets are coalesced, and
// zero-length TextNodes are dropped unless the block would otherwise be
// left with no children at all, in which case a single empty placeholder
// is kept. InlineAtoms pass through unchanged (spec.md §4.1).
func NormalizeInline(children []InlineNode) []InlineNode {
	out := make([]InlineNode, 0, len(children))
	for _, child := range children {
		tn, ok := child.(TextNode)
		if !ok {
			out = append(out, child)
			continue
		}
		if tn.Text == "" {
			// Dropped for now; restored below if the block ends up empty.
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(TextNode); ok && MarksEqual(prev.Marks, tn.Marks) {
				out[len(out)-1] = TextNode{Text: prev.Text + tn.Text, Marks: prev.Marks}
				continue
			}
		}
		out = append(out, tn)
	}
	if len(out) == 0 {
		out = append(out, TextNode{Text: "", Marks: nil})
	}
	return out
}
