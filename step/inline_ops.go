package step

import "github.com/scrivlet/editorcore/model"

// Segment is a captured (text, marks) slice, used to restore exact
// per-run formatting on inversion (spec.md §4.4 "DeleteText that crosses
// mark boundaries captures per-slice marks; naive inversion that captures
// only the left-edge marks is a bug").
type Segment struct {
	Text  string
	Marks model.MarkSet
}

func segmentsLen(segs []Segment) int {
	total := 0
	for _, s := range segs {
		total += len([]rune(s.Text))
	}
	return total
}

func segmentsToInline(segs []Segment) []model.InlineNode {
	out := make([]model.InlineNode, len(segs))
	for i, s := range segs {
		out[i] = model.TextNode{Text: s.Text, Marks: s.Marks}
	}
	return out
}

// captureRange reads the inline children of block between [from, to) and
// returns the exact per-TextNode slices that fall in that range,
// splitting TextNodes at the boundaries so every captured segment's marks
// are accurate. InlineAtoms within the range are captured as zero-width
// markers with no text (callers that need atom-preserving capture should
// use RemoveInlineNode instead — ranges here are always validated as
// text-only content, e.g. by command-layer preconditions).
func captureRange(children []model.InlineNode, from, to int) []Segment {
	var segs []Segment
	cum := 0
	for _, c := range children {
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
		runes := []rune(tn.Text)
		lo := maxInt(0, from-start)
		hi := minInt(len(runes), to-start)
		if lo >= hi {
			continue
		}
		segs = append(segs, Segment{Text: string(runes[lo:hi]), Marks: tn.Marks})
	}
	return segs
}

// removeRange returns children with [from, to) removed, splitting
// TextNodes at the boundaries as needed. The result is not normalized;
// callers must run model.NormalizeInline afterward.
func removeRange(children []model.InlineNode, from, to int) []model.InlineNode {
	var out []model.InlineNode
	cum := 0
	for _, c := range children {
		l := c.Len()
		start, end := cum, cum+l
		cum = end
		switch {
		case end <= from || start >= to:
			out = append(out, c)
		case start >= from && end <= to:
			// fully removed
		default:
			tn, ok := c.(model.TextNode)
			if !ok {
				// Partial overlap on a length-1 atom can't happen
				// (from/to already integer offsets bracketing it), but
				// guard defensively by dropping it.
				continue
			}
			runes := []rune(tn.Text)
			if start < from {
				out = append(out, model.TextNode{Text: string(runes[:from-start]), Marks: tn.Marks})
			}
			if end > to {
				out = append(out, model.TextNode{Text: string(runes[to-start:]), Marks: tn.Marks})
			}
		}
	}
	return out
}

// insertSegmentsAt inserts segs at offset, applying the boundary tie-break
// rule from spec.md §4.4: inserting exactly at a TextNode boundary
// attaches the new text to the node on the right if marks match,
// otherwise begins a new TextNode with the supplied marks.
func insertSegmentsAt(children []model.InlineNode, offset int, segs []Segment) []model.InlineNode {
	if len(segs) == 0 {
		return children
	}
	idx, start, within := model.InlineSliceForInsert(children, offset)
	newNodes := segmentsToInline(segs)

	if idx < 0 { // empty block
		return newNodes
	}

	out := make([]model.InlineNode, 0, len(children)+len(newNodes)+1)
	out = append(out, children[:idx]...)

	target := children[idx]
	tn, isText := target.(model.TextNode)
	if !isText {
		// Inserting against an atom: only valid at its boundaries.
		if within == 0 {
			out = append(out, newNodes...)
			out = append(out, target)
		} else {
			out = append(out, target)
			out = append(out, newNodes...)
		}
		out = append(out, children[idx+1:]...)
		return out
	}

	runes := []rune(tn.Text)
	if within == 0 {
		firstSeg := segs[0]
		if model.MarksEqual(tn.Marks, firstSeg.Marks) {
			merged := model.TextNode{Text: firstSeg.Text + tn.Text, Marks: tn.Marks}
			out = append(out, newNodes[:len(newNodes)-1]...)
			out = append(out, merged)
		} else {
			out = append(out, newNodes...)
			out = append(out, tn)
		}
	} else if within == len(runes) {
		lastSeg := segs[len(segs)-1]
		if model.MarksEqual(tn.Marks, lastSeg.Marks) {
			merged := model.TextNode{Text: tn.Text + lastSeg.Text, Marks: tn.Marks}
			out = append(out, merged)
			out = append(out, newNodes[:len(newNodes)-1]...)
		} else {
			out = append(out, tn)
			out = append(out, newNodes...)
		}
	} else {
		left := model.TextNode{Text: string(runes[:within]), Marks: tn.Marks}
		right := model.TextNode{Text: string(runes[within:]), Marks: tn.Marks}
		out = append(out, left)
		out = append(out, newNodes...)
		out = append(out, right)
	}
	out = append(out, children[idx+1:]...)
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
