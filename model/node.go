package model

// InlineNode is the tagged union of leaf content that can appear in a
// block's inline sequence: text runs and opaque atoms. The type switch
// below is the canonical discriminant (spec.md §9 "Sum types").
type InlineNode interface {
	inlineNode()
	// Len returns the node's length in offset space: rune count for text,
	// always 1 for an atom.
	Len() int
}

// TextNode is an immutable (text, marks) run. Adjacent TextNodes with
// identical mark sets are coalesced by NormalizeInline; boundaries between
// TextNodes are not themselves observable positions, only the cumulative
// offset is (spec.md §3).
type TextNode struct {
	Text  string
	Marks MarkSet
}

func (TextNode) inlineNode() {}

// Len returns the rune count of the text, which is the node's contribution
// to offset space.
func (t TextNode) Len() int { return len([]rune(t.Text)) }

// WithMarks returns a copy of the node carrying a different mark set.
func (t TextNode) WithMarks(marks MarkSet) TextNode {
	return TextNode{Text: t.Text, Marks: marks}
}

// InlineAtom is an opaque inline node of length 1 in offset space (image,
// mention, hard break, ...). Carries no marks (spec.md §3).
type InlineAtom struct {
	Type  NodeType
	Attrs map[string]any
}

func (InlineAtom) inlineNode() {}

// Len is always 1 for an atom.
func (InlineAtom) Len() int { return 1 }

// Clone returns a deep-ish copy (attrs map copied) of the atom.
func (a InlineAtom) Clone() InlineAtom {
	return InlineAtom{Type: a.Type, Attrs: cloneAttrs(a.Attrs)}
}

// BlockNode is a structural node: a unique id, a symbolic type, an
// optional attribute map, and either inline content or nested block
// children (spec.md §3). Exactly one of Inline/Blocks should be non-empty
// in a normalized document; both may be empty for a void leaf block
// (e.g. horizontal_rule).
type BlockNode struct {
	ID     BlockId
	Type   NodeType
	Attrs  map[string]any
	Inline []InlineNode
	Blocks []*BlockNode
}

// IsContainer reports whether this block's children are nested blocks
// rather than inline content.
func (b *BlockNode) IsContainer() bool {
	return len(b.Blocks) > 0
}

// Length returns the block's length in offset space: the sum of its
// inline children's lengths. Container blocks have no offset space of
// their own (spec.md §3 "Offset space").
func (b *BlockNode) Length() int {
	total := 0
	for _, n := range b.Inline {
		total += n.Len()
	}
	return total
}

// CloneShallow returns a new BlockNode with the same identity and attrs
// but independently mutable Inline/Blocks slices (the slice headers are
// copied; element pointers/values are shared until replaced).
func (b *BlockNode) CloneShallow() *BlockNode {
	nb := &BlockNode{
		ID:    b.ID,
		Type:  b.Type,
		Attrs: cloneAttrs(b.Attrs),
	}
	if b.Inline != nil {
		nb.Inline = append([]InlineNode(nil), b.Inline...)
	}
	if b.Blocks != nil {
		nb.Blocks = append([]*BlockNode(nil), b.Blocks...)
	}
	return nb
}

// Document is an ordered sequence of top-level block nodes.
type Document struct {
	Blocks []*BlockNode
}

// CloneShallow copies the top-level block slice; individual blocks are
// shared until a step replaces them, giving structural sharing across
// edits (spec.md §3 "Lifecycles").
func (d *Document) CloneShallow() *Document {
	return &Document{Blocks: append([]*BlockNode(nil), d.Blocks...)}
}
