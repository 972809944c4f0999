package model

import "encoding/json"

// jsonMark mirrors spec.md §6's wire form: { type, attrs? }.
type jsonMark struct {
	Type  MarkTypeName   `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// jsonNode mirrors spec.md §6's wire forms for all three node kinds. Which
// fields are populated discriminates the kind on decode: "text" present
// means a text node, "id" present means a block node, otherwise an inline
// atom.
type jsonNode struct {
	// Text node fields.
	Text  *string    `json:"text,omitempty"`
	Marks []jsonMark `json:"marks,omitempty"`

	// Block / inline-atom shared fields.
	Type NodeType `json:"type,omitempty"`

	// Block-only fields.
	ID *BlockId `json:"id,omitempty"`

	Attrs    map[string]any `json:"attrs,omitempty"`
	Children []jsonNode     `json:"children,omitempty"`
}

func marksToJSON(marks MarkSet) []jsonMark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]jsonMark, len(marks))
	for i, m := range marks {
		out[i] = jsonMark{Type: m.Type, Attrs: m.Attrs}
	}
	return out
}

func marksFromJSON(marks []jsonMark) MarkSet {
	if len(marks) == 0 {
		return nil
	}
	out := make(MarkSet, len(marks))
	for i, m := range marks {
		out[i] = Mark{Type: m.Type, Attrs: m.Attrs}
	}
	return out
}

func inlineToJSON(n InlineNode) jsonNode {
	switch v := n.(type) {
	case TextNode:
		text := v.Text
		return jsonNode{Text: &text, Marks: marksToJSON(v.Marks)}
	case InlineAtom:
		return jsonNode{Type: v.Type, Attrs: v.Attrs}
	default:
		return jsonNode{}
	}
}

func blockToJSON(b *BlockNode) jsonNode {
	id := b.ID
	node := jsonNode{Type: b.Type, ID: &id, Attrs: b.Attrs}
	if b.IsContainer() {
		node.Children = make([]jsonNode, len(b.Blocks))
		for i, c := range b.Blocks {
			node.Children[i] = blockToJSON(c)
		}
	} else {
		node.Children = make([]jsonNode, len(b.Inline))
		for i, c := range b.Inline {
			node.Children[i] = inlineToJSON(c)
		}
	}
	return node
}

// MarshalJSON encodes the document as { "blocks": [...] } using the node
// wire forms from spec.md §6.
func (d *Document) MarshalJSON() ([]byte, error) {
	blocks := make([]jsonNode, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = blockToJSON(b)
	}
	return json.Marshal(struct {
		Blocks []jsonNode `json:"blocks"`
	}{Blocks: blocks})
}

func (n jsonNode) toInline() InlineNode {
	if n.Text != nil {
		return TextNode{Text: *n.Text, Marks: marksFromJSON(n.Marks)}
	}
	return InlineAtom{Type: n.Type, Attrs: n.Attrs}
}

func (n jsonNode) toBlock() *BlockNode {
	b := &BlockNode{Type: n.Type, Attrs: n.Attrs}
	if n.ID != nil {
		b.ID = *n.ID
	} else {
		b.ID = NewBlockID()
	}
	containsBlocks := false
	for _, c := range n.Children {
		if c.ID != nil {
			containsBlocks = true
			break
		}
	}
	if containsBlocks {
		b.Blocks = make([]*BlockNode, len(n.Children))
		for i, c := range n.Children {
			b.Blocks[i] = c.toBlock()
		}
	} else {
		b.Inline = make([]InlineNode, len(n.Children))
		for i, c := range n.Children {
			b.Inline[i] = c.toInline()
		}
		b.Inline = NormalizeInline(b.Inline)
	}
	return b
}

// UnmarshalJSON decodes a document previously produced by MarshalJSON (or
// any conforming host payload). Round-tripping setJSON(doc.ToJSON())
// reproduces the document modulo normalization, per spec.md §6.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire struct {
		Blocks []jsonNode `json:"blocks"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	d.Blocks = make([]*BlockNode, len(wire.Blocks))
	for i, b := range wire.Blocks {
		d.Blocks[i] = b.toBlock()
	}
	return nil
}
