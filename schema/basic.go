package schema

import (
	"fmt"

	"github.com/scrivlet/editorcore/model"
)

// BasicNodes is a convenience bundle of node specs covering the common
// rich-text shapes (paragraph, heading, blockquote, code block,
// horizontal rule). Grounded on prosemirror-go's schema-basic package
// (a2fae4ae_cozy-prosemirror-go__schema-basic-basic.go.go in the example
// pack): a doc built from these types is immediately usable end to end
// without a host having to hand-write a full schema first.
func BasicNodes() []NodeSpec {
	return []NodeSpec{
		{
			Type:      "paragraph",
			Content:   model.ContentRule{Kind: model.ContentInline},
			ParseHTML: []ParseRule{{Selector: "p", Priority: 50}},
			ToHTML:    func(b *model.BlockNode, content string) string { return "<p>" + content + "</p>" },
		},
		{
			Type:      "heading",
			Content:   model.ContentRule{Kind: model.ContentInline},
			Attrs:     map[string]AttributeSpec{"level": {Default: 1}},
			ParseHTML: []ParseRule{{Selector: "h1", Priority: 50}, {Selector: "h2", Priority: 50}, {Selector: "h3", Priority: 50}},
			ToHTML: func(b *model.BlockNode, content string) string {
				level := 1
				if v, ok := b.Attrs["level"]; ok {
					if n, ok := v.(int); ok {
						level = n
					}
				}
				tag := fmt.Sprintf("h%d", level)
				return fmt.Sprintf("<%s>%s</%s>", tag, content, tag)
			},
		},
		{
			Type:      "blockquote",
			Content:   model.ContentRule{Kind: model.ContentBlocks},
			ParseHTML: []ParseRule{{Selector: "blockquote", Priority: 50}},
			ToHTML:    func(b *model.BlockNode, content string) string { return "<blockquote>" + content + "</blockquote>" },
		},
		{
			Type:      "code_block",
			Content:   model.ContentRule{Kind: model.ContentInline},
			Sanitize:  SanitizeSpec{Tags: []string{"pre", "code"}},
			ParseHTML: []ParseRule{{Selector: "pre", Priority: 50}},
			ToHTML:    func(b *model.BlockNode, content string) string { return "<pre><code>" + content + "</code></pre>" },
		},
		{
			Type:      "horizontal_rule",
			Content:   model.ContentRule{Kind: model.ContentVoid},
			ParseHTML: []ParseRule{{Selector: "hr", Priority: 50}},
			ToHTML:    func(b *model.BlockNode, content string) string { return "<hr>" },
		},
	}
}

// BasicMarks is a convenience bundle of mark specs: boolean marks (bold,
// italic, underline, strikethrough) and attributed marks (link, fontSize,
// textColor, highlight) with ranks chosen so the link (rank 10) nests
// closest to the text, the boolean marks (50-53) wrap it, and the
// style-based marks (90-92) sort last.
func BasicMarks() []MarkSpec {
	return []MarkSpec{
		{Type: "link", Rank: 10, Attrs: map[string]AttributeSpec{"href": {}, "title": {Default: ""}},
			Sanitize:  SanitizeSpec{Tags: []string{"a"}, Attrs: []string{"href", "title"}},
			ParseHTML: []ParseRule{{Selector: "a", Priority: 50}},
			ToHTML: func(m model.Mark, content string) string {
				return fmt.Sprintf(`<a href=%q>%s</a>`, attrString(m, "href"), content)
			},
		},
		{Type: "bold", Rank: 50, Sanitize: SanitizeSpec{Tags: []string{"strong", "b"}},
			ParseHTML: []ParseRule{{Selector: "strong", Priority: 50}, {Selector: "b", Priority: 40}},
			ToHTML:    func(m model.Mark, content string) string { return "<strong>" + content + "</strong>" },
		},
		{Type: "italic", Rank: 51, Sanitize: SanitizeSpec{Tags: []string{"em", "i"}},
			ParseHTML: []ParseRule{{Selector: "em", Priority: 50}, {Selector: "i", Priority: 40}},
			ToHTML:    func(m model.Mark, content string) string { return "<em>" + content + "</em>" },
		},
		{Type: "underline", Rank: 52, Sanitize: SanitizeSpec{Tags: []string{"u"}},
			ParseHTML: []ParseRule{{Selector: "u", Priority: 50}},
			ToHTML:    func(m model.Mark, content string) string { return "<u>" + content + "</u>" },
		},
		{Type: "strikethrough", Rank: 53, Sanitize: SanitizeSpec{Tags: []string{"s"}},
			ParseHTML: []ParseRule{{Selector: "s", Priority: 50}},
			ToHTML:    func(m model.Mark, content string) string { return "<s>" + content + "</s>" },
		},
		{
			Type: "fontSize", Rank: 90,
			Attrs:       map[string]AttributeSpec{"value": {}},
			ToHTMLStyle: func(m model.Mark) string { return "font-size: " + attrString(m, "value") },
			Sanitize:    SanitizeSpec{Attrs: []string{"style"}},
		},
		{
			Type: "textColor", Rank: 91,
			Attrs:       map[string]AttributeSpec{"value": {}},
			ToHTMLStyle: func(m model.Mark) string { return "color: " + attrString(m, "value") },
			Sanitize:    SanitizeSpec{Attrs: []string{"style"}},
		},
		{
			Type: "highlight", Rank: 92,
			Attrs:       map[string]AttributeSpec{"value": {}},
			ToHTMLStyle: func(m model.Mark) string { return "background-color: " + attrString(m, "value") },
			Sanitize:    SanitizeSpec{Attrs: []string{"style"}},
		},
	}
}

func attrString(m model.Mark, key string) string {
	if v, ok := m.Attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RegisterBasic registers BasicNodes and BasicMarks into r, returning the
// first registration error encountered (none expected against an empty
// registry).
func RegisterBasic(r *Registry) error {
	for _, n := range BasicNodes() {
		if err := r.RegisterNode(n); err != nil {
			return err
		}
	}
	for _, m := range BasicMarks() {
		if err := r.RegisterMark(m); err != nil {
			return err
		}
	}
	return nil
}
