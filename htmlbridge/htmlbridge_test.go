package htmlbridge

import (
	"strings"
	"testing"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/schema"
)

func newTestRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.New()
	if err := schema.RegisterBasic(reg); err != nil {
		t.Fatalf("RegisterBasic: %v", err)
	}
	return reg
}

func TestToHTMLWrapsMarksByRank(t *testing.T) {
	reg := newTestRegistry(t)
	doc := &model.Document{Blocks: []*model.BlockNode{
		{
			ID:   "b1",
			Type: "paragraph",
			Inline: []model.InlineNode{
				model.TextNode{Text: "hi", Marks: model.MarkSet{{Type: "bold"}, {Type: "italic"}}},
			},
		},
	}}
	b := New()
	out, err := b.ToHTML(doc, reg)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<p>") || !strings.Contains(out, "hi") {
		t.Fatalf("ToHTML output = %q", out)
	}
	// bold (rank 50) should nest inside italic (rank 51): <em><strong>hi</strong></em>
	if !strings.Contains(out, "<em><strong>hi</strong></em>") {
		t.Fatalf("ToHTML output = %q, want nested em/strong", out)
	}
}

func TestFromHTMLRoundTripsParagraphAndBold(t *testing.T) {
	reg := newTestRegistry(t)
	b := New()
	doc, err := b.FromHTML("<p>hello <strong>world</strong></p>", reg)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != "paragraph" {
		t.Fatalf("doc.Blocks = %+v", doc.Blocks)
	}
	found := false
	for _, n := range doc.Blocks[0].Inline {
		if tn, ok := n.(model.TextNode); ok && tn.Text == "world" && tn.Marks.HasType("bold") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a bold \"world\" text node")
	}
}

func TestFromHTMLUnknownTagFallsBackToParagraph(t *testing.T) {
	reg := newTestRegistry(t)
	b := New()
	doc, err := b.FromHTML("<section>stray text</section>", reg)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != "paragraph" {
		t.Fatalf("doc.Blocks = %+v, want one paragraph", doc.Blocks)
	}
}

func TestMarkdownToHTMLRendersEmphasis(t *testing.T) {
	out := MarkdownToHTML("hello *world*")
	if !strings.Contains(out, "<em>world</em>") {
		t.Fatalf("MarkdownToHTML = %q, want <em>world</em>", out)
	}
}

func TestDefaultSanitizerStripsDisallowedTags(t *testing.T) {
	s := DefaultSanitizer{}
	out := s.Sanitize(`<p>ok</p><script>evil()</script>`, []string{"p"}, nil)
	if strings.Contains(out, "script") {
		t.Fatalf("Sanitize output = %q, want <script> removed", out)
	}
	if !strings.Contains(out, "ok") {
		t.Fatalf("Sanitize output = %q, want <p> content kept", out)
	}
}
