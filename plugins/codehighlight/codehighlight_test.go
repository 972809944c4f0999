package codehighlight

import (
	"testing"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

func TestDecorationsTokenizesCodeBlock(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		{
			ID:     "b1",
			Type:   "code_block",
			Attrs:  map[string]any{"language": "go"},
			Inline: []model.InlineNode{model.TextNode{Text: "func main() {}"}},
		},
	}}
	s := state.Create(doc, nil, schema.New())
	p := New()
	decs := p.Decorations(s, transaction.Transaction{})
	if len(decs) == 0 {
		t.Fatal("expected at least one decoration")
	}
	for _, d := range decs {
		if d.BlockId != "b1" {
			t.Fatalf("decoration block id = %q, want b1", d.BlockId)
		}
		if d.From >= d.To {
			t.Fatalf("decoration range invalid: [%d, %d)", d.From, d.To)
		}
	}
}

func TestDecorationsSkipsNonCodeBlocks(t *testing.T) {
	doc := &model.Document{Blocks: []*model.BlockNode{
		{ID: "b1", Type: "paragraph", Inline: []model.InlineNode{model.TextNode{Text: "plain text"}}},
	}}
	s := state.Create(doc, nil, schema.New())
	p := New()
	decs := p.Decorations(s, transaction.Transaction{})
	if len(decs) != 0 {
		t.Fatalf("decorations = %v, want none for a paragraph", decs)
	}
}
