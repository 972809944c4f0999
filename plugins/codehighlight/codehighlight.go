// Package codehighlight is an example C9 plugin (spec.md §4.9) that
// contributes syntax-highlight decorations for code_block nodes, using
// github.com/alecthomas/chroma/v2 as its lexer — a presentation-only
// annotation that never mutates the document, per spec.md §3's
// "DecorationsProvider" contract.
package codehighlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/plugin"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

// ID is this plugin's identity.
const ID plugin.ID = "codehighlight"

// Plugin highlights every code_block leaf's plain-text content with a
// chroma lexer chosen from the block's "language" attr (default
// "plaintext").
type Plugin struct{}

// New returns a ready-to-register Plugin. It has no dependencies and no
// registration surface beyond Decorations, so Init is a no-op.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) ID() plugin.ID { return ID }
func (p *Plugin) Name() string  { return "Code Highlight" }

func (p *Plugin) Init(ctx *plugin.Context) error { return nil }

// Decorations tokenizes every code_block leaf in s and returns one
// decoration per token, tagged with its chroma token type name so a host
// renderer can map it to a color.
func (p *Plugin) Decorations(s *state.EditorState, tr transaction.Transaction) plugin.DecorationSet {
	var out plugin.DecorationSet
	for _, b := range model.LeafBlocks(s.Doc) {
		if b.Type != "code_block" {
			continue
		}
		out = append(out, highlightBlock(b)...)
	}
	return out
}

func highlightBlock(b *model.BlockNode) plugin.DecorationSet {
	text := flattenText(b)
	if text == "" {
		return nil
	}
	lang, _ := b.Attrs["language"].(string)
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil
	}
	var out plugin.DecorationSet
	offset := 0
	for _, tok := range iter.Tokens() {
		length := len([]rune(tok.Value))
		if length == 0 {
			continue
		}
		out = append(out, plugin.Decoration{
			BlockId: b.ID,
			From:    offset,
			To:      offset + length,
			Attrs:   map[string]any{"tokenType": tok.Type.String()},
		})
		offset += length
	}
	return out
}

func flattenText(b *model.BlockNode) string {
	var out []rune
	for _, n := range b.Inline {
		if tn, ok := n.(model.TextNode); ok {
			out = append(out, []rune(tn.Text)...)
		}
	}
	return string(out)
}
