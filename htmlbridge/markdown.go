package htmlbridge

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/schema"
)

// MarkdownToHTML converts CommonMark source to HTML via gomarkdown, the
// same parser/renderer pairing the teacher uses for its own text blocks.
func MarkdownToHTML(source string) string {
	if source == "" {
		return ""
	}
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(source))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return string(markdown.Render(doc, renderer))
}

// FromMarkdown is the paste/file-open import path for Markdown source: it
// renders to HTML via MarkdownToHTML and reuses Bridge.FromHTML's element
// matching against reg.
func (b *Bridge) FromMarkdown(source string, reg *schema.Registry) (*model.Document, error) {
	return b.FromHTML(MarkdownToHTML(source), reg)
}
