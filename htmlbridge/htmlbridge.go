// Package htmlbridge is the out-of-core HTML pipeline collaborator
// spec.md §6 calls for: it implements editor.HTMLPipeline using
// golang.org/x/net/html for parse/serialize and github.com/microcosm-cc/bluemonday
// for sanitization, exactly as spec.md §1 requires a separate package
// (never imported by the core) for view/IO concerns.
package htmlbridge

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/schema"
)

// Sanitizer strips disallowed tags/attributes from an HTML string. A host
// can plug in any implementation; Bridge's zero value uses
// DefaultSanitizer (bluemonday-backed).
type Sanitizer interface {
	Sanitize(html string, allowedTags, allowedAttrs []string) string
}

// Bridge implements editor.HTMLPipeline.
type Bridge struct {
	Sanitizer Sanitizer
}

// New returns a Bridge using DefaultSanitizer.
func New() *Bridge {
	return &Bridge{Sanitizer: DefaultSanitizer{}}
}

// ToHTML serializes doc using each registered NodeSpec/MarkSpec/InlineNodeSpec's
// ToHTML (or ToHTMLStyle) function. Marks wrap content in ascending rank
// order (spec.md §4.3); style-based marks merge into one wrapper.
func (b *Bridge) ToHTML(doc *model.Document, reg *schema.Registry) (string, error) {
	var sb strings.Builder
	for _, blk := range doc.Blocks {
		s, err := blockToHTML(blk, reg)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func blockToHTML(b *model.BlockNode, reg *schema.Registry) (string, error) {
	var content string
	if b.IsContainer() {
		var sb strings.Builder
		for _, c := range b.Blocks {
			s, err := blockToHTML(c, reg)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		content = sb.String()
	} else {
		var sb strings.Builder
		for _, n := range b.Inline {
			s, err := inlineToHTML(n, reg)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		content = sb.String()
	}

	spec, ok := reg.GetNode(b.Type)
	if !ok || spec.ToHTML == nil {
		return fmt.Sprintf("<div data-type=%q>%s</div>", string(b.Type), content), nil
	}
	return spec.ToHTML(b, content), nil
}

func inlineToHTML(n model.InlineNode, reg *schema.Registry) (string, error) {
	switch v := n.(type) {
	case model.TextNode:
		return wrapMarks(html.EscapeString(v.Text), v.Marks, reg), nil
	case model.InlineAtom:
		spec, ok := reg.GetInlineNode(v.Type)
		if !ok || spec.ToHTML == nil {
			return "", nil
		}
		return spec.ToHTML(v), nil
	default:
		return "", fmt.Errorf("htmlbridge: unknown inline node type %T", n)
	}
}

// wrapMarks nests content in ascending-rank mark wrappers, merging every
// style-based mark present into a single wrapping span (spec.md §4.3).
func wrapMarks(content string, marks model.MarkSet, reg *schema.Registry) string {
	if len(marks) == 0 {
		return content
	}
	ordered := model.SortedMarks(marks)
	rank := func(t model.MarkTypeName) int {
		if spec, ok := reg.GetMark(t); ok {
			return spec.EffectiveRank()
		}
		return 99
	}
	sort.SliceStable(ordered, func(i, j int) bool { return rank(ordered[i].Type) < rank(ordered[j].Type) })
	var styleDecls []string
	out := content
	for _, m := range ordered {
		spec, ok := reg.GetMark(m.Type)
		if !ok {
			continue
		}
		if spec.IsStyleBased() {
			styleDecls = append(styleDecls, spec.ToHTMLStyle(m))
			continue
		}
		if spec.ToHTML != nil {
			out = spec.ToHTML(m, out)
		}
	}
	if len(styleDecls) > 0 {
		out = fmt.Sprintf(`<span style="%s">%s</span>`, strings.Join(styleDecls, "; "), out)
	}
	return out
}

// FromHTML parses html via golang.org/x/net/html, sanitizes it against
// reg's allowed tags/attrs, and converts the result into a normalized
// Document using each registered spec's ParseHTML selectors. Any element
// with no matching selector becomes a paragraph carrying its text content,
// so FromHTML never fails on unrecognized markup.
func (b *Bridge) FromHTML(rawHTML string, reg *schema.Registry) (*model.Document, error) {
	sanitizer := b.Sanitizer
	if sanitizer == nil {
		sanitizer = DefaultSanitizer{}
	}
	clean := sanitizer.Sanitize(rawHTML, reg.GetAllowedTags(), reg.GetAllowedAttrs())

	nodes, err := html.ParseFragment(strings.NewReader(clean), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("htmlbridge: parse: %w", err)
	}

	var blocks []*model.BlockNode
	for _, n := range nodes {
		if b := elementToBlock(n, reg); b != nil {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		blocks = []*model.BlockNode{{
			ID:     model.NewBlockID(),
			Type:   "paragraph",
			Inline: []model.InlineNode{model.TextNode{}},
		}}
	}
	return &model.Document{Blocks: blocks}, nil
}

func elementToBlock(n *html.Node, reg *schema.Registry) *model.BlockNode {
	if n.Type == html.TextNode {
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return &model.BlockNode{
			ID:     model.NewBlockID(),
			Type:   "paragraph",
			Inline: []model.InlineNode{model.TextNode{Text: n.Data}},
		}
	}
	if n.Type != html.ElementNode {
		return nil
	}
	nodeType := matchNodeType(n, reg)
	inline := elementToInline(n, reg)
	return &model.BlockNode{
		ID:     model.NewBlockID(),
		Type:   nodeType,
		Inline: model.NormalizeInline(inline),
	}
}

func matchNodeType(n *html.Node, reg *schema.Registry) model.NodeType {
	best := model.NodeType("paragraph")
	bestPriority := -1
	for _, t := range reg.NodeTypes() {
		spec, ok := reg.GetNode(t)
		if !ok {
			continue
		}
		for _, rule := range spec.ParseHTML {
			if rule.Selector != n.Data {
				continue
			}
			priority := rule.Priority
			if priority == 0 {
				priority = 50
			}
			if priority > bestPriority {
				bestPriority = priority
				best = t
			}
		}
	}
	return best
}

func elementToInline(n *html.Node, reg *schema.Registry) []model.InlineNode {
	var out []model.InlineNode
	var walk func(node *html.Node, marks model.MarkSet)
	walk = func(node *html.Node, marks model.MarkSet) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if c.Data != "" {
					out = append(out, model.TextNode{Text: c.Data, Marks: marks})
				}
			case html.ElementNode:
				if markType, ok := matchMarkType(c, reg); ok {
					walk(c, model.AddMark(marks, model.Mark{Type: markType}))
					continue
				}
				walk(c, marks)
			}
		}
	}
	walk(n, nil)
	return out
}

func matchMarkType(n *html.Node, reg *schema.Registry) (model.MarkTypeName, bool) {
	for _, t := range reg.SortedMarkTypes() {
		spec, ok := reg.GetMark(t)
		if !ok {
			continue
		}
		for _, rule := range spec.ParseHTML {
			if rule.Selector == n.Data {
				return t, true
			}
		}
	}
	return "", false
}
