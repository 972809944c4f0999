package model

// ContentKind classifies what a block type is allowed to hold.
type ContentKind int

const (
	// ContentInline means the block's children must be inline content
	// (TextNode | InlineAtom), e.g. a paragraph or heading.
	ContentInline ContentKind = iota
	// ContentBlocks means the block's children must be nested BlockNodes,
	// e.g. a table (rows) or a list (items).
	ContentBlocks
	// ContentVoid means the block has no children at all, e.g. a
	// horizontal rule.
	ContentVoid
)

// ContentRule describes what a node type is allowed to contain. An empty
// AllowedInlineTypes/AllowedBlockTypes means "any type of the matching
// kind is allowed" (the common case); a non-empty list restricts to those
// exact types, letting a schema express e.g. "table contains only
// table_row" (spec.md §4.1).
type ContentRule struct {
	Kind               ContentKind
	AllowedInlineTypes []NodeType
	AllowedBlockTypes  []NodeType
}

func allowedOrAny(allowed []NodeType, t NodeType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// ContentLookup resolves a node type's content rule; implemented by the
// schema registry so this package never needs to import it.
type ContentLookup interface {
	ContentRuleFor(t NodeType) (ContentRule, bool)
}

// CanContain reports whether parentType's content rule permits a direct
// child of childType, given that the child is itself a block (isBlockChild
// true) or inline content (false). An unknown parent type or a lookup with
// no rule registered is treated permissively (returns true) so that
// schema-less tests and debug tooling are not forced to register every
// type; production hosts should register complete schemas so this never
// matters in practice.
func CanContain(lookup ContentLookup, parentType, childType NodeType, isBlockChild bool) bool {
	rule, ok := lookup.ContentRuleFor(parentType)
	if !ok {
		return true
	}
	switch rule.Kind {
	case ContentVoid:
		return false
	case ContentBlocks:
		return isBlockChild && allowedOrAny(rule.AllowedBlockTypes, childType)
	default: // ContentInline
		return !isBlockChild && allowedOrAny(rule.AllowedInlineTypes, childType)
	}
}

// ValidateContent is a cheap structural check used by tests and debug
// assertions: does this block's actual children match its declared
// content rule (spec.md §3 invariant 4)?
func ValidateContent(lookup ContentLookup, b *BlockNode) bool {
	rule, ok := lookup.ContentRuleFor(b.Type)
	if !ok {
		return true
	}
	switch rule.Kind {
	case ContentVoid:
		return len(b.Inline) == 0 && len(b.Blocks) == 0
	case ContentBlocks:
		if len(b.Inline) > 0 {
			return false
		}
		for _, c := range b.Blocks {
			if !allowedOrAny(rule.AllowedBlockTypes, c.Type) {
				return false
			}
		}
		return true
	default: // ContentInline
		if len(b.Blocks) > 0 {
			return false
		}
		for _, c := range b.Inline {
			if atom, ok := c.(InlineAtom); ok {
				if !allowedOrAny(rule.AllowedInlineTypes, atom.Type) {
					return false
				}
			}
		}
		return true
	}
}
