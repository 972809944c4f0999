package model

// WalkBlocks visits every block in the document depth-first, document
// order, invoking fn with the block and the path of ancestor ids from the
// document root (exclusive of the block itself). Returning false from fn
// stops the walk early.
func WalkBlocks(doc *Document, fn func(b *BlockNode, path []BlockId) bool) {
	var walk func(blocks []*BlockNode, path []BlockId) bool
	walk = func(blocks []*BlockNode, path []BlockId) bool {
		for _, b := range blocks {
			if !fn(b, path) {
				return false
			}
			if b.IsContainer() {
				childPath := append(append([]BlockId(nil), path...), b.ID)
				if !walk(b.Blocks, childPath) {
					return false
				}
			}
		}
		return true
	}
	walk(doc.Blocks, nil)
}

// FindBlock returns the block with the given id and the path to its
// parent, or nil if no such block exists.
func FindBlock(doc *Document, id BlockId) (*BlockNode, []BlockId) {
	var found *BlockNode
	var foundPath []BlockId
	WalkBlocks(doc, func(b *BlockNode, path []BlockId) bool {
		if b.ID == id {
			found = b
			foundPath = path
			return false
		}
		return true
	})
	return found, foundPath
}

// BlockOrder returns every block id in the document in depth-first,
// document order. This is the BlockId slice the selection model consults
// for cross-block ordering (spec.md §4.2) and the array EditorState.
// getBlockOrder() caches (spec.md §4.6).
func BlockOrder(doc *Document) []BlockId {
	var order []BlockId
	WalkBlocks(doc, func(b *BlockNode, _ []BlockId) bool {
		order = append(order, b.ID)
		return true
	})
	return order
}

// LeafBlocks returns every block that carries inline content (i.e. is not
// a container), in document order. Used as the fallback target for
// selection repair (spec.md §4.6).
func LeafBlocks(doc *Document) []*BlockNode {
	var leaves []*BlockNode
	WalkBlocks(doc, func(b *BlockNode, _ []BlockId) bool {
		if !b.IsContainer() {
			leaves = append(leaves, b)
		}
		return true
	})
	return leaves
}
