package model

import "errors"

// ErrBlockNotFound is returned when a block-id reference does not resolve
// to a live block. Step application wraps this in a StepApplicationError.
var ErrBlockNotFound = errors.New("block not found")

// ErrPathNotFound is returned when a path reference does not resolve to a
// live container.
var ErrPathNotFound = errors.New("path not found")

// MapBlock locates the block with the given id anywhere in the tree and
// replaces it with f's result, returning a new Document that shares every
// untouched subtree with the original (spec.md §4.4 "mapBlock(doc,
// blockId, f)"). found is false, and doc unchanged, if no such block
// exists.
func MapBlock(doc *Document, id BlockId, f func(*BlockNode) (*BlockNode, error)) (newDoc *Document, found bool, err error) {
	newBlocks, found, err := mapBlockIn(doc.Blocks, id, f)
	if err != nil || !found {
		return doc, found, err
	}
	return &Document{Blocks: newBlocks}, true, nil
}

func mapBlockIn(blocks []*BlockNode, id BlockId, f func(*BlockNode) (*BlockNode, error)) ([]*BlockNode, bool, error) {
	for i, b := range blocks {
		if b.ID == id {
			replacement, err := f(b)
			if err != nil {
				return nil, true, err
			}
			out := append([]*BlockNode(nil), blocks...)
			out[i] = replacement
			return out, true, nil
		}
		if b.IsContainer() {
			newChildren, found, err := mapBlockIn(b.Blocks, id, f)
			if err != nil {
				return nil, true, err
			}
			if found {
				out := append([]*BlockNode(nil), blocks...)
				nb := b.CloneShallow()
				nb.Blocks = newChildren
				out[i] = nb
				return out, true, nil
			}
		}
	}
	return blocks, false, nil
}

// resolvePath walks path (a chain of container ids from the root) and
// returns the node it names. An empty path (meaning the document root
// itself) yields nil with ok=true; a broken chain yields nil with ok=false.
func resolvePath(blocks []*BlockNode, path []BlockId) (*BlockNode, bool) {
	if len(path) == 0 {
		return nil, true
	}
	for _, b := range blocks {
		if b.ID == path[0] {
			if len(path) == 1 {
				return b, true
			}
			return resolvePath(b.Blocks, path[1:])
		}
	}
	return nil, false
}

// ResolvePath is the exported form of resolvePath, used by the
// InsertNode/RemoveNode constructors to find a parent container's
// children and type.
func ResolvePath(doc *Document, path []BlockId) (*BlockNode, bool) {
	return resolvePath(doc.Blocks, path)
}

// MapNodeByPath replaces the children slice of the container named by
// path (empty path = document root) with f's result, returning a new
// Document that shares every untouched subtree (spec.md §4.4
// "mapNodeByPath(doc, path, f)").
func MapNodeByPath(doc *Document, path []BlockId, f func([]*BlockNode) ([]*BlockNode, error)) (*Document, error) {
	newBlocks, err := rebuildPath(doc.Blocks, path, f)
	if err != nil {
		return nil, err
	}
	return &Document{Blocks: newBlocks}, nil
}

func rebuildPath(blocks []*BlockNode, path []BlockId, f func([]*BlockNode) ([]*BlockNode, error)) ([]*BlockNode, error) {
	if len(path) == 0 {
		return f(blocks)
	}
	for i, b := range blocks {
		if b.ID == path[0] {
			newChildren, err := rebuildPath(b.Blocks, path[1:], f)
			if err != nil {
				return nil, err
			}
			out := append([]*BlockNode(nil), blocks...)
			nb := b.CloneShallow()
			nb.Blocks = newChildren
			out[i] = nb
			return out, nil
		}
	}
	return nil, ErrPathNotFound
}
