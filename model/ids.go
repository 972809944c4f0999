package model

import "github.com/google/uuid"

// BlockId is an opaque, document-unique identifier for a block node.
type BlockId string

// NodeType is the symbolic name of a block, inline atom, or mark type as
// registered in the schema (e.g. "paragraph", "image", "bold").
type NodeType string

// MarkTypeName is the symbolic name of a mark type (e.g. "bold", "link").
type MarkTypeName string

// NewBlockID returns a fresh, collision-resistant BlockId. Splits produce
// exactly one new id (for the right-hand block); merges drop the
// merged-away id entirely, per spec.md §3 "Lifecycles".
func NewBlockID() BlockId {
	return BlockId(uuid.NewString())
}
