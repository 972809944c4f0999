package step

import "github.com/scrivlet/editorcore/model"

// InsertNode inserts a new block as a child of the container named by
// ParentPath, at Index among its current children. Content-rule
// compatibility (can ParentPath's type contain NewBlock's type as a
// block child) is validated by NewInsertNode against the schema at
// construction time; Apply re-validates nothing beyond structural
// existence, matching the other steps' division of labor between command
// layer (schema-aware) and step layer (document-mechanical).
type InsertNode struct {
	ParentPath []model.BlockId
	Index      int
	NewBlock   *model.BlockNode
}

// NewInsertNode validates that index is in range for the parent's current
// children and, when lookup is non-nil, that parentType can contain
// newBlock.Type as a block child.
func NewInsertNode(doc *model.Document, parentPath []model.BlockId, index int, newBlock *model.BlockNode, lookup model.ContentLookup) (*InsertNode, error) {
	siblings, parentType, err := childrenAndType(doc, parentPath)
	if err != nil {
		return nil, err
	}
	if index < 0 || index > len(siblings) {
		return nil, pathError("InsertNode", parentPath, "index out of range")
	}
	if lookup != nil && !model.CanContain(lookup, parentType, newBlock.Type, true) {
		return nil, pathError("InsertNode", parentPath, "content rule forbids this child type")
	}
	return &InsertNode{ParentPath: parentPath, Index: index, NewBlock: newBlock}, nil
}

func childrenAndType(doc *model.Document, parentPath []model.BlockId) ([]*model.BlockNode, model.NodeType, error) {
	if len(parentPath) == 0 {
		return doc.Blocks, "", nil
	}
	parent, ok := model.ResolvePath(doc, parentPath)
	if !ok {
		return nil, "", pathError("InsertNode", parentPath, "parent path does not resolve")
	}
	return parent.Blocks, parent.Type, nil
}

func (s *InsertNode) Apply(doc *model.Document) (*model.Document, error) {
	return model.MapNodeByPath(doc, s.ParentPath, func(siblings []*model.BlockNode) ([]*model.BlockNode, error) {
		if s.Index < 0 || s.Index > len(siblings) {
			return nil, pathError("InsertNode", s.ParentPath, "index out of range")
		}
		out := make([]*model.BlockNode, 0, len(siblings)+1)
		out = append(out, siblings[:s.Index]...)
		out = append(out, s.NewBlock)
		out = append(out, siblings[s.Index:]...)
		return out, nil
	})
}

// Invert returns the RemoveNode that undoes the insertion.
func (s *InsertNode) Invert() Step {
	return &RemoveNode{ParentPath: s.ParentPath, Index: s.Index, CapturedNode: s.NewBlock}
}

// RemoveNode removes the child at Index under ParentPath. CapturedNode is
// the full block snapshot needed to recreate it verbatim on undo —
// recursive content included, since an arbitrary subtree may be removed in
// one step (spec.md §4.4 "capturedNode").
type RemoveNode struct {
	ParentPath   []model.BlockId
	Index        int
	CapturedNode *model.BlockNode
}

// NewRemoveNode captures the block at Index under parentPath before
// removing it.
func NewRemoveNode(doc *model.Document, parentPath []model.BlockId, index int) (*RemoveNode, error) {
	siblings, _, err := childrenAndType(doc, parentPath)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(siblings) {
		return nil, pathError("RemoveNode", parentPath, "index out of range")
	}
	return &RemoveNode{ParentPath: parentPath, Index: index, CapturedNode: siblings[index]}, nil
}

func (s *RemoveNode) Apply(doc *model.Document) (*model.Document, error) {
	return model.MapNodeByPath(doc, s.ParentPath, func(siblings []*model.BlockNode) ([]*model.BlockNode, error) {
		if s.Index < 0 || s.Index >= len(siblings) {
			return nil, pathError("RemoveNode", s.ParentPath, "index out of range")
		}
		out := make([]*model.BlockNode, 0, len(siblings)-1)
		out = append(out, siblings[:s.Index]...)
		out = append(out, siblings[s.Index+1:]...)
		return out, nil
	})
}

// Invert returns the InsertNode that recreates the captured subtree at the
// same position.
func (s *RemoveNode) Invert() Step {
	return &InsertNode{ParentPath: s.ParentPath, Index: s.Index, NewBlock: s.CapturedNode}
}
