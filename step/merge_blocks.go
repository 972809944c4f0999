package step

import "github.com/scrivlet/editorcore/model"

// BlockSnapshot captures the identity/type/attrs of a block that a step
// removed, so it can be recreated verbatim on undo. It deliberately omits
// Inline: the content is recoverable from the inverse operation's own
// offsets (spec.md §4.4 "steps capture what they need to invert, nothing
// more").
type BlockSnapshot struct {
	ID    model.BlockId
	Type  model.NodeType
	Attrs map[string]any
}

// MergeBlocks removes SourceBlockId (a following sibling of TargetBlockId)
// and appends its inline content onto TargetBlockId's. Both blocks must be
// leaves (inline content, not containers) and siblings under the same
// parent; the command layer is responsible for only ever constructing
// merges that satisfy this.
type MergeBlocks struct {
	TargetBlockId  model.BlockId
	SourceBlockId  model.BlockId
	SplitOffset    int
	CapturedSource BlockSnapshot
}

// NewMergeBlocks captures the source block's type/attrs (needed to restore
// it verbatim on undo) and the target's current length (the offset at
// which the merge seam falls, needed to split the content back apart).
func NewMergeBlocks(doc *model.Document, targetID, sourceID model.BlockId) (*MergeBlocks, error) {
	target, err := findBlockOrErr(doc, "MergeBlocks", targetID)
	if err != nil {
		return nil, err
	}
	source, err := findBlockOrErr(doc, "MergeBlocks", sourceID)
	if err != nil {
		return nil, err
	}
	if target.IsContainer() || source.IsContainer() {
		return nil, notFound("MergeBlocks", targetID, "cannot merge container blocks")
	}
	return &MergeBlocks{
		TargetBlockId: targetID,
		SourceBlockId: sourceID,
		SplitOffset:   target.Length(),
		CapturedSource: BlockSnapshot{
			ID:    source.ID,
			Type:  source.Type,
			Attrs: cloneAttrsPublic(source.Attrs),
		},
	}, nil
}

func (s *MergeBlocks) Apply(doc *model.Document) (*model.Document, error) {
	target, path := model.FindBlock(doc, s.TargetBlockId)
	if target == nil {
		return nil, notFound("MergeBlocks", s.TargetBlockId, "block does not exist")
	}
	source, sourcePath := model.FindBlock(doc, s.SourceBlockId)
	if source == nil {
		return nil, notFound("MergeBlocks", s.SourceBlockId, "block does not exist")
	}
	if !pathsEqual(path, sourcePath) {
		return nil, notFound("MergeBlocks", s.SourceBlockId, "source is not a sibling of target")
	}
	mergedInline := model.NormalizeInline(append(append([]model.InlineNode(nil), target.Inline...), source.Inline...))

	return model.MapNodeByPath(doc, path, func(siblings []*model.BlockNode) ([]*model.BlockNode, error) {
		out := make([]*model.BlockNode, 0, len(siblings)-1)
		for _, sib := range siblings {
			switch sib.ID {
			case s.SourceBlockId:
				continue
			case s.TargetBlockId:
				nb := sib.CloneShallow()
				nb.Inline = mergedInline
				out = append(out, nb)
			default:
				out = append(out, sib)
			}
		}
		return out, nil
	})
}

// Invert returns the SplitBlock that recreates the source block and its
// content by splitting the merged target back apart at SplitOffset.
func (s *MergeBlocks) Invert() Step {
	return &SplitBlock{
		BlockId:       s.TargetBlockId,
		Offset:        s.SplitOffset,
		NewBlockId:    s.CapturedSource.ID,
		NewBlockType:  s.CapturedSource.Type,
		NewBlockAttrs: s.CapturedSource.Attrs,
	}
}

func pathsEqual(a, b []model.BlockId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
