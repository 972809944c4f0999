// Package transaction implements the fluent builder that groups steps,
// selection, and stored-marks metadata into one dispatchable unit
// (spec.md §4.5), plus its inversion for the history manager.
package transaction

import (
	"github.com/scrivlet/editorcore/model"
	"github.com/scrivlet/editorcore/selection"
	"github.com/scrivlet/editorcore/step"
)

// Origin classifies who produced a transaction, consulted by the history
// manager's grouping rule (spec.md §4.8) and exposed to plugin middleware.
type Origin string

const (
	OriginInput   Origin = "input"
	OriginCommand Origin = "command"
	OriginHistory Origin = "history"
	OriginPlugin  Origin = "plugin"
	OriginExternal Origin = "external"
)

// Metadata carries the non-document facts a transaction is tagged with.
type Metadata struct {
	Origin           Origin
	Timestamp        int64
	HistoryDirection string // "undo", "redo", or "" for a fresh edit
}

// Transaction bundles steps with the selection either side of them and the
// stored-marks state after, per spec.md §3.
type Transaction struct {
	Steps            []step.Step
	SelectionBefore  selection.Selection
	SelectionAfter   selection.Selection
	StoredMarksAfter model.MarkSet
	Metadata         Metadata
}

// Builder accumulates steps and metadata before producing an immutable
// Transaction via Build.
type Builder struct {
	steps            []step.Step
	selectionBefore  selection.Selection
	selectionAfter   selection.Selection
	storedMarksAfter model.MarkSet
	storedMarksSet   bool
	origin           Origin
	timestamp        int64
	historyDirection string
}

// New starts a builder for a transaction whose pre-edit selection is
// selectionBefore, defaulting origin to OriginCommand and selectionAfter to
// selectionBefore (most commands don't move the selection beyond what their
// own setSelection call specifies).
func New(selectionBefore selection.Selection, timestamp int64) *Builder {
	return &Builder{
		selectionBefore: selectionBefore,
		selectionAfter:  selectionBefore,
		origin:          OriginCommand,
		timestamp:       timestamp,
	}
}

// Step appends a step to the transaction.
func (b *Builder) Step(s step.Step) *Builder {
	b.steps = append(b.steps, s)
	return b
}

// Steps appends a run of steps in order.
func (b *Builder) Steps(ss ...step.Step) *Builder {
	b.steps = append(b.steps, ss...)
	return b
}

// SetSelection sets selectionAfter.
func (b *Builder) SetSelection(sel selection.Selection) *Builder {
	b.selectionAfter = sel
	return b
}

// SetStoredMarks records a SetStoredMarks step and sets the resulting
// stored-marks-after value, per spec.md §4.5.
func (b *Builder) SetStoredMarks(newMarks, oldMarks model.MarkSet) *Builder {
	b.steps = append(b.steps, &step.SetStoredMarks{NewMarks: newMarks, OldMarks: oldMarks})
	b.storedMarksAfter = newMarks
	b.storedMarksSet = true
	return b
}

// SetOrigin overrides the default OriginCommand.
func (b *Builder) SetOrigin(origin Origin) *Builder {
	b.origin = origin
	return b
}

// SetHistoryDirection tags the transaction as an undo or redo product.
func (b *Builder) SetHistoryDirection(dir string) *Builder {
	b.historyDirection = dir
	return b
}

// HasSteps reports whether any step has been added, used by command
// implementations that return nil for a no-op edit (spec.md §4.7).
func (b *Builder) HasSteps() bool { return len(b.steps) > 0 }

// Build returns the immutable Transaction. storedMarksAfter defaults to nil
// (carry-forward is the state layer's responsibility) unless SetStoredMarks
// was called.
func (b *Builder) Build() Transaction {
	return Transaction{
		Steps:            append([]step.Step(nil), b.steps...),
		SelectionBefore:  b.selectionBefore,
		SelectionAfter:   b.selectionAfter,
		StoredMarksAfter: b.storedMarksAfter,
		Metadata: Metadata{
			Origin:           b.origin,
			Timestamp:        b.timestamp,
			HistoryDirection: b.historyDirection,
		},
	}
}

// Invert returns a transaction whose steps are the reverse-order inversions
// of tr's steps, with selectionBefore/After swapped and origin forced to
// history, per spec.md §4.5.
func Invert(tr Transaction) Transaction {
	inverted := make([]step.Step, len(tr.Steps))
	for i, s := range tr.Steps {
		inverted[len(tr.Steps)-1-i] = s.Invert()
	}
	return Transaction{
		Steps:           inverted,
		SelectionBefore: tr.SelectionAfter,
		SelectionAfter:  tr.SelectionBefore,
		Metadata: Metadata{
			Origin:    OriginHistory,
			Timestamp: tr.Metadata.Timestamp,
		},
	}
}

// FirstStepType returns a stable type tag for tr's first step, used by the
// history manager's group-merge rule (spec.md §4.8 "first step type
// equals"). Empty for a transaction with no steps.
func FirstStepType(tr Transaction) string {
	if len(tr.Steps) == 0 {
		return ""
	}
	return stepTypeName(tr.Steps[0])
}

func stepTypeName(s step.Step) string {
	switch s.(type) {
	case *step.InsertText:
		return "InsertText"
	case *step.DeleteText:
		return "DeleteText"
	case *step.SplitBlock:
		return "SplitBlock"
	case *step.MergeBlocks:
		return "MergeBlocks"
	case *step.AddMark:
		return "AddMark"
	case *step.RemoveMark:
		return "RemoveMark"
	case *step.SetBlockType:
		return "SetBlockType"
	case *step.InsertNode:
		return "InsertNode"
	case *step.RemoveNode:
		return "RemoveNode"
	case *step.SetNodeAttr:
		return "SetNodeAttr"
	case *step.InsertInlineNode:
		return "InsertInlineNode"
	case *step.RemoveInlineNode:
		return "RemoveInlineNode"
	case *step.SetInlineNodeAttr:
		return "SetInlineNodeAttr"
	case *step.SetStoredMarks:
		return "SetStoredMarks"
	default:
		return "Unknown"
	}
}
