// Package step implements the atomic, invertible document edits the
// transaction builder and commands are built from (spec.md §4.4). Every
// step that removes content captures what it removed at construction
// time, via the New* constructors below, so invert() is a pure, pointwise
// function of the step's own fields — it never re-reads the document.
package step

import (
	"fmt"

	"github.com/scrivlet/editorcore/model"
)

// Step is an atomic, invertible document edit.
type Step interface {
	// Apply is a total function of (doc, step): unresolvable references
	// fail with a StepApplicationError. Doc and everything it shares
	// structure with are left untouched; a new Document is returned.
	Apply(doc *model.Document) (*model.Document, error)
	// Invert returns the step that undoes this one.
	Invert() Step
}

// StepApplicationError is returned when a step references a block or path
// that doesn't resolve, or an offset that is out of range (spec.md §7).
type StepApplicationError struct {
	Op      string
	BlockId model.BlockId
	Path    []model.BlockId
	Reason  string
}

func (e *StepApplicationError) Error() string {
	if e.BlockId != "" {
		return fmt.Sprintf("step: %s on block %q: %s", e.Op, e.BlockId, e.Reason)
	}
	return fmt.Sprintf("step: %s on path %v: %s", e.Op, e.Path, e.Reason)
}

func notFound(op string, blockID model.BlockId, reason string) error {
	return &StepApplicationError{Op: op, BlockId: blockID, Reason: reason}
}

func pathError(op string, path []model.BlockId, reason string) error {
	return &StepApplicationError{Op: op, Path: path, Reason: reason}
}

// InvariantViolation indicates a post-apply normalization check failed —
// a bug, not a user error (spec.md §7).
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Reason }
