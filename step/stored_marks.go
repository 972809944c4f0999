package step

import "github.com/scrivlet/editorcore/model"

// SetStoredMarks updates the "marks that would apply to the next
// character typed" — state carried on EditorState, not the document
// (spec.md §4.6 "storedMarks"). Apply is a no-op on the document itself;
// the state layer special-cases this step type to update its stored-marks
// field instead of routing through model.MapBlock. It still participates
// in the ordinary step/invert machinery so history treats it like any
// other edit.
type SetStoredMarks struct {
	NewMarks model.MarkSet
	OldMarks model.MarkSet
}

func (s *SetStoredMarks) Apply(doc *model.Document) (*model.Document, error) {
	return doc, nil
}

// Invert returns the SetStoredMarks that restores the prior stored marks.
func (s *SetStoredMarks) Invert() Step {
	return &SetStoredMarks{NewMarks: s.OldMarks, OldMarks: s.NewMarks}
}
