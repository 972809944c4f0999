package selection

import (
	"testing"

	"github.com/scrivlet/editorcore/model"
)

func TestIsCollapsed(t *testing.T) {
	pos := Position{BlockId: "b1", Offset: 3}
	if !IsCollapsed(NewCollapsed(pos)) {
		t.Fatal("expected collapsed selection")
	}
	if IsCollapsed(NewTextSelection(pos, Position{BlockId: "b1", Offset: 4})) {
		t.Fatal("expected non-collapsed selection")
	}
	if IsCollapsed(NewNodeSelection("b1", nil)) {
		t.Fatal("node selection is never collapsed")
	}
}

func TestIsForwardCrossBlock(t *testing.T) {
	blockOrder := []model.BlockId{"b1", "b2"}

	sel := NewTextSelection(Position{BlockId: "b2", Offset: 3}, Position{BlockId: "b1", Offset: 8})
	if IsForward(sel, blockOrder) {
		t.Fatal("expected backward selection (anchor after head)")
	}

	forward := NewTextSelection(Position{BlockId: "b1", Offset: 1}, Position{BlockId: "b2", Offset: 1})
	if !IsForward(forward, blockOrder) {
		t.Fatal("expected forward selection")
	}
}

func TestSelectionRangeNormalizesBackward(t *testing.T) {
	blockOrder := []model.BlockId{"b1", "b2"}
	sel := NewTextSelection(Position{BlockId: "b2", Offset: 3}, Position{BlockId: "b1", Offset: 8})
	r := SelectionRange(sel, blockOrder)
	if r.From.BlockId != "b1" || r.To.BlockId != "b2" {
		t.Fatalf("expected normalized range b1->b2, got %+v", r)
	}
}

func TestSelectionsEqual(t *testing.T) {
	a := NewTextSelection(Position{BlockId: "b1"}, Position{BlockId: "b1", Offset: 2})
	b := NewTextSelection(Position{BlockId: "b1"}, Position{BlockId: "b1", Offset: 2})
	if !SelectionsEqual(a, b) {
		t.Fatal("expected equal selections")
	}
	if SelectionsEqual(a, NewNodeSelection("b1", nil)) {
		t.Fatal("selections of different kinds must not be equal")
	}
}
