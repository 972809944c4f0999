// Package history implements the time-window grouped undo/redo manager
// from spec.md §4.8: two stacks of transaction groups, with reverse
// application of inverted transactions on undo/redo.
package history

import (
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

const (
	// DefaultGroupTimeout is the default window, in milliseconds, within
	// which consecutive same-kind input transactions merge into one undo
	// group (spec.md §4.8).
	DefaultGroupTimeout int64 = 500
	// DefaultUndoCap is the default number of groups retained on the undo
	// stack before the oldest is evicted.
	DefaultUndoCap = 100
)

// group is a non-empty run of transactions sharing a timestamp window.
type group struct {
	transactions []transaction.Transaction
	origin       transaction.Origin
	firstType    string
	timestamp    int64
}

// Manager owns the undo/redo stacks for one editor instance. It is not
// safe for concurrent use without external synchronization, matching the
// engine's single-threaded dispatch model (spec.md §5).
type Manager struct {
	undo []group
	redo []group

	GroupTimeout int64
	UndoCap      int
}

// New returns a Manager configured with the spec's defaults.
func New() *Manager {
	return &Manager{GroupTimeout: DefaultGroupTimeout, UndoCap: DefaultUndoCap}
}

// Push records tr per spec.md §4.8's push rule. Transactions whose origin
// is 'history' (the output of Undo/Redo) are never pushed, so
// undo-of-undo can't happen by accident. Any other push clears the redo
// stack.
func (m *Manager) Push(tr transaction.Transaction) {
	if tr.Metadata.Origin == transaction.OriginHistory {
		return
	}
	if len(tr.Steps) == 0 {
		return
	}
	m.redo = nil

	firstType := transaction.FirstStepType(tr)
	if n := len(m.undo); n > 0 {
		last := &m.undo[n-1]
		sameWindow := tr.Metadata.Origin == transaction.OriginInput &&
			last.origin == tr.Metadata.Origin &&
			tr.Metadata.Timestamp-last.timestamp < m.groupTimeout() &&
			last.firstType == firstType
		if sameWindow {
			last.transactions = append(last.transactions, tr)
			return
		}
	}

	m.undo = append(m.undo, group{
		transactions: []transaction.Transaction{tr},
		origin:       tr.Metadata.Origin,
		firstType:    firstType,
		timestamp:    tr.Metadata.Timestamp,
	})
	if cap := m.undoCap(); len(m.undo) > cap {
		m.undo = m.undo[len(m.undo)-cap:]
	}
}

func (m *Manager) groupTimeout() int64 {
	if m.GroupTimeout > 0 {
		return m.GroupTimeout
	}
	return DefaultGroupTimeout
}

func (m *Manager) undoCap() int {
	if m.UndoCap > 0 {
		return m.UndoCap
	}
	return DefaultUndoCap
}

// summaryTransaction folds a group's transactions' inversions, applied in
// reverse order, into a single history-origin transaction.
func summaryTransaction(g group, timestamp int64) transaction.Transaction {
	var inverted transaction.Transaction
	for i := len(g.transactions) - 1; i >= 0; i-- {
		inv := transaction.Invert(g.transactions[i])
		inverted.Steps = append(inverted.Steps, inv.Steps...)
		if i == len(g.transactions)-1 {
			inverted.SelectionBefore = inv.SelectionBefore
		}
		inverted.SelectionAfter = inv.SelectionAfter
	}
	inverted.Metadata = transaction.Metadata{Origin: transaction.OriginHistory, Timestamp: timestamp}
	return inverted
}

// Undo pops the top undo group, applies its inverted transactions (as one
// summary transaction) to s, and pushes the original group onto the redo
// stack. Idempotent against an empty undo stack: ok is false and s is
// returned unchanged.
func (m *Manager) Undo(s *state.EditorState, timestamp int64) (next *state.EditorState, ok bool, err error) {
	if len(m.undo) == 0 {
		return s, false, nil
	}
	n := len(m.undo)
	g := m.undo[n-1]
	m.undo = m.undo[:n-1]

	summary := summaryTransaction(g, timestamp)
	next, err = s.Apply(summary)
	if err != nil {
		m.undo = append(m.undo, g)
		return s, false, err
	}
	m.redo = append(m.redo, g)
	return next, true, nil
}

// Redo mirrors Undo: pop the top redo group, re-apply its original
// transactions (not inverted) in forward order as one summary, and push
// the group back onto the undo stack.
func (m *Manager) Redo(s *state.EditorState, timestamp int64) (next *state.EditorState, ok bool, err error) {
	if len(m.redo) == 0 {
		return s, false, nil
	}
	n := len(m.redo)
	g := m.redo[n-1]
	m.redo = m.redo[:n-1]

	var summary transaction.Transaction
	for i, tr := range g.transactions {
		summary.Steps = append(summary.Steps, tr.Steps...)
		if i == 0 {
			summary.SelectionBefore = tr.SelectionBefore
		}
		summary.SelectionAfter = tr.SelectionAfter
	}
	summary.Metadata = transaction.Metadata{Origin: transaction.OriginHistory, Timestamp: timestamp, HistoryDirection: "redo"}

	next, err = s.Apply(summary)
	if err != nil {
		m.redo = append(m.redo, g)
		return s, false, err
	}
	m.undo = append(m.undo, g)
	return next, true, nil
}

// Clear empties both stacks, used by editor.Editor's setJSON/setHTML
// replace-document path (spec.md §9's recorded open-question decision).
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

// CanUndo/CanRedo expose stack occupancy for can() capability checks
// (spec.md §4.10).
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }
