package store

import (
	"time"

	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/tree"
)

// Snapshot is one saved state on the undo/redo stack
type Snapshot struct {
	Tree      *tree.Node
	Course    *models.Course
	Timestamp time.Time
}

// mutate runs a tree-mutating operation inside the history protocol.
//
// Linear undo/redo, no branching: mutating with the cursor behind the top of
// the stack discards every "future" snapshot first. The base state is pushed
// before the first mutation — and again after every course load, which swaps
// the state out from under the stack without snapshotting — so a full run of
// undos always lands on the pre-edit state of the course that was edited.
// Every mutation then pushes the resulting state and moves the cursor to the
// top. The stack is bounded; the oldest snapshots fall off the front.
//
// A mutation that reports false changed nothing and leaves the history
// untouched, so a failed no-op never becomes an undoable step.
//
// Callers must hold s.mu.
func (s *Store) mutate(fn func() bool) {
	base := s.capture()
	if !fn() {
		return
	}

	if s.historyIndex < len(s.history)-1 {
		s.history = s.history[:s.historyIndex+1]
	}
	if len(s.history) == 0 || s.baseStale {
		s.history = append(s.history, base)
		s.baseStale = false
	}

	s.history = append(s.history, s.capture())
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	s.historyIndex = len(s.history) - 1
}

// capture clones the current editing state. Callers must hold s.mu.
func (s *Store) capture() Snapshot {
	return Snapshot{
		Tree:      s.tree.Clone(),
		Course:    s.course,
		Timestamp: time.Now(),
	}
}

// restore replaces the current state with a snapshot. The snapshot's tree is
// cloned again on the way out so later mutations never corrupt the stack.
// A selection pointing at a node absent from the restored tree is cleared.
// Callers must hold s.mu.
func (s *Store) restore(snap Snapshot) {
	s.tree = snap.Tree.Clone()
	s.course = snap.Course
	if s.selectedKey != "" && s.tree.Find(s.selectedKey) == nil {
		s.selectedKey = ""
	}
}

// Undo moves the history cursor one step back and restores that snapshot.
// A no-op at the bottom of the stack: state is untouched and nothing panics.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.historyIndex <= 0 {
		return false
	}
	s.historyIndex--
	s.restore(s.history[s.historyIndex])
	return true
}

// Redo moves the history cursor one step forward and restores that snapshot.
// A no-op at the top of the stack.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.historyIndex >= len(s.history)-1 {
		return false
	}
	s.historyIndex++
	s.restore(s.history[s.historyIndex])
	return true
}

// CanUndo reports whether an Undo would change state
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyIndex > 0
}

// CanRedo reports whether a Redo would change state
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyIndex < len(s.history)-1
}

// HistoryDepth returns the number of snapshots currently on the stack
func (s *Store) HistoryDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
