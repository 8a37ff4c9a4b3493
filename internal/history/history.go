// Package history implements the per-client undo/redo discipline: two stacks
// of deep snapshots of the full shape collection. History is strictly local
// and never transmitted; remote edits do not touch it.
package history

import (
	"github.com/drawspace/drawspace-backend/internal/board/domain"
)

// Stack holds the undo and redo snapshot stacks for one editing session.
type Stack struct {
	undo []domain.ShapeList
	redo []domain.ShapeList
}

// New returns an empty history stack.
func New() *Stack {
	return &Stack{}
}

// Save pushes a deep snapshot of the current state onto the undo stack and
// clears the redo stack: any new action invalidates the forward timeline.
// Call it before applying a locally-initiated mutation.
func (h *Stack) Save(current domain.ShapeList) {
	h.undo = append(h.undo, current.Clone())
	h.redo = nil
}

// Undo pops the latest undo snapshot and returns it as the new current
// state, pushing the pre-undo state onto the redo stack. Returns false when
// there is nothing to undo.
func (h *Stack) Undo(current domain.ShapeList) (domain.ShapeList, bool) {
	if len(h.undo) == 0 {
		return current, false
	}

	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return last, true
}

// Redo is the mirror of Undo.
func (h *Stack) Redo(current domain.ShapeList) (domain.ShapeList, bool) {
	if len(h.redo) == 0 {
		return current, false
	}

	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return last, true
}

// CanUndo reports whether an undo snapshot is available.
func (h *Stack) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *Stack) CanRedo() bool { return len(h.redo) > 0 }
