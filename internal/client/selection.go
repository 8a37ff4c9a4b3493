package client

import (
	"sort"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/geometry"
)

// SelectionState tracks the selection engine's mode.
type SelectionState int

const (
	SelectionIdle SelectionState = iota
	SelectionDragging
	SelectionElement
)

// Selection computes the set of selected shape indices from clicks and drag
// boxes. Drag selection is additive with the existing set; plain clicks
// replace it unless additive (ctrl/cmd) is requested.
type Selection struct {
	state    SelectionState
	anchor   geometry.Point
	box      geometry.Rect
	selected map[int]bool
}

// NewSelection creates an idle selection engine.
func NewSelection() *Selection {
	return &Selection{selected: make(map[int]bool)}
}

// State returns the current engine state.
func (s *Selection) State() SelectionState { return s.state }

// Box returns the in-progress drag rectangle.
func (s *Selection) Box() geometry.Rect { return s.box }

// HitTest returns the index of the topmost shape under p, iterating
// back-to-front so visual z-order wins, or -1 when nothing is hit.
func HitTest(shapes domain.ShapeList, p geometry.Point) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if domain.PointInShape(p, shapes[i]) {
			return i
		}
	}
	return -1
}

// Click performs single-click selection. With additive set (ctrl/cmd-click)
// the hit shape is appended to the selection instead of replacing it.
func (s *Selection) Click(shapes domain.ShapeList, p geometry.Point, additive bool) int {
	hit := HitTest(shapes, p)
	if !additive {
		s.selected = make(map[int]bool)
	}
	if hit < 0 {
		s.state = SelectionIdle
		return hit
	}
	s.selected[hit] = true
	s.state = SelectionElement
	return hit
}

// BeginDrag starts an axis-aligned selection rectangle at p.
func (s *Selection) BeginDrag(p geometry.Point) {
	s.state = SelectionDragging
	s.anchor = p
	s.box = geometry.Rect{X: p.X, Y: p.Y}
}

// DragTo extends the selection rectangle to p.
func (s *Selection) DragTo(p geometry.Point) {
	if s.state != SelectionDragging {
		return
	}
	s.box = geometry.NormalizedRect(s.anchor, p)
}

// EndDrag adds every shape whose bounding box falls inside the rectangle to
// the selection and returns to idle.
func (s *Selection) EndDrag(shapes domain.ShapeList) {
	if s.state != SelectionDragging {
		return
	}
	for i, shape := range shapes {
		if s.box.ContainsRect(domain.BoundingBox(shape)) {
			s.selected[i] = true
		}
	}
	s.state = SelectionIdle
	s.box = geometry.Rect{}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.selected = make(map[int]bool)
	s.state = SelectionIdle
}

// Indices returns the selected shape indices in ascending order.
func (s *Selection) Indices() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
