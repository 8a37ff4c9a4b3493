package client

import (
	"sort"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/geometry"
)

const (
	defaultEraserRadius  = 10
	defaultEraserSpacing = 5
)

// Eraser accumulates a pointer path and marks every shape the path touches.
// Marked shapes are removed in one step on release.
type Eraser struct {
	radius  float64
	spacing float64

	erasing bool
	path    []geometry.Point
	marked  map[int]bool
}

// NewEraser creates an idle eraser with default radius and path spacing.
func NewEraser() *Eraser {
	return &Eraser{
		radius:  defaultEraserRadius,
		spacing: defaultEraserSpacing,
		marked:  make(map[int]bool),
	}
}

// Active reports whether an erase gesture is in progress.
func (e *Eraser) Active() bool { return e.erasing }

// Begin starts a new erase path at p.
func (e *Eraser) Begin(p geometry.Point, shapes domain.ShapeList) {
	e.erasing = true
	e.path = []geometry.Point{p}
	e.marked = make(map[int]bool)
	e.retest(shapes)
}

// Move extends the path to p, interpolating against the previous point so a
// fast pointer cannot skip over shapes, and recomputes the marked set from
// the full path.
func (e *Eraser) Move(p geometry.Point, shapes domain.ShapeList) {
	if !e.erasing {
		return
	}
	prev := e.path[len(e.path)-1]
	e.path = append(e.path, geometry.Interpolate(prev, p, e.spacing)...)
	e.retest(shapes)
}

// retest recomputes the intersecting set from scratch on every move, so the
// marks always reflect the whole path against the current collection.
func (e *Eraser) retest(shapes domain.ShapeList) {
	e.marked = make(map[int]bool)
	for i, s := range shapes {
		if domain.IntersectsPath(s, e.path, e.radius) {
			e.marked[i] = true
		}
	}
}

// Marked returns the currently marked indices in ascending order; these are
// the erased-but-not-yet-committed shapes a renderer previews at 0.3 alpha.
func (e *Eraser) Marked() []int {
	out := make([]int, 0, len(e.marked))
	for i := range e.marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// End removes all marked shapes in one step and resets the engine. It
// returns the removed indices and the resulting shape list; the caller
// pushes the history snapshot before applying the result.
func (e *Eraser) End(shapes domain.ShapeList) ([]int, domain.ShapeList) {
	deleted := e.Marked()

	result := make(domain.ShapeList, 0, len(shapes)-len(deleted))
	for i, s := range shapes {
		if !e.marked[i] {
			result = append(result, s)
		}
	}

	e.erasing = false
	e.path = nil
	e.marked = make(map[int]bool)
	return deleted, result
}
