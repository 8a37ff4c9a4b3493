package domain

import (
	"math"

	"github.com/drawspace/drawspace-backend/internal/geometry"
)

// Text metrics heuristic: average glyph width and line height as fractions
// of the font size. Good enough for hit-testing without a font engine.
const (
	textGlyphWidthRatio = 0.6
	textLineHeightRatio = 1.2
)

// BoundingBox returns the per-variant bounding rectangle of a shape.
func BoundingBox(s Shape) geometry.Rect {
	switch v := s.(type) {
	case *Stroke:
		return geometry.BoundsOf(v.Points)
	case *Primitive:
		return geometry.NormalizedRect(v.Start, primitiveFarCorner(v))
	case *Text:
		w := float64(len([]rune(v.Text))) * v.FontSize * textGlyphWidthRatio
		h := v.FontSize * textLineHeightRatio
		return geometry.Rect{X: v.X, Y: v.Y, Width: w, Height: h}
	case *Image:
		return geometry.Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	}
	return geometry.Rect{}
}

// IntersectsPath reports whether an eraser path of the given radius touches
// the shape. It is the single source of truth for erasing: per-variant,
// strokes test every segment against every path point, text and images test
// bounding-box containment, closed primitives use analytic containment and
// open primitives use segment distance.
func IntersectsPath(s Shape, path []geometry.Point, radius float64) bool {
	if len(path) == 0 {
		return false
	}

	switch v := s.(type) {
	case *Stroke:
		return strokeIntersectsPath(v, path, radius)
	case *Primitive:
		return primitiveIntersectsPath(v, path, radius)
	case *Text:
		box := BoundingBox(v)
		for _, p := range path {
			if box.Contains(p) {
				return true
			}
		}
		return false
	case *Image:
		box := BoundingBox(v)
		for _, p := range path {
			if box.Contains(p) {
				return true
			}
		}
		return false
	}
	return false
}

// PointInShape reports whether a single click lands on the shape. Same
// per-variant dispatch as IntersectsPath with no extra radius, used for
// selection hit-testing.
func PointInShape(p geometry.Point, s Shape) bool {
	return IntersectsPath(s, []geometry.Point{p}, 0)
}

func strokeIntersectsPath(s *Stroke, path []geometry.Point, radius float64) bool {
	threshold := radius + s.StrokeWidth/2
	if len(s.Points) == 1 {
		for _, p := range path {
			if geometry.Distance(p, s.Points[0]) <= threshold {
				return true
			}
		}
		return false
	}

	for _, p := range path {
		for i := 1; i < len(s.Points); i++ {
			if geometry.DistancePointToSegment(p, s.Points[i-1], s.Points[i]) <= threshold {
				return true
			}
		}
	}
	return false
}

func primitiveIntersectsPath(v *Primitive, path []geometry.Point, radius float64) bool {
	switch v.Type {
	case ShapeLine, ShapeArrow:
		threshold := radius + v.StrokeWidth/2
		for _, p := range path {
			if geometry.DistancePointToSegment(p, v.Start, v.End) <= threshold {
				return true
			}
		}
		return false

	case ShapeCircle:
		center := geometry.Point{
			X: (v.Start.X + v.End.X) / 2,
			Y: (v.Start.Y + v.End.Y) / 2,
		}
		r := geometry.Distance(v.Start, v.End) / 2
		for _, p := range path {
			if geometry.Distance(p, center) <= r+radius {
				return true
			}
		}
		return false

	case ShapeDiamond:
		box := geometry.NormalizedRect(v.Start, v.End)
		cx := box.X + box.Width/2
		cy := box.Y + box.Height/2
		halfW := math.Max(box.Width/2, 1e-9)
		halfH := math.Max(box.Height/2, 1e-9)
		for _, p := range path {
			// Taxicab-normalized distance from the center: <=1 is inside.
			d := math.Abs(p.X-cx)/halfW + math.Abs(p.Y-cy)/halfH
			if d <= 1+radius/math.Max(halfW, halfH) {
				return true
			}
		}
		return false

	case ShapeSquare:
		// A square grows sign-directed from its start corner with equal sides.
		box := geometry.NormalizedRect(v.Start, primitiveFarCorner(v)).Inflate(radius)
		for _, p := range path {
			if box.Contains(p) {
				return true
			}
		}
		return false

	default: // rectangle
		box := geometry.NormalizedRect(v.Start, v.End).Inflate(radius)
		for _, p := range path {
			if box.Contains(p) {
				return true
			}
		}
		return false
	}
}

// primitiveFarCorner returns the corner opposite Start. For squares the side
// length is the larger drag extent, applied in the drag direction; for all
// other primitives it is simply End.
func primitiveFarCorner(v *Primitive) geometry.Point {
	if v.Type != ShapeSquare {
		return v.End
	}
	dx := v.End.X - v.Start.X
	dy := v.End.Y - v.Start.Y
	side := math.Max(math.Abs(dx), math.Abs(dy))
	return geometry.Point{
		X: v.Start.X + math.Copysign(side, dx),
		Y: v.Start.Y + math.Copysign(side, dy),
	}
}
