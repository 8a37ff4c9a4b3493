package geometry

import "math"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside the rectangle (borders included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside the rectangle.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// DistancePointToSegment returns the shortest distance from p to the segment
// a-b, clamping the projection to the segment's endpoints.
func DistancePointToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// Degenerate segment, both endpoints coincide.
		return Distance(p, a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return Distance(p, closest)
}

// Interpolate returns the points between p1 and p2 (exclusive of p1,
// inclusive of p2) spaced no farther apart than spacing. It densifies a
// fast-moving pointer path so in-between positions are not skipped.
func Interpolate(p1, p2 Point, spacing float64) []Point {
	dist := Distance(p1, p2)
	if spacing <= 0 || dist <= spacing {
		return []Point{p2}
	}

	steps := int(math.Ceil(dist / spacing))
	points := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		points = append(points, Point{
			X: p1.X + (p2.X-p1.X)*t,
			Y: p1.Y + (p2.Y-p1.Y)*t,
		})
	}
	return points
}

// BoundsOf returns the bounding rectangle of a point sequence.
// A single point yields a zero-size rectangle at that point.
func BoundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// NormalizedRect returns the rectangle spanned by two opposite corners,
// regardless of drag direction.
func NormalizedRect(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}
