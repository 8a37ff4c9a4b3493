package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistancePointToSegment(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	t.Run("projection falls inside the segment", func(t *testing.T) {
		assert.InDelta(t, 5.0, DistancePointToSegment(Point{X: 5, Y: 5}, a, b), 1e-9)
	})

	t.Run("projection clamps to an endpoint", func(t *testing.T) {
		assert.InDelta(t, 5.0, DistancePointToSegment(Point{X: 15, Y: 0}, a, b), 1e-9)
		assert.InDelta(t, 5.0, DistancePointToSegment(Point{X: -3, Y: 4}, a, b), 1e-9)
	})

	t.Run("degenerate zero-length segment", func(t *testing.T) {
		assert.InDelta(t, 5.0, DistancePointToSegment(Point{X: 3, Y: 4}, a, a), 1e-9)
	})

	t.Run("point on the segment", func(t *testing.T) {
		assert.InDelta(t, 0.0, DistancePointToSegment(Point{X: 7, Y: 0}, a, b), 1e-9)
	})
}

func TestInterpolate(t *testing.T) {
	t.Run("densifies a long jump", func(t *testing.T) {
		pts := Interpolate(Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, 2)
		assert.Len(t, pts, 5)
		assert.Equal(t, Point{X: 10, Y: 0}, pts[len(pts)-1])
		for i := 1; i < len(pts); i++ {
			assert.LessOrEqual(t, Distance(pts[i-1], pts[i]), 2.0+1e-9)
		}
	})

	t.Run("short jump yields just the target", func(t *testing.T) {
		pts := Interpolate(Point{X: 0, Y: 0}, Point{X: 1, Y: 0}, 5)
		assert.Equal(t, []Point{{X: 1, Y: 0}}, pts)
	})

	t.Run("non-positive spacing yields just the target", func(t *testing.T) {
		pts := Interpolate(Point{X: 0, Y: 0}, Point{X: 10, Y: 10}, 0)
		assert.Equal(t, []Point{{X: 10, Y: 10}}, pts)
	})
}

func TestBoundsOf(t *testing.T) {
	bounds := BoundsOf([]Point{{X: 3, Y: 8}, {X: -2, Y: 1}, {X: 5, Y: 4}})
	assert.Equal(t, Rect{X: -2, Y: 1, Width: 7, Height: 7}, bounds)

	assert.Equal(t, Rect{}, BoundsOf(nil))
	assert.Equal(t, Rect{X: 2, Y: 3}, BoundsOf([]Point{{X: 2, Y: 3}}))
}

func TestNormalizedRect(t *testing.T) {
	// Drag direction must not matter.
	r1 := NormalizedRect(Point{X: 10, Y: 10}, Point{X: 2, Y: 4})
	r2 := NormalizedRect(Point{X: 2, Y: 4}, Point{X: 10, Y: 10})
	assert.Equal(t, r1, r2)
	assert.Equal(t, Rect{X: 2, Y: 4, Width: 8, Height: 6}, r1)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(Point{X: 5, Y: 5}))
	assert.True(t, r.Contains(Point{X: 0, Y: 10}), "borders count")
	assert.False(t, r.Contains(Point{X: 10.1, Y: 5}))

	assert.True(t, r.ContainsRect(Rect{X: 1, Y: 1, Width: 3, Height: 3}))
	assert.False(t, r.ContainsRect(Rect{X: 8, Y: 8, Width: 5, Height: 5}))

	inflated := r.Inflate(2)
	assert.Equal(t, Rect{X: -2, Y: -2, Width: 14, Height: 14}, inflated)
}
