package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/drawspace/drawspace-backend/internal/geometry"
)

func penStroke(id string, width float64, pts ...geometry.Point) *Stroke {
	return &Stroke{ID: id, Type: ShapePen, Points: pts, Color: "#000000", StrokeWidth: width, Opacity: 1}
}

func TestBoundingBox(t *testing.T) {
	t.Run("stroke", func(t *testing.T) {
		s := penStroke("s1", 2, geometry.Point{X: 1, Y: 9}, geometry.Point{X: 4, Y: 2})
		assert.Equal(t, geometry.Rect{X: 1, Y: 2, Width: 3, Height: 7}, BoundingBox(s))
	})

	t.Run("primitive normalizes corners", func(t *testing.T) {
		p := &Primitive{ID: "p1", Type: ShapeRectangle, Start: geometry.Point{X: 10, Y: 10}, End: geometry.Point{X: 2, Y: 6}}
		assert.Equal(t, geometry.Rect{X: 2, Y: 6, Width: 8, Height: 4}, BoundingBox(p))
	})

	t.Run("square grows sign-directed from start", func(t *testing.T) {
		p := &Primitive{ID: "p2", Type: ShapeSquare, Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 4, Y: -10}}
		box := BoundingBox(p)
		assert.Equal(t, geometry.Rect{X: 0, Y: -10, Width: 10, Height: 10}, box)
	})

	t.Run("text uses font metrics heuristic", func(t *testing.T) {
		txt := &Text{ID: "t1", Type: ShapeText, Text: "hi", X: 100, Y: 100, FontSize: 10}
		box := BoundingBox(txt)
		assert.Equal(t, 100.0, box.X)
		assert.InDelta(t, 2*10*0.6, box.Width, 1e-9)
		assert.InDelta(t, 12.0, box.Height, 1e-9)
	})

	t.Run("image is explicit", func(t *testing.T) {
		img := &Image{ID: "i1", Type: ShapeImage, X: 5, Y: 6, Width: 20, Height: 30}
		assert.Equal(t, geometry.Rect{X: 5, Y: 6, Width: 20, Height: 30}, BoundingBox(img))
	})
}

func TestIntersectsPath(t *testing.T) {
	path := []geometry.Point{{X: 0, Y: 5}, {X: 5, Y: 5}, {X: 10, Y: 5}}

	t.Run("stroke segment near path point", func(t *testing.T) {
		s := penStroke("s1", 2, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 10})
		assert.True(t, IntersectsPath(s, path, 3))
		assert.False(t, IntersectsPath(s, []geometry.Point{{X: 50, Y: 50}}, 3))
	})

	t.Run("single-point stroke", func(t *testing.T) {
		s := penStroke("s2", 2, geometry.Point{X: 5, Y: 7})
		assert.True(t, IntersectsPath(s, path, 3))
	})

	t.Run("line uses segment distance", func(t *testing.T) {
		l := &Primitive{ID: "l1", Type: ShapeLine, Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 10, Y: 0}, StrokeWidth: 2}
		assert.True(t, IntersectsPath(l, []geometry.Point{{X: 5, Y: 4}}, 4))
		assert.False(t, IntersectsPath(l, []geometry.Point{{X: 5, Y: 8}}, 4))
	})

	t.Run("circle uses distance to center", func(t *testing.T) {
		c := &Primitive{ID: "c1", Type: ShapeCircle, Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 10, Y: 0}}
		// Center (5,0), radius 5.
		assert.True(t, IntersectsPath(c, []geometry.Point{{X: 5, Y: 4}}, 0))
		assert.False(t, IntersectsPath(c, []geometry.Point{{X: 5, Y: 6}}, 0))
		assert.True(t, IntersectsPath(c, []geometry.Point{{X: 5, Y: 6}}, 2))
	})

	t.Run("diamond uses taxicab containment", func(t *testing.T) {
		d := &Primitive{ID: "d1", Type: ShapeDiamond, Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 10, Y: 10}}
		assert.True(t, IntersectsPath(d, []geometry.Point{{X: 5, Y: 5}}, 0))
		// Bounding-box corner is outside the diamond.
		assert.False(t, IntersectsPath(d, []geometry.Point{{X: 0.5, Y: 0.5}}, 0))
	})

	t.Run("text and image use bounding-box containment", func(t *testing.T) {
		txt := &Text{ID: "t1", Type: ShapeText, Text: "hello", X: 0, Y: 0, FontSize: 10}
		assert.True(t, IntersectsPath(txt, []geometry.Point{{X: 5, Y: 5}}, 0))
		assert.False(t, IntersectsPath(txt, []geometry.Point{{X: 100, Y: 100}}, 0))

		img := &Image{ID: "i1", Type: ShapeImage, X: 0, Y: 0, Width: 10, Height: 10}
		assert.True(t, IntersectsPath(img, []geometry.Point{{X: 3, Y: 3}}, 0))
	})

	t.Run("empty path never intersects", func(t *testing.T) {
		s := penStroke("s3", 2, geometry.Point{X: 0, Y: 0})
		assert.False(t, IntersectsPath(s, nil, 10))
	})
}

// Shuffling non-adjacent path points that keep the same locus must not
// change the intersecting set for segment-tested shapes.
func TestIntersectsPathOrderIndependent(t *testing.T) {
	path := make([]geometry.Point, 0, 21)
	for i := 0; i <= 20; i++ {
		path = append(path, geometry.Point{X: float64(i), Y: 5})
	}

	shapes := ShapeList{
		penStroke("near", 2, geometry.Point{X: 3, Y: 3}, geometry.Point{X: 7, Y: 3}),
		penStroke("far", 2, geometry.Point{X: 0, Y: 50}, geometry.Point{X: 10, Y: 50}),
		&Primitive{ID: "line", Type: ShapeLine, Start: geometry.Point{X: 15, Y: 0}, End: geometry.Point{X: 15, Y: 10}, StrokeWidth: 1},
	}

	hits := func(p []geometry.Point) map[string]bool {
		out := make(map[string]bool)
		for _, s := range shapes {
			if IntersectsPath(s, p, 3) {
				out[s.ShapeID()] = true
			}
		}
		return out
	}

	want := hits(path)
	assert.True(t, want["near"])
	assert.True(t, want["line"])
	assert.False(t, want["far"])

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]geometry.Point, len(path))
		copy(shuffled, path)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, hits(shuffled))
	}
}

func TestPointInShape(t *testing.T) {
	shapes := ShapeList{
		&Primitive{ID: "rect", Type: ShapeRectangle, Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 10, Y: 10}},
		&Text{ID: "text", Type: ShapeText, Text: "hi", X: 100, Y: 100, FontSize: 12},
	}

	assert.True(t, PointInShape(geometry.Point{X: 5, Y: 5}, shapes[0]))
	assert.False(t, PointInShape(geometry.Point{X: 5, Y: 5}, shapes[1]))
	assert.True(t, PointInShape(geometry.Point{X: 105, Y: 105}, shapes[1]))
}

func TestDropExpiredLasers(t *testing.T) {
	now := time.Now()
	laserLive := &Stroke{ID: "live", Type: ShapeLaser, Expiration: now.Add(time.Minute).UnixMilli()}
	laserDead := &Stroke{ID: "dead", Type: ShapeLaser, Expiration: now.Add(-time.Second).UnixMilli()}
	pen := penStroke("pen", 2, geometry.Point{X: 0, Y: 0})

	shapes, removed := DropExpiredLasers(ShapeList{laserLive, laserDead, pen}, now)
	assert.True(t, removed)
	assert.Equal(t, -1, shapes.IndexByID("dead"))
	assert.GreaterOrEqual(t, shapes.IndexByID("live"), 0)
	assert.GreaterOrEqual(t, shapes.IndexByID("pen"), 0)

	same, removed := DropExpiredLasers(shapes, now)
	assert.False(t, removed)
	assert.Len(t, same, 2)
}

func TestUpsertStrokePoints(t *testing.T) {
	shapes := ShapeList{penStroke("a", 2, geometry.Point{X: 0, Y: 0})}

	grown := []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	shapes = UpsertStrokePoints(shapes, "a", grown)
	shapes = UpsertStrokePoints(shapes, "a", append(grown, geometry.Point{X: 2, Y: 2}))

	// Applying twice with the same id yields exactly one shape with the
	// latest point list, never two.
	assert.Len(t, shapes, 1)
	assert.Len(t, shapes[0].(*Stroke).Points, 3)

	shapes = UpsertStrokePoints(shapes, "b", grown)
	assert.Len(t, shapes, 2)
	assert.Equal(t, 1, shapes.IndexByID("b"))
}
