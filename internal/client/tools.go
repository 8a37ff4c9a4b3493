package client

import (
	"time"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/geometry"
)

// ToolOptions carries the styling the active tool applies to new shapes.
type ToolOptions struct {
	Color           string
	BackgroundColor string
	StrokeWidth     float64
	Opacity         float64
	FontSize        float64
	FontFamily      string
	LaserLifetime   time.Duration
}

// DefaultToolOptions is the styling used until the user picks otherwise.
func DefaultToolOptions() ToolOptions {
	return ToolOptions{
		Color:         "#000000",
		StrokeWidth:   2,
		Opacity:       1,
		FontSize:      16,
		FontFamily:    "sans-serif",
		LaserLifetime: 2 * time.Second,
	}
}

// BuildStroke creates a well-formed pen or laser stroke from captured
// points. Laser strokes get their expiration stamped here.
func BuildStroke(tool domain.ShapeType, points []geometry.Point, opts ToolOptions) *domain.Stroke {
	pts := make([]geometry.Point, len(points))
	copy(pts, points)

	s := &domain.Stroke{
		ID:          domain.NewShapeID(),
		Type:        tool,
		Points:      pts,
		Color:       opts.Color,
		StrokeWidth: opts.StrokeWidth,
		Opacity:     opts.Opacity,
	}
	if tool == domain.ShapeLaser {
		s.Expiration = time.Now().Add(opts.LaserLifetime).UnixMilli()
	}
	return s
}

// BuildPrimitive creates a two-corner primitive for the given tool.
func BuildPrimitive(tool domain.ShapeType, start, end geometry.Point, opts ToolOptions) *domain.Primitive {
	return &domain.Primitive{
		ID:              domain.NewShapeID(),
		Type:            tool,
		Start:           start,
		End:             end,
		Color:           opts.Color,
		BackgroundColor: opts.BackgroundColor,
		StrokeWidth:     opts.StrokeWidth,
		Opacity:         opts.Opacity,
	}
}

// BuildText creates a text shape anchored at p.
func BuildText(text string, p geometry.Point, opts ToolOptions) *domain.Text {
	return &domain.Text{
		ID:         domain.NewShapeID(),
		Type:       domain.ShapeText,
		Text:       text,
		X:          p.X,
		Y:          p.Y,
		Color:      opts.Color,
		FontSize:   opts.FontSize,
		FontFamily: opts.FontFamily,
	}
}

// BuildImage creates an image shape at p with the given size. Src stays an
// opaque reference.
func BuildImage(src string, p geometry.Point, width, height float64, opts ToolOptions) *domain.Image {
	return &domain.Image{
		ID:      domain.NewShapeID(),
		Type:    domain.ShapeImage,
		X:       p.X,
		Y:       p.Y,
		Width:   width,
		Height:  height,
		Src:     src,
		Opacity: opts.Opacity,
	}
}
