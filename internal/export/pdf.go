// Package export renders a board's shape list into a PDF document.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
)

// canvasScale maps canvas pixels to PDF millimeters.
const canvasScale = 0.25

// WritePDF renders the board's shapes in paint order onto a single A4 page.
func WritePDF(b *domain.Board, w io.Writer) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetFont("Helvetica", "", 12)
	p.SetTitle(fmt.Sprintf("Board %s", b.ID), false)

	for _, s := range b.Shapes {
		drawShape(p, s)
	}

	return p.Output(w)
}

func drawShape(p *gofpdf.Fpdf, s domain.Shape) {
	switch v := s.(type) {
	case *domain.Stroke:
		if v.Type == domain.ShapeLaser {
			// Ephemeral, never exported.
			return
		}
		setStroke(p, v.Color, v.StrokeWidth)
		for i := 1; i < len(v.Points); i++ {
			p.Line(
				v.Points[i-1].X*canvasScale, v.Points[i-1].Y*canvasScale,
				v.Points[i].X*canvasScale, v.Points[i].Y*canvasScale,
			)
		}

	case *domain.Primitive:
		setStroke(p, v.Color, v.StrokeWidth)
		style := "D"
		if v.BackgroundColor != "" {
			r, g, bl := parseHexColor(v.BackgroundColor)
			p.SetFillColor(r, g, bl)
			style = "FD"
		}
		box := domain.BoundingBox(v)
		x, y := box.X*canvasScale, box.Y*canvasScale
		wd, ht := box.Width*canvasScale, box.Height*canvasScale

		switch v.Type {
		case domain.ShapeLine, domain.ShapeArrow:
			p.Line(v.Start.X*canvasScale, v.Start.Y*canvasScale, v.End.X*canvasScale, v.End.Y*canvasScale)
		case domain.ShapeCircle:
			p.Ellipse(x+wd/2, y+ht/2, wd/2, ht/2, 0, style)
		case domain.ShapeDiamond:
			pts := []gofpdf.PointType{
				{X: x + wd/2, Y: y},
				{X: x + wd, Y: y + ht/2},
				{X: x + wd/2, Y: y + ht},
				{X: x, Y: y + ht/2},
			}
			p.Polygon(pts, style)
		default: // rectangle, square
			p.Rect(x, y, wd, ht, style)
		}

	case *domain.Text:
		r, g, bl := parseHexColor(v.Color)
		p.SetTextColor(r, g, bl)
		p.SetFontSize(v.FontSize * canvasScale * 2.83) // px -> pt at the canvas scale
		p.Text(v.X*canvasScale, v.Y*canvasScale, v.Text)

	case *domain.Image:
		// Src is an opaque reference; draw the placement frame only.
		setStroke(p, "#999999", 1)
		p.Rect(v.X*canvasScale, v.Y*canvasScale, v.Width*canvasScale, v.Height*canvasScale, "D")
	}
}

func setStroke(p *gofpdf.Fpdf, color string, width float64) {
	r, g, b := parseHexColor(color)
	p.SetDrawColor(r, g, b)
	p.SetLineWidth(width * canvasScale)
}

// parseHexColor decodes "#rrggbb" (or "#rgb"), defaulting to black.
func parseHexColor(s string) (int, int, int) {
	if len(s) == 4 && s[0] == '#' {
		s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
	}
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}
