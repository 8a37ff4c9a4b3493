package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/drawspace/drawspace-backend/internal/geometry"
)

// ShapeType tags the concrete variant of a shape. The tool name on the wire
// is the shape type.
type ShapeType string

const (
	ShapePen       ShapeType = "pen"
	ShapeLaser     ShapeType = "laser"
	ShapeRectangle ShapeType = "rectangle"
	ShapeSquare    ShapeType = "square"
	ShapeCircle    ShapeType = "circle"
	ShapeLine      ShapeType = "line"
	ShapeArrow     ShapeType = "arrow"
	ShapeDiamond   ShapeType = "diamond"
	ShapeText      ShapeType = "text"
	ShapeImage     ShapeType = "image"
)

// Shape is one drawable entity in a board's ordered collection. It is a
// closed sum: Stroke, Primitive, Text and Image are the only variants, and
// every consumer dispatches with an exhaustive type switch.
type Shape interface {
	ShapeID() string
	Kind() ShapeType
	Clone() Shape

	isShape()
}

// Stroke is a freehand shape ("pen") or an ephemeral laser trail ("laser").
// A laser stroke carries Expiration (unix milliseconds) and must be dropped
// by every holder once the wall clock passes it.
type Stroke struct {
	ID          string           `json:"id"`
	Type        ShapeType        `json:"type"`
	Points      []geometry.Point `json:"points"`
	Color       string           `json:"color"`
	StrokeWidth float64          `json:"strokeWidth"`
	Opacity     float64          `json:"opacity"`
	Expiration  int64            `json:"expiration,omitempty"`
}

// Primitive is a two-corner shape: rectangle, square, circle, line, arrow
// or diamond. BackgroundColor is empty when the shape has no fill.
type Primitive struct {
	ID              string         `json:"id"`
	Type            ShapeType      `json:"type"`
	Start           geometry.Point `json:"start"`
	End             geometry.Point `json:"end"`
	Color           string         `json:"color"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	StrokeWidth     float64        `json:"strokeWidth"`
	Opacity         float64        `json:"opacity"`
}

// Text is a text label anchored at (X, Y).
type Text struct {
	ID         string    `json:"id"`
	Type       ShapeType `json:"type"`
	Text       string    `json:"text"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Color      string    `json:"color"`
	FontSize   float64   `json:"fontSize"`
	FontFamily string    `json:"fontFamily"`
}

// Image is a placed image. Src is an opaque reference (data URI or blob
// handle); the core never dereferences it.
type Image struct {
	ID      string    `json:"id"`
	Type    ShapeType `json:"type"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Src     string    `json:"src"`
	Opacity float64   `json:"opacity"`
}

func (s *Stroke) ShapeID() string    { return s.ID }
func (p *Primitive) ShapeID() string { return p.ID }
func (t *Text) ShapeID() string      { return t.ID }
func (i *Image) ShapeID() string     { return i.ID }

func (s *Stroke) Kind() ShapeType    { return s.Type }
func (p *Primitive) Kind() ShapeType { return p.Type }
func (t *Text) Kind() ShapeType      { return ShapeText }
func (i *Image) Kind() ShapeType     { return ShapeImage }

func (s *Stroke) Clone() Shape {
	c := *s
	c.Points = make([]geometry.Point, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

func (p *Primitive) Clone() Shape {
	c := *p
	return &c
}

func (t *Text) Clone() Shape {
	c := *t
	return &c
}

func (i *Image) Clone() Shape {
	c := *i
	return &c
}

func (*Stroke) isShape()    {}
func (*Primitive) isShape() {}
func (*Text) isShape()      {}
func (*Image) isShape()     {}

// Expired reports whether a laser stroke's lifetime has passed. Pen strokes
// never expire.
func (s *Stroke) Expired(now time.Time) bool {
	return s.Type == ShapeLaser && s.Expiration > 0 && now.UnixMilli() > s.Expiration
}

// NewShapeID returns a fresh shape identifier, unique within a board.
func NewShapeID() string {
	return uuid.NewString()
}

// IsPrimitiveType reports whether t names one of the two-corner primitives.
func IsPrimitiveType(t ShapeType) bool {
	switch t {
	case ShapeRectangle, ShapeSquare, ShapeCircle, ShapeLine, ShapeArrow, ShapeDiamond:
		return true
	}
	return false
}
