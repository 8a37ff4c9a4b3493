package domain

import (
	"encoding/json"
	"fmt"
)

// ShapeList is an ordered shape collection. Insertion order is paint order:
// later shapes paint over earlier ones.
type ShapeList []Shape

// UnmarshalShape decodes one shape from its JSON form, dispatching on the
// "type" tag.
func UnmarshalShape(data []byte) (Shape, error) {
	var tag struct {
		Type ShapeType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("failed to read shape type: %w", err)
	}

	switch {
	case tag.Type == ShapePen || tag.Type == ShapeLaser:
		var s Stroke
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode stroke: %w", err)
		}
		return &s, nil
	case IsPrimitiveType(tag.Type):
		var p Primitive
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode primitive: %w", err)
		}
		return &p, nil
	case tag.Type == ShapeText:
		var t Text
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to decode text: %w", err)
		}
		return &t, nil
	case tag.Type == ShapeImage:
		var i Image
		if err := json.Unmarshal(data, &i); err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return &i, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShapeType, tag.Type)
	}
}

// UnmarshalJSON decodes a JSON array of tagged shapes.
func (l *ShapeList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	shapes := make(ShapeList, 0, len(raw))
	for _, r := range raw {
		s, err := UnmarshalShape(r)
		if err != nil {
			return err
		}
		shapes = append(shapes, s)
	}
	*l = shapes
	return nil
}

// Clone deep-copies the list so a snapshot is unaffected by later edits.
func (l ShapeList) Clone() ShapeList {
	if l == nil {
		return nil
	}
	out := make(ShapeList, len(l))
	for i, s := range l {
		out[i] = s.Clone()
	}
	return out
}

// IndexByID returns the position of the shape with the given id, or -1.
func (l ShapeList) IndexByID(id string) int {
	for i, s := range l {
		if s.ShapeID() == id {
			return i
		}
	}
	return -1
}
