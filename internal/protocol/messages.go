// Package protocol defines the realtime message catalogue exchanged between
// a client and the room registry. Field names are the wire contract.
package protocol

import (
	"encoding/json"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/geometry"
)

// Event names. Client-to-server events up to EventShapesErased; the rest are
// emitted by the registry.
type Event string

const (
	EventJoin          Event = "join"
	EventLeave         Event = "leave"
	EventDrawingStart  Event = "drawing-start"
	EventDrawingUpdate Event = "drawing-update"
	EventDrawingEnd    Event = "drawing-end"
	EventFullSync      Event = "full-shapes-sync"
	EventShapeAdded    Event = "single-shape-added"
	EventStrokeUpdate  Event = "stroke-update"
	EventCursorMove    Event = "cursor-move"
	EventCanvasClear   Event = "canvas-clear"
	EventShapesErased  Event = "shapes-erased"

	EventBoardState Event = "board-state"
	EventUserJoined Event = "user-joined"
	EventUserLeft   Event = "user-left"
	EventError      Event = "error"
)

// Message is the JSON envelope for every protocol event. Only the fields
// relevant to the event are populated; the registry tags relays with the
// sender identity before fan-out.
type Message struct {
	Event Event `json:"event"`

	BoardID  string `json:"boardId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`

	// Live-preview geometry for drawing-start/update/end.
	Tool   domain.ShapeType `json:"tool,omitempty"`
	Start  *geometry.Point  `json:"start,omitempty"`
	End    *geometry.Point  `json:"end,omitempty"`
	Points []geometry.Point `json:"points,omitempty"`

	// Shape payloads.
	Shape          domain.Shape     `json:"shape,omitempty"`
	Shapes         domain.ShapeList `json:"shapes,omitempty"`
	StrokeID       string           `json:"strokeId,omitempty"`
	DeletedIndices []int            `json:"deletedIndices,omitempty"`

	// Cursor position for cursor-move.
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	// Room membership, attached to board-state and user-joined/left.
	Collaborators []*domain.Collaborator `json:"collaborators,omitempty"`

	// Relay tagging applied by the registry.
	SenderID   string `json:"senderId,omitempty"`
	SenderName string `json:"senderName,omitempty"`

	// Error text for the error event.
	Message string `json:"message,omitempty"`
}

// messageAlias defers the polymorphic shape field so the rest of the
// envelope decodes with the default rules.
type messageAlias struct {
	Event Event `json:"event"`

	BoardID  string `json:"boardId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`

	Tool   domain.ShapeType `json:"tool,omitempty"`
	Start  *geometry.Point  `json:"start,omitempty"`
	End    *geometry.Point  `json:"end,omitempty"`
	Points []geometry.Point `json:"points,omitempty"`

	Shape          json.RawMessage  `json:"shape,omitempty"`
	Shapes         domain.ShapeList `json:"shapes,omitempty"`
	StrokeID       string           `json:"strokeId,omitempty"`
	DeletedIndices []int            `json:"deletedIndices,omitempty"`

	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	Collaborators []*domain.Collaborator `json:"collaborators,omitempty"`

	SenderID   string `json:"senderId,omitempty"`
	SenderName string `json:"senderName,omitempty"`

	Message string `json:"message,omitempty"`
}

// UnmarshalJSON decodes the envelope, resolving the tagged shape payload.
func (m *Message) UnmarshalJSON(data []byte) error {
	var a messageAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	*m = Message{
		Event:          a.Event,
		BoardID:        a.BoardID,
		UserID:         a.UserID,
		UserName:       a.UserName,
		Tool:           a.Tool,
		Start:          a.Start,
		End:            a.End,
		Points:         a.Points,
		Shapes:         a.Shapes,
		StrokeID:       a.StrokeID,
		DeletedIndices: a.DeletedIndices,
		X:              a.X,
		Y:              a.Y,
		Collaborators:  a.Collaborators,
		SenderID:       a.SenderID,
		SenderName:     a.SenderName,
		Message:        a.Message,
	}

	if len(a.Shape) > 0 {
		shape, err := domain.UnmarshalShape(a.Shape)
		if err != nil {
			return err
		}
		m.Shape = shape
	}
	return nil
}

// Cursor returns the cursor payload of a cursor-move message.
func (m *Message) Cursor() geometry.Point {
	var p geometry.Point
	if m.X != nil {
		p.X = *m.X
	}
	if m.Y != nil {
		p.Y = *m.Y
	}
	return p
}

// NewCursorMove builds a cursor-move message.
func NewCursorMove(p geometry.Point) *Message {
	x, y := p.X, p.Y
	return &Message{Event: EventCursorMove, X: &x, Y: &y}
}

// NewError builds an error event for the initiating client.
func NewError(text string) *Message {
	return &Message{Event: EventError, Message: text}
}
