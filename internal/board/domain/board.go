package domain

import (
	"time"

	"github.com/drawspace/drawspace-backend/internal/geometry"
)

// Board is one shared canvas session. The room registry owns the
// authoritative record; every connected client works on a copy reconciled
// through the sync protocol.
type Board struct {
	ID                string                   `json:"id"`
	HostParticipantID string                   `json:"hostParticipantId"`
	HostName          string                   `json:"hostName"`
	Shapes            ShapeList                `json:"shapes"`
	CreatedAt         time.Time                `json:"createdAt"`
	LastModified      time.Time                `json:"lastModified"`
	Collaborators     map[string]*Collaborator `json:"collaborators"`
}

// Collaborator is a participant currently connected to a board's room.
// The transport session handle lives in the hub, not here.
type Collaborator struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	JoinedAt time.Time      `json:"joinedAt"`
	Cursor   geometry.Point `json:"cursor"`
}

// NewBoard creates an empty board owned by the given host.
func NewBoard(hostID, hostName string) *Board {
	now := time.Now()
	return &Board{
		ID:                NewShapeID(),
		HostParticipantID: hostID,
		HostName:          hostName,
		Shapes:            ShapeList{},
		CreatedAt:         now,
		LastModified:      now,
		Collaborators:     make(map[string]*Collaborator),
	}
}

// Clone deep-copies the board record, so stored and live copies never alias.
func (b *Board) Clone() *Board {
	c := *b
	c.Shapes = b.Shapes.Clone()
	c.Collaborators = make(map[string]*Collaborator, len(b.Collaborators))
	for id, col := range b.Collaborators {
		copied := *col
		c.Collaborators[id] = &copied
	}
	return &c
}

// CollaboratorList returns the collaborators as a slice, for broadcast
// payloads.
func (b *Board) CollaboratorList() []*Collaborator {
	out := make([]*Collaborator, 0, len(b.Collaborators))
	for _, c := range b.Collaborators {
		out = append(out, c)
	}
	return out
}

// DropExpiredLasers removes laser strokes whose lifetime has passed and
// reports whether anything was removed. Holders call this locally; no
// protocol message is involved.
func DropExpiredLasers(shapes ShapeList, now time.Time) (ShapeList, bool) {
	kept := shapes[:0]
	removed := false
	for _, s := range shapes {
		if stroke, ok := s.(*Stroke); ok && stroke.Expired(now) {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return shapes, false
	}
	return kept, true
}

// UpsertStrokePoints applies a per-stroke incremental update: if a shape
// with the id exists its point list is replaced in place (preserving paint
// order), otherwise a new pen stroke is appended. Applying the same update
// twice never yields two shapes.
func UpsertStrokePoints(shapes ShapeList, strokeID string, points []geometry.Point) ShapeList {
	pts := make([]geometry.Point, len(points))
	copy(pts, points)

	if i := shapes.IndexByID(strokeID); i >= 0 {
		if stroke, ok := shapes[i].(*Stroke); ok {
			stroke.Points = pts
		}
		return shapes
	}

	return append(shapes, &Stroke{
		ID:          strokeID,
		Type:        ShapePen,
		Points:      pts,
		Color:       defaultStrokeColor,
		StrokeWidth: defaultStrokeWidth,
		Opacity:     1,
	})
}

const (
	defaultStrokeColor = "#000000"
	defaultStrokeWidth = 2
)
