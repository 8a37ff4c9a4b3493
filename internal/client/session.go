// Package client implements the editing side of the sync protocol: a local
// working copy of the shape list, the selection and eraser engines over it,
// undo/redo history, and the throttled message stream to the room registry.
package client

import (
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/geometry"
	"github.com/drawspace/drawspace-backend/internal/history"
	"github.com/drawspace/drawspace-backend/internal/protocol"
)

const (
	// Sender-side throttles bounding room fan-out cost.
	cursorSendRate = 20 // per second
	strokeSendRate = 60 // per second

	// A remote cursor disappears when no newer update arrives within this.
	remoteCursorTTL = 2 * time.Second
)

// Sender delivers protocol messages to the registry. Sends are
// fire-and-forget: no acknowledgement is awaited.
type Sender interface {
	Send(msg *protocol.Message) error
}

// RemoteCursor is another participant's last known pointer position.
type RemoteCursor struct {
	UserID string
	Point  geometry.Point
	seen   time.Time
}

// RemotePreview is another participant's in-progress drawing, relayed via
// drawing-start/update/end for live preview only.
type RemotePreview struct {
	UserID string
	Tool   domain.ShapeType
	Start  *geometry.Point
	End    *geometry.Point
	Points []geometry.Point
}

// RenderState is the read-only snapshot handed to the renderer each redraw
// tick. The renderer never mutates it.
type RenderState struct {
	Shapes        domain.ShapeList
	Selected      []int
	ErasePreview  []int
	Cursors       []RemoteCursor
	Previews      []RemotePreview
	Collaborators []*domain.Collaborator
}

// Session is one participant's editing session on a board. All entry points
// run under a single mutex, so handlers execute to completion before the
// next event is processed, mirroring the registry's discipline.
type Session struct {
	userID   string
	userName string
	boardID  string
	sender   Sender

	shapes    domain.ShapeList
	hist      *history.Stack
	Selection *Selection
	Eraser    *Eraser
	tools     ToolOptions

	collaborators []*domain.Collaborator
	cursors       map[string]RemoteCursor
	previews      map[string]RemotePreview
	laserTimers   map[string]*time.Timer

	cursorLimiter *rate.Limiter
	strokeLimiter *rate.Limiter

	mu sync.Mutex
}

// NewSession creates an editing session for a participant.
func NewSession(userID, userName string, sender Sender) *Session {
	return &Session{
		userID:        userID,
		userName:      userName,
		sender:        sender,
		shapes:        domain.ShapeList{},
		hist:          history.New(),
		Selection:     NewSelection(),
		Eraser:        NewEraser(),
		tools:         DefaultToolOptions(),
		cursors:       make(map[string]RemoteCursor),
		previews:      make(map[string]RemotePreview),
		laserTimers:   make(map[string]*time.Timer),
		cursorLimiter: rate.NewLimiter(rate.Limit(cursorSendRate), 1),
		strokeLimiter: rate.NewLimiter(rate.Limit(strokeSendRate), 1),
	}
}

// SetToolOptions replaces the styling applied to new shapes.
func (s *Session) SetToolOptions(opts ToolOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = opts
}

// Join asks the registry to place this session in a board's room. The
// authoritative state arrives in the board-state reply.
func (s *Session) Join(boardID string) {
	s.mu.Lock()
	s.boardID = boardID
	s.mu.Unlock()
	s.send(&protocol.Message{
		Event:    protocol.EventJoin,
		BoardID:  boardID,
		UserID:   s.userID,
		UserName: s.userName,
	})
}

// Leave exits the current room.
func (s *Session) Leave() {
	s.send(&protocol.Message{Event: protocol.EventLeave})
	s.mu.Lock()
	s.boardID = ""
	s.mu.Unlock()
}

// --- local edits -----------------------------------------------------------

// AddShape commits a finished shape locally and announces it to the room.
func (s *Session) AddShape(shape domain.Shape) {
	s.mu.Lock()
	s.hist.Save(s.shapes)
	s.shapes = append(s.shapes, shape)
	if stroke, ok := shape.(*domain.Stroke); ok && stroke.Type == domain.ShapeLaser {
		s.scheduleLaserLocked(stroke)
	}
	s.mu.Unlock()

	s.send(&protocol.Message{Event: protocol.EventShapeAdded, Shape: shape})
}

// BeginStroke starts a multi-frame stroke: the styled one-point stroke is
// committed and announced up front, then StrokeFrame grows it by id so peers
// upsert the point list in place.
func (s *Session) BeginStroke(tool domain.ShapeType, first geometry.Point) string {
	s.mu.Lock()
	stroke := BuildStroke(tool, []geometry.Point{first}, s.tools)
	s.mu.Unlock()
	s.AddShape(stroke)
	return stroke.ID
}

// StrokeFrame applies one frame of a growing pen stroke: the local copy is
// upserted by id, and the update is relayed subject to the stroke throttle.
// Dropped frames are healed by the next one or by EndStroke.
func (s *Session) StrokeFrame(strokeID string, points []geometry.Point) {
	s.mu.Lock()
	s.shapes = domain.UpsertStrokePoints(s.shapes, strokeID, points)
	s.mu.Unlock()

	if s.strokeLimiter.Allow() {
		s.send(&protocol.Message{Event: protocol.EventStrokeUpdate, StrokeID: strokeID, Points: points})
	}
}

// EndStroke sends the final, unthrottled frame of a stroke.
func (s *Session) EndStroke(strokeID string) {
	s.mu.Lock()
	var points []geometry.Point
	if i := s.shapes.IndexByID(strokeID); i >= 0 {
		if stroke, ok := s.shapes[i].(*domain.Stroke); ok {
			points = stroke.Points
		}
	}
	s.mu.Unlock()

	if points != nil {
		s.send(&protocol.Message{Event: protocol.EventStrokeUpdate, StrokeID: strokeID, Points: points})
	}
}

// MoveCursor publishes the local pointer position, throttled.
func (s *Session) MoveCursor(p geometry.Point) {
	if s.cursorLimiter.Allow() {
		s.send(protocol.NewCursorMove(p))
	}
}

// ClearCanvas wipes the board for everyone.
func (s *Session) ClearCanvas() {
	s.mu.Lock()
	s.hist.Save(s.shapes)
	s.shapes = domain.ShapeList{}
	s.cancelAllLasersLocked()
	s.mu.Unlock()

	s.send(&protocol.Message{Event: protocol.EventCanvasClear})
}

// EraseEnd commits the current erase gesture: the history snapshot is pushed
// before removal, marked shapes go in one step, and the erasure is
// broadcast with the resulting list.
func (s *Session) EraseEnd() {
	s.mu.Lock()
	deleted, result := s.Eraser.End(s.shapes)
	if len(deleted) == 0 {
		s.mu.Unlock()
		return
	}
	s.hist.Save(s.shapes)
	s.shapes = result
	s.resyncLaserTimersLocked()
	resulting := s.shapes
	s.mu.Unlock()

	s.send(&protocol.Message{
		Event:          protocol.EventShapesErased,
		DeletedIndices: deleted,
		Shapes:         resulting,
	})
}

// DrawingPreview relays in-progress tool geometry for live preview on peers.
func (s *Session) DrawingPreview(event protocol.Event, tool domain.ShapeType, start, end *geometry.Point, points []geometry.Point) {
	s.send(&protocol.Message{Event: event, Tool: tool, Start: start, End: end, Points: points})
}

// Undo reverts the last local mutation and publishes the restored state.
func (s *Session) Undo() bool {
	s.mu.Lock()
	restored, ok := s.hist.Undo(s.shapes)
	if ok {
		s.shapes = restored
		s.resyncLaserTimersLocked()
	}
	shapes := s.shapes
	s.mu.Unlock()

	if ok {
		s.send(&protocol.Message{Event: protocol.EventFullSync, Shapes: shapes})
	}
	return ok
}

// Redo reapplies the last undone mutation and publishes the restored state.
func (s *Session) Redo() bool {
	s.mu.Lock()
	restored, ok := s.hist.Redo(s.shapes)
	if ok {
		s.shapes = restored
		s.resyncLaserTimersLocked()
	}
	shapes := s.shapes
	s.mu.Unlock()

	if ok {
		s.send(&protocol.Message{Event: protocol.EventFullSync, Shapes: shapes})
	}
	return ok
}

// SyncAll publishes the full local shape list (last-writer-wins on peers).
func (s *Session) SyncAll() {
	s.mu.Lock()
	shapes := s.shapes
	s.mu.Unlock()
	s.send(&protocol.Message{Event: protocol.EventFullSync, Shapes: shapes})
}

// --- remote merge ----------------------------------------------------------

// Apply merges one message from the registry into the local working copy.
// Remote edits never touch the history stacks: an undo after a remote edit
// can revert a collaborator's work from this client's perspective, a known
// limitation of local-only history.
func (s *Session) Apply(msg *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Event {
	case protocol.EventBoardState:
		s.shapes = msg.Shapes
		if s.shapes == nil {
			s.shapes = domain.ShapeList{}
		}
		s.collaborators = msg.Collaborators
		s.resyncLaserTimersLocked()

	case protocol.EventUserJoined, protocol.EventUserLeft:
		s.collaborators = msg.Collaborators
		if msg.Event == protocol.EventUserLeft {
			delete(s.cursors, msg.UserID)
			delete(s.previews, msg.UserID)
		}

	case protocol.EventFullSync, protocol.EventShapesErased:
		// Last full snapshot wins, whichever peer sent it.
		s.shapes = msg.Shapes
		if s.shapes == nil {
			s.shapes = domain.ShapeList{}
		}
		s.resyncLaserTimersLocked()

	case protocol.EventShapeAdded:
		if msg.Shape == nil {
			return
		}
		// Upsert by id: a duplicate announcement replaces, never doubles.
		if i := s.shapes.IndexByID(msg.Shape.ShapeID()); i >= 0 {
			s.shapes[i] = msg.Shape
		} else {
			s.shapes = append(s.shapes, msg.Shape)
		}
		if stroke, ok := msg.Shape.(*domain.Stroke); ok && stroke.Type == domain.ShapeLaser {
			s.scheduleLaserLocked(stroke)
		}

	case protocol.EventStrokeUpdate:
		s.shapes = domain.UpsertStrokePoints(s.shapes, msg.StrokeID, msg.Points)

	case protocol.EventCursorMove:
		s.cursors[msg.SenderID] = RemoteCursor{
			UserID: msg.SenderID,
			Point:  msg.Cursor(),
			seen:   time.Now(),
		}

	case protocol.EventCanvasClear:
		s.shapes = domain.ShapeList{}
		s.cancelAllLasersLocked()

	case protocol.EventDrawingStart, protocol.EventDrawingUpdate:
		s.previews[msg.SenderID] = RemotePreview{
			UserID: msg.SenderID,
			Tool:   msg.Tool,
			Start:  msg.Start,
			End:    msg.End,
			Points: msg.Points,
		}

	case protocol.EventDrawingEnd:
		delete(s.previews, msg.SenderID)

	case protocol.EventError:
		log.Printf("[session] server error: %s", msg.Message)
	}
}

// ExpireCursors drops remote cursors that have gone quiet past the TTL.
// Call it from the redraw tick.
func (s *Session) ExpireCursors(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cur := range s.cursors {
		if now.Sub(cur.seen) > remoteCursorTTL {
			delete(s.cursors, id)
		}
	}
}

// --- laser lifetime --------------------------------------------------------

// scheduleLaserLocked arms a cancellable deletion timer keyed by shape id.
// The timer is cancelled when the shape is removed early, so a reused id
// can never be deleted by a stale timer.
func (s *Session) scheduleLaserLocked(stroke *domain.Stroke) {
	if stroke.Expiration <= 0 {
		return
	}
	if t, ok := s.laserTimers[stroke.ID]; ok {
		t.Stop()
	}

	id := stroke.ID
	delay := time.Until(time.UnixMilli(stroke.Expiration))
	if delay < 0 {
		delay = 0
	}
	s.laserTimers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.laserTimers, id)
		if i := s.shapes.IndexByID(id); i >= 0 {
			s.shapes = append(s.shapes[:i:i], s.shapes[i+1:]...)
		}
	})
}

func (s *Session) cancelAllLasersLocked() {
	for id, t := range s.laserTimers {
		t.Stop()
		delete(s.laserTimers, id)
	}
}

// resyncLaserTimersLocked re-arms timers after a wholesale replace: timers
// for vanished lasers are cancelled, present lasers get fresh ones.
func (s *Session) resyncLaserTimersLocked() {
	s.cancelAllLasersLocked()
	for _, shape := range s.shapes {
		if stroke, ok := shape.(*domain.Stroke); ok && stroke.Type == domain.ShapeLaser {
			s.scheduleLaserLocked(stroke)
		}
	}
}

// --- renderer boundary -----------------------------------------------------

// Shapes returns the current working copy.
func (s *Session) Shapes() domain.ShapeList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shapes
}

// Render snapshots everything the renderer needs for one redraw tick.
func (s *Session) Render() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursors := make([]RemoteCursor, 0, len(s.cursors))
	for _, c := range s.cursors {
		cursors = append(cursors, c)
	}
	previews := make([]RemotePreview, 0, len(s.previews))
	for _, p := range s.previews {
		previews = append(previews, p)
	}

	return RenderState{
		Shapes:        s.shapes,
		Selected:      s.Selection.Indices(),
		ErasePreview:  s.Eraser.Marked(),
		Cursors:       cursors,
		Previews:      previews,
		Collaborators: s.collaborators,
	}
}

func (s *Session) send(msg *protocol.Message) {
	if s.sender == nil {
		return
	}
	if err := s.sender.Send(msg); err != nil {
		// Message lost; the next full sync from any participant heals it.
		log.Printf("[session] send failed: %v", err)
	}
}
