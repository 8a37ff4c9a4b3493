package room

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/board/repository"
	"github.com/drawspace/drawspace-backend/internal/protocol"
)

// Registry is the authoritative bookkeeper of rooms: which boards have
// activity, which participants are connected to each, each participant's
// last known cursor, and the board's authoritative shape list.
//
// All message handling runs under one mutex, so handlers execute to
// completion before the next message is processed. Conflicts across
// participants resolve by last-writer-wins and upsert-by-id only; there is
// no causal ordering across senders.
type Registry struct {
	store repository.BoardStore
	hub   *Hub

	active map[string]*activity
	mu     sync.Mutex
}

// activity is the live record of a room with at least one participant. It is
// released when the room empties; the board document itself is retained in
// the store.
type activity struct {
	board *domain.Board
	dirty bool
}

// NewRegistry creates a registry over the given store and hub.
func NewRegistry(store repository.BoardStore, hub *Hub) *Registry {
	return &Registry{
		store:  store,
		hub:    hub,
		active: make(map[string]*activity),
	}
}

// HandleMessage processes one protocol message from a connected client.
func (r *Registry) HandleMessage(ctx context.Context, c *Client, msg *protocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg.Event {
	case protocol.EventJoin:
		r.handleJoin(ctx, c, msg)
	case protocol.EventLeave:
		r.leaveLocked(ctx, c)
	case protocol.EventDrawingStart, protocol.EventDrawingUpdate, protocol.EventDrawingEnd:
		// Pure relay for live preview; never merged into authoritative state.
		r.relayLocked(c, msg)
	case protocol.EventFullSync:
		r.handleFullSync(c, msg)
	case protocol.EventShapeAdded:
		r.handleShapeAdded(c, msg)
	case protocol.EventStrokeUpdate:
		r.handleStrokeUpdate(c, msg)
	case protocol.EventCursorMove:
		r.handleCursorMove(c, msg)
	case protocol.EventCanvasClear:
		r.handleCanvasClear(c, msg)
	case protocol.EventShapesErased:
		r.handleShapesErased(c, msg)
	default:
		c.Send(protocol.NewError("unknown event"))
	}
}

// Disconnect removes a dropped client from its room.
func (r *Registry) Disconnect(ctx context.Context, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(ctx, c)
}

func (r *Registry) handleJoin(ctx context.Context, c *Client, msg *protocol.Message) {
	if msg.BoardID == "" || msg.UserID == "" || msg.UserName == "" {
		c.Send(protocol.NewError("invalid data"))
		return
	}

	act, err := r.activityFor(ctx, msg.BoardID)
	if err != nil {
		c.Send(protocol.NewError("board not found"))
		return
	}

	// Joining a new room implicitly leaves the previous one.
	if c.BoardID != "" && c.BoardID != msg.BoardID {
		r.leaveLocked(ctx, c)
	}

	c.ID = msg.UserID
	c.Name = msg.UserName
	act.board.Collaborators[msg.UserID] = &domain.Collaborator{
		ID:       msg.UserID,
		Name:     msg.UserName,
		JoinedAt: time.Now(),
	}
	act.dirty = true
	r.hub.JoinRoom(c, msg.BoardID)

	c.Send(&protocol.Message{
		Event:         protocol.EventBoardState,
		BoardID:       act.board.ID,
		Shapes:        act.board.Shapes,
		Collaborators: act.board.CollaboratorList(),
	})
	r.hub.Broadcast(msg.BoardID, &protocol.Message{
		Event:         protocol.EventUserJoined,
		UserID:        msg.UserID,
		UserName:      msg.UserName,
		Collaborators: act.board.CollaboratorList(),
	}, c)
	log.Printf("[registry] %s (%s) joined board %s", msg.UserName, msg.UserID, msg.BoardID)
}

func (r *Registry) leaveLocked(ctx context.Context, c *Client) {
	boardID := c.BoardID
	if boardID == "" {
		return
	}

	act := r.active[boardID]
	r.hub.LeaveRoom(c)

	if act == nil {
		return
	}
	delete(act.board.Collaborators, c.ID)
	r.hub.Broadcast(boardID, &protocol.Message{
		Event:         protocol.EventUserLeft,
		UserID:        c.ID,
		UserName:      c.Name,
		Collaborators: act.board.CollaboratorList(),
	}, nil)
	log.Printf("[registry] %s left board %s", c.ID, boardID)

	if r.hub.RoomSize(boardID) == 0 {
		// Release the activity record; the board document is retained.
		r.persistLocked(ctx, act)
		delete(r.active, boardID)
		log.Printf("[registry] released empty room %s", boardID)
	}
}

func (r *Registry) handleFullSync(c *Client, msg *protocol.Message) {
	act := r.activeRoom(c)
	if act == nil {
		return
	}

	// Last-writer-wins: the authoritative list is replaced wholesale.
	shapes := msg.Shapes
	if shapes == nil {
		shapes = domain.ShapeList{}
	}
	act.board.Shapes = shapes
	act.board.LastModified = time.Now()
	act.dirty = true
	r.relayLocked(c, msg)
}

func (r *Registry) handleShapeAdded(c *Client, msg *protocol.Message) {
	act := r.activeRoom(c)
	if act == nil || msg.Shape == nil {
		return
	}

	// Mirrored into the authoritative copy so late joiners see it.
	if act.board.Shapes.IndexByID(msg.Shape.ShapeID()) < 0 {
		act.board.Shapes = append(act.board.Shapes, msg.Shape)
	}
	act.board.LastModified = time.Now()
	act.dirty = true
	r.relayLocked(c, msg)
}

func (r *Registry) handleStrokeUpdate(c *Client, msg *protocol.Message) {
	act := r.activeRoom(c)
	if act == nil || msg.StrokeID == "" {
		return
	}

	act.board.Shapes = domain.UpsertStrokePoints(act.board.Shapes, msg.StrokeID, msg.Points)
	act.dirty = true
	r.relayLocked(c, msg)
}

func (r *Registry) handleCursorMove(c *Client, msg *protocol.Message) {
	act := r.activeRoom(c)
	if act == nil {
		return
	}

	if col := act.board.Collaborators[c.ID]; col != nil {
		col.Cursor = msg.Cursor()
	}
	r.relayLocked(c, msg)
}

func (r *Registry) handleCanvasClear(c *Client, msg *protocol.Message) {
	act := r.activeRoom(c)
	if act == nil {
		return
	}

	act.board.Shapes = domain.ShapeList{}
	act.board.LastModified = time.Now()
	act.dirty = true
	r.relayLocked(c, msg)
}

func (r *Registry) handleShapesErased(c *Client, msg *protocol.Message) {
	act := r.activeRoom(c)
	if act == nil {
		return
	}

	// Same last-writer-wins discipline as a full sync: the resulting list
	// replaces the authoritative one.
	shapes := msg.Shapes
	if shapes == nil {
		shapes = domain.ShapeList{}
	}
	act.board.Shapes = shapes
	act.board.LastModified = time.Now()
	act.dirty = true
	r.relayLocked(c, msg)
}

// relayLocked rebroadcasts a message to the rest of the sender's room,
// tagged with the sender identity.
func (r *Registry) relayLocked(c *Client, msg *protocol.Message) {
	if c.BoardID == "" {
		return
	}
	out := *msg
	out.SenderID = c.ID
	out.SenderName = c.Name
	r.hub.Broadcast(c.BoardID, &out, c)
}

// activeRoom returns the live activity record for the client's room, or nil
// when the client has not joined one.
func (r *Registry) activeRoom(c *Client) *activity {
	if c.BoardID == "" {
		return nil
	}
	return r.active[c.BoardID]
}

// activityFor loads (or reuses) the live record for a board.
func (r *Registry) activityFor(ctx context.Context, boardID string) (*activity, error) {
	if act, ok := r.active[boardID]; ok {
		return act, nil
	}

	b, err := r.store.Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	// A reconnecting room starts with a clean collaborator map; transport
	// sessions define membership.
	b.Collaborators = make(map[string]*domain.Collaborator)
	act := &activity{board: b}
	r.active[boardID] = act
	return act, nil
}

// SweepExpiredLasers drops laser strokes past their expiration from every
// active board. Clients expire their own copies independently; no message
// is sent.
func (r *Registry) SweepExpiredLasers(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, act := range r.active {
		shapes, removed := domain.DropExpiredLasers(act.board.Shapes, now)
		if removed {
			act.board.Shapes = shapes
			act.dirty = true
			log.Printf("[registry] swept expired lasers from board %s", id)
		}
	}
}

// Flush persists every dirty active board to the store.
func (r *Registry) Flush(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, act := range r.active {
		if act.dirty {
			r.persistLocked(ctx, act)
		}
	}
}

func (r *Registry) persistLocked(ctx context.Context, act *activity) {
	if err := r.store.Save(ctx, act.board); err != nil {
		log.Printf("[registry] failed to persist board %s: %v", act.board.ID, err)
		return
	}
	act.dirty = false
}
