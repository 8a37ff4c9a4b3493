package room

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/drawspace/drawspace-backend/internal/protocol"
)

const clientSendBuffer = 256

// Client is one connected participant's transport session. ID and Name are
// set when the participant joins a room; BoardID tracks the room it is in.
type Client struct {
	ID      string
	Name    string
	BoardID string

	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewClient wraps an accepted websocket connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
}

// Send queues an encoded message for delivery. Messages are dropped when the
// client's buffer is full; broadcasts are fire-and-forget.
func (c *Client) Send(msg *protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[hub] failed to marshal message for %s: %v", c.ID, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[hub] dropping message to slow client %s", c.ID)
	}
}

// Close shuts the client's send loop and connection down exactly once.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// WritePump drains the send queue onto the websocket. Run it in its own
// goroutine; it exits when Close is called or a write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[hub] failed to send to client %s: %v", c.ID, err)
			return
		}
	}
}

// Hub tracks which transport sessions belong to which room and fans
// messages out to them.
type Hub struct {
	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// JoinRoom moves a client into a room, leaving any previous one.
func (h *Hub) JoinRoom(c *Client, boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
	if h.rooms[boardID] == nil {
		h.rooms[boardID] = make(map[*Client]bool)
	}
	h.rooms[boardID][c] = true
	c.BoardID = boardID
	log.Printf("[hub] client %s joined room %s", c.ID, boardID)
}

// LeaveRoom removes a client from its current room.
func (h *Hub) LeaveRoom(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if c.BoardID == "" {
		return
	}
	if members := h.rooms[c.BoardID]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.BoardID)
		}
	}
	c.BoardID = ""
}

// Broadcast sends a message to every client in the room except exclude
// (pass nil to reach everyone).
func (h *Hub) Broadcast(boardID string, msg *protocol.Message, exclude *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[boardID] {
		if c != exclude {
			c.Send(msg)
		}
	}
}

// RoomSize returns the number of clients in a room.
func (h *Hub) RoomSize(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[boardID])
}

// CloseAll closes every connected client, for shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, members := range h.rooms {
		for c := range members {
			c.Close()
		}
	}
	h.rooms = make(map[string]map[*Client]bool)
}
