package room

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/drawspace/drawspace-backend/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from arbitrary origins; boards are
	// unauthenticated by design.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades websocket connections and feeds their messages to the
// registry.
type Handler struct {
	registry *Registry
}

// NewHandler creates a websocket handler over the registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws", h.Serve)
}

// Serve upgrades the connection and runs the client's read loop. The read
// loop is the client's single-threaded event source: each message is handled
// to completion before the next is read.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := NewClient(conn)
	go client.WritePump()
	defer func() {
		h.registry.Disconnect(c.Request.Context(), client)
		client.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] client %s read error: %v", client.ID, err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			client.Send(protocol.NewError("invalid data"))
			continue
		}
		h.registry.HandleMessage(c.Request.Context(), client, &msg)
	}
}
