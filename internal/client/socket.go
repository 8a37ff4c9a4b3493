package client

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/drawspace/drawspace-backend/internal/protocol"
)

// Socket is a websocket connection to the room registry. It implements
// Sender for a Session and pumps received messages into it.
type Socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial connects to a registry websocket endpoint (ws://host/ws).
func Dial(url string) (*Socket, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &Socket{conn: conn}, nil
}

// Send writes one message. Safe for concurrent use.
func (s *Socket) Send(msg *protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Receive blocks for the next message from the registry.
func (s *Socket) Receive() (*protocol.Message, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &msg, nil
}

// Pump reads messages until the connection drops, applying each to the
// session. Run it in its own goroutine.
func (s *Socket) Pump(sess *Session) error {
	for {
		msg, err := s.Receive()
		if err != nil {
			return err
		}
		sess.Apply(msg)
	}
}

// Close shuts the connection down.
func (s *Socket) Close() error {
	return s.conn.Close()
}
