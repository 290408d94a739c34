package server

import (
	"encoding/json"
	"log"

	"tarot-game/internal/protocol"

	"github.com/gorilla/websocket"
)

// Client is one WebSocket connection. It starts out idle and becomes a
// watcher once it creates or joins a table; it watches at most one.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ID   string // Unique identifier for the client
	Name string // Name shown to the table's other watchers, guarded by hub.clientMu
}

// ReadPump forwards table requests from the connection to the hub and
// unregisters the watcher when the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error from client %s (%s): %v", c.ID, c.conn.RemoteAddr(), err)
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Printf("Error unmarshalling message from client %s: %v", c.ID, err)
			continue
		}

		if msg.Type != protocol.TypePing {
			log.Printf("Received message type '%s' from client %s (%s)", msg.Type, c.ID, c.hub.clientName(c))
		}
		c.hub.processMessage <- clientMessage{client: c, message: msg}
	}
}

// WritePump delivers table events queued by the hub until the hub closes
// the send channel.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Write error to client %s (%s): %v", c.ID, c.hub.clientName(c), err)
			break
		}
	}
}
