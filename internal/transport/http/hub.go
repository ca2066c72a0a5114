package http

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// envelope is the outbound wire frame: an event name plus its payload.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client is one live websocket connection. Writes go through the send
// channel so only the write pump touches the connection.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub tracks live connections by id. It knows nothing about rooms; the
// gateway resolves membership and fans out here.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[connID]; ok {
		close(c.send)
		delete(h.clients, connID)
	}
}

// sendTo queues a frame for one connection. Non-blocking: a slow client
// drops frames rather than stalling a settlement broadcast. The read lock
// is held across the send; unregister closes the channel under the write
// lock, so a send can never hit a closed channel.
func (h *Hub) sendTo(connID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// RosterResolver maps a room id to its member connection ids.
type RosterResolver interface {
	Connections(roomID string) []string
}

// Gateway implements app.Broadcaster on top of the hub.
type Gateway struct {
	hub   *Hub
	rooms RosterResolver
}

func NewGateway(hub *Hub, rooms RosterResolver) *Gateway {
	return &Gateway{hub: hub, rooms: rooms}
}

func (g *Gateway) ToConn(connID, event string, payload any) {
	data, err := json.Marshal(envelope{Type: event, Payload: payload})
	if err != nil {
		log.Printf("marshal %s event: %v", event, err)
		return
	}
	g.hub.sendTo(connID, data)
}

func (g *Gateway) ToRoom(roomID, event string, payload any) {
	data, err := json.Marshal(envelope{Type: event, Payload: payload})
	if err != nil {
		log.Printf("marshal %s event: %v", event, err)
		return
	}
	for _, connID := range g.rooms.Connections(roomID) {
		g.hub.sendTo(connID, data)
	}
}
