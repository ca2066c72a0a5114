package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/GhadeBhavesh/QZone/internal/app"
	"github.com/GhadeBhavesh/QZone/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades connections and dispatches inbound control-plane events
// to the game service. Each connection gets an opaque id minted on upgrade;
// that id is the participant identity for its lifetime.
type WSHandler struct {
	service  *app.GameService
	hub      *Hub
	gateway  *Gateway
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub *Hub, gateway *Gateway) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type roomPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type answerPayload struct {
	RoomID string `json:"roomId"`
	Answer int    `json:"answer"`
}

// ServeWS runs the connection loop: register with the hub, dispatch inbound
// events, and on any read failure treat the connection as disconnected.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	c := &client{id: connID, conn: conn, send: make(chan []byte, 16)}
	h.hub.register(c)
	go c.writePump()

	defer h.service.Disconnect(connID)
	defer h.hub.unregister(connID)

	log.Printf("user connected: %s", connID)
	h.gateway.ToConn(connID, domain.EventConnected, map[string]string{"socketId": connID})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			log.Printf("user disconnected: %s", connID)
			return
		}
		switch inbound.Type {
		case "create-room":
			var p roomPayload
			if !h.decode(connID, inbound.Payload, &p) {
				continue
			}
			h.service.CreateRoom(connID, p.RoomID, p.UserName)
		case "join-room":
			var p roomPayload
			if !h.decode(connID, inbound.Payload, &p) {
				continue
			}
			h.service.JoinRoom(connID, p.RoomID, p.UserName)
		case "leave-room":
			var p roomPayload
			if !h.decode(connID, inbound.Payload, &p) {
				continue
			}
			h.service.LeaveRoom(connID, p.RoomID)
		case "start-game":
			var p roomPayload
			if !h.decode(connID, inbound.Payload, &p) {
				continue
			}
			h.service.StartGame(r.Context(), connID, p.RoomID)
		case "submit-answer":
			var p answerPayload
			if !h.decode(connID, inbound.Payload, &p) {
				continue
			}
			h.service.SubmitAnswer(connID, p.RoomID, p.Answer)
		default:
			h.gateway.ToConn(connID, domain.EventRoomError, domain.RoomErrorPayload{Message: "unsupported message type"})
		}
	}
}

func (h *WSHandler) decode(connID string, raw json.RawMessage, dst any) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		h.gateway.ToConn(connID, domain.EventRoomError, domain.RoomErrorPayload{Message: "invalid payload"})
		return false
	}
	return true
}
