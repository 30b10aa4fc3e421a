package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hi-ethereal/free-bird-server/internal/config"
	"github.com/hi-ethereal/free-bird-server/internal/domain"
	"github.com/hi-ethereal/free-bird-server/internal/hub"
	"github.com/hi-ethereal/free-bird-server/internal/service"
	"github.com/hi-ethereal/free-bird-server/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub     *hub.Hub
	service service.SignalService
	wsCfg   config.WebSocketConfig
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(h *hub.Hub, svc service.SignalService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

// HandleWebSocket upgrades the connection and starts its pumps.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	l := log.Ctx(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)
	client.SetDisconnectHandler(h.service.HandleDisconnect)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

// handleMessage dispatches one inbound frame. Anything the broker cannot
// make sense of is dropped without a reply: unparseable frames, unknown
// types, and forwards for rooms the sender never joined all look the same
// to the client, which hears nothing.
func (h *WSHandler) handleMessage(c *hub.Client, message []byte) {
	l := log.L()

	var env domain.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		l.Debug().Err(err).Str("client_id", c.ID).Msg("dropping malformed frame")
		return
	}

	switch env.Type {
	case domain.MsgTypeJoin:
		if err := h.service.HandleJoin(c, env.Room); err != nil {
			l.Error().Err(err).Str("client_id", c.ID).Msg("join failed")
		}

	case domain.MsgTypeOffer, domain.MsgTypeAnswer, domain.MsgTypeCandidate:
		// The original frame is relayed untouched so handshake payloads
		// survive verbatim.
		h.service.HandleForward(c, env.Room, message)

	default:
		l.Debug().Str("client_id", c.ID).Str("type", env.Type).Msg("ignoring unknown message type")
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}
