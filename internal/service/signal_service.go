package service

import (
	"encoding/json"

	"github.com/hi-ethereal/free-bird-server/internal/domain"
	"github.com/hi-ethereal/free-bird-server/internal/hub"
	"github.com/hi-ethereal/free-bird-server/internal/room"
	"github.com/hi-ethereal/free-bird-server/pkg/log"
)

type signalService struct {
	registry *room.Registry
}

// NewSignalService creates a SignalService backed by the given registry.
func NewSignalService(registry *room.Registry) SignalService {
	return &signalService{
		registry: registry,
	}
}

func (s *signalService) HandleJoin(c *hub.Client, key string) error {
	l := log.L()

	// A connection belongs to at most one room for its lifetime; a second
	// join is dropped so membership and the remembered key cannot diverge.
	if current, ok := c.Session.CurrentRoom(); ok {
		l.Debug().Str("client_id", c.ID).Str("room", current).Msg("ignoring join from client already in a room")
		return nil
	}

	joinedFrame, err := json.Marshal(&domain.Envelope{Type: domain.MsgTypeJoined})
	if err != nil {
		return err
	}
	readyFrame, err := json.Marshal(&domain.Envelope{Type: domain.MsgTypeReady})
	if err != nil {
		return err
	}

	switch s.registry.Join(key, c, joinedFrame, readyFrame) {
	case room.JoinWaiting:
		c.Session.JoinRoom(key)
		l.Info().Str("client_id", c.ID).Str("room", key).Msg("peer waiting in room")
		return nil

	case room.JoinPaired:
		c.Session.JoinRoom(key)
		// Only the peer that was already waiting hears ready: delivery
		// excludes the joiner, who learns the pairing completed implicitly
		// by having joined.
		l.Info().Str("client_id", c.ID).Str("room", key).Msg("room paired")
		return nil

	default: // room.JoinRoomFull
		l.Info().Str("client_id", c.ID).Str("room", key).Msg("join rejected: room is full")
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeRoomFull, "room is full"))
	}
}

func (s *signalService) HandleForward(c *hub.Client, key string, frame []byte) {
	l := log.L()

	if !s.registry.IsMember(key, c) {
		l.Debug().Str("client_id", c.ID).Str("room", key).Msg("dropping forward for unknown or foreign room")
		return
	}

	delivered := s.registry.Broadcast(key, frame, c)
	l.Debug().Str("client_id", c.ID).Str("room", key).Int("delivered", delivered).Msg("relayed handshake frame")
}

func (s *signalService) HandleDisconnect(c *hub.Client) {
	key, ok := c.Session.CurrentRoom()
	if !ok {
		return
	}

	frame, err := json.Marshal(&domain.Envelope{Type: domain.MsgTypeLeave})
	if err != nil {
		frame = nil
	}
	if s.registry.Leave(key, c, frame) {
		l := log.L()
		l.Info().Str("client_id", c.ID).Str("room", key).Int("remaining", s.registry.MemberCount(key)).Msg("peer left room")
	}
	c.Session.LeaveRoom()
}
