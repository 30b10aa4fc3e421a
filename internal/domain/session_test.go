package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_RoomLifecycle(t *testing.T) {
	req := require.New(t)
	s := NewSession("conn-1")

	req.Equal("conn-1", s.ID)
	_, joined := s.CurrentRoom()
	req.False(joined)

	s.JoinRoom("lobby")
	key, joined := s.CurrentRoom()
	req.True(joined)
	req.Equal("lobby", key)

	s.LeaveRoom()
	_, joined = s.CurrentRoom()
	req.False(joined)
}

func TestSession_EmptyRoomKeyStillCountsAsJoined(t *testing.T) {
	req := require.New(t)
	s := NewSession("conn-1")

	s.JoinRoom("")

	key, joined := s.CurrentRoom()
	req.True(joined)
	req.Empty(key)
}

func TestSession_UpdateActivity(t *testing.T) {
	s := NewSession("conn-1")
	earlier := s.LastActiveAt

	time.Sleep(time.Millisecond)
	s.UpdateActivity()

	require.True(t, s.LastActiveAt.After(earlier))
}
