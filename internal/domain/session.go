package domain

import (
	"sync"
	"time"
)

// Session holds a connection's broker-side state. A connection belongs to
// at most one room for its whole lifetime, so the session remembers a
// single room key. Joined-ness is a separate flag: the empty string is a
// legal room key, so the key alone cannot signal "no room".
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time

	mu      sync.RWMutex
	roomKey string
	joined  bool
}

// NewSession creates a new session for the given connection ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// JoinRoom records the room the connection was admitted to.
func (s *Session) JoinRoom(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomKey = key
	s.joined = true
	s.LastActiveAt = time.Now()
}

// LeaveRoom clears the remembered room.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomKey = ""
	s.joined = false
	s.LastActiveAt = time.Now()
}

// CurrentRoom returns the remembered room key and whether the connection
// has joined one.
func (s *Session) CurrentRoom() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomKey, s.joined
}

// UpdateActivity updates the last active timestamp.
func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActiveAt = time.Now()
}
