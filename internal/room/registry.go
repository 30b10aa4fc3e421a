// Package room owns the broker's room state: which connections currently
// share which room key. A room is a named rendezvous point for at most two
// peers; the key is an opaque, case-sensitive string supplied by clients
// and never validated.
package room

import (
	"sync"
)

// Member is one connected peer as the registry sees it: something that can
// report liveness and accept a frame. Members are compared by identity, so
// two distinct connections are never equal even if their contents match.
type Member interface {
	IsOpen() bool
	SendRaw(data []byte)
}

// JoinOutcome is the result of admitting a connection to a room.
type JoinOutcome int

const (
	// JoinWaiting: first member, waiting for a peer.
	JoinWaiting JoinOutcome = iota
	// JoinPaired: second member, the room is complete.
	JoinPaired
	// JoinRoomFull: the room already holds two members.
	JoinRoomFull
)

// Registry maps room keys to member sets. It is constructed once in main
// and handed to the signal service; every read and mutation is serialized
// under its mutex, so two concurrent joins can never both observe an empty
// room. Admission and departure frames are pushed inside the same critical
// sections that decide them, which keeps the order seen on any one member's
// channel consistent with the registry's serialization. Rooms are created
// lazily on first join and deleted when the last member leaves, so an empty
// room is indistinguishable from an absent one.
type Registry struct {
	rooms map[string]map[Member]struct{}
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[Member]struct{}),
	}
}

// Join admits a member to the room at key, creating the room if absent.
// The occupancy decision, the insertion and the acknowledgement pushes all
// happen under one lock: the first member is handed waitingFrame, and the
// arrival of the second pushes pairedFrame to the member already waiting.
// A racing pair of joins therefore cannot land the pairing ack on the
// waiter's channel ahead of its own admission ack.
func (r *Registry) Join(key string, m Member, waitingFrame, pairedFrame []byte) JoinOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[key]
	if !ok {
		members = make(map[Member]struct{})
		r.rooms[key] = members
	}

	switch len(members) {
	case 0:
		members[m] = struct{}{}
		m.SendRaw(waitingFrame)
		return JoinWaiting
	case 1:
		members[m] = struct{}{}
		for member := range members {
			if member == m || !member.IsOpen() {
				continue
			}
			member.SendRaw(pairedFrame)
		}
		return JoinPaired
	default:
		return JoinRoomFull
	}
}

// Leave removes a member from the room at key and reports whether it was
// present. A non-nil frame is pushed to the remaining open members before
// the lock is released, so a departure notification can never be reordered
// against later admissions to the same room; nil skips the notification.
// The room is deleted once its member set is empty.
func (r *Registry) Leave(key string, m Member, frame []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[key]
	if !ok {
		return false
	}
	if _, ok := members[m]; !ok {
		return false
	}

	delete(members, m)
	if len(members) == 0 {
		delete(r.rooms, key)
		return true
	}

	if frame != nil {
		for member := range members {
			if !member.IsOpen() {
				continue
			}
			member.SendRaw(frame)
		}
	}
	return true
}

// IsMember reports whether m currently belongs to the room at key. A key
// that was never joined, or whose room has emptied out, is simply absent.
func (r *Registry) IsMember(key string, m Member) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[key]
	if !ok {
		return false
	}
	_, ok = members[m]
	return ok
}

// Broadcast queues data for every member of the room at key except the
// excluded one, skipping members that are no longer open. Skipped members
// are not pruned; pruning happens only on the disconnect path. Pushes
// happen under the registry lock: a connection leaves its room before its
// send channel closes, so a member seen here is always safe to push to.
// Returns the number of members the data was queued for.
func (r *Registry) Broadcast(key string, data []byte, exclude Member) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for member := range r.rooms[key] {
		if member == exclude {
			continue
		}
		if !member.IsOpen() {
			continue
		}
		member.SendRaw(data)
		delivered++
	}
	return delivered
}

// MemberCount returns the number of members in the room at key.
func (r *Registry) MemberCount(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[key])
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
