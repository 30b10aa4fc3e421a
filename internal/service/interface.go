package service

import (
	"github.com/hi-ethereal/free-bird-server/internal/hub"
)

// SignalService executes the room broker protocol. Handlers never block
// and never surface errors to the sending peer; a message that cannot be
// acted on is dropped. No handler takes a context: none of them performs
// blocking I/O, and a lone peer waits in its room indefinitely.
type SignalService interface {
	// HandleJoin admits a connection to the room at key. The first member
	// is told it is waiting; the arrival of the second completes the pair.
	HandleJoin(c *hub.Client, key string) error

	// HandleForward relays a raw handshake frame, verbatim, to the other
	// member of the room at key. Unknown rooms and non-members are no-ops.
	HandleForward(c *hub.Client, key string, frame []byte)

	// HandleDisconnect removes a departed connection from its room and
	// notifies whoever remains.
	HandleDisconnect(c *hub.Client)
}
