package core

import "strconv"

// Handle identifies one connection for its whole lifetime.
// Handles are issued by a Registry and never reused.
type Handle uint64

// NoHandle is the zero Handle; no registered client ever has it.
const NoHandle Handle = 0

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Sender delivers one outbound unit to a connection.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(p []byte) error
}

// client is a chat participant as seen by the registry.
type client struct {
	handle   Handle
	nickname string
	room     int // -1 when not in a room
	remote   string
	out      Sender
}

func newClient(h Handle, out Sender, remote string) *client {
	return &client{
		handle: h,
		room:   -1,
		remote: remote,
		out:    out,
	}
}

func (c *client) inRoom() bool {
	return c.room >= 0
}
