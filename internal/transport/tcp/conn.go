package tcp

import (
	"net"
	"sync"
	"time"

	"github.com/vovakirdan/wirechat-relay/internal/proto"
	"github.com/vovakirdan/wirechat-relay/internal/session"
)

// Conn adapts a net.Conn to session.Conn with newline framing.
type Conn struct {
	c            net.Conn
	r            *proto.Reader
	writeTimeout time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps c. maxUnit bounds the size of a received unit; a zero
// writeTimeout lets writes block for as long as the peer stalls.
func NewConn(c net.Conn, maxUnit int, writeTimeout time.Duration) *Conn {
	return &Conn{
		c:            c,
		r:            proto.NewReader(c, maxUnit),
		writeTimeout: writeTimeout,
	}
}

// ReadUnit returns the next newline-terminated unit.
func (c *Conn) ReadUnit() ([]byte, error) {
	return c.r.ReadUnit()
}

// Send writes p as one unit. Concurrent sends never interleave.
func (c *Conn) Send(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.c.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := c.c.Write(p)
	return err
}

// Close closes the underlying connection once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.c.Close()
	})
	return c.closeErr
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() string {
	if addr := c.c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// Transport names the transport for logs and audit records.
func (c *Conn) Transport() string {
	return "tcp"
}

var _ session.Conn = (*Conn)(nil)
