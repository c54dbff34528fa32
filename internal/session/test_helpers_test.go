package session

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/store"
)

// recorder is a core.Sender that keeps everything written to it.
type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Send(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, string(p))
	return nil
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

type testEnv struct {
	reg *core.Registry
	bc  *core.Broadcaster
}

func newTestEnv(t *testing.T, limits core.Limits) *testEnv {
	t.Helper()
	reg := core.NewRegistry(limits)
	return &testEnv{reg: reg, bc: core.NewBroadcaster(reg, nil)}
}

type peer struct {
	handle core.Handle
	out    *recorder
	d      *Dispatcher
}

func (e *testEnv) newPeer(t *testing.T) *peer {
	t.Helper()
	out := &recorder{}
	h := e.reg.Register(out, "test")
	return &peer{
		handle: h,
		out:    out,
		d:      NewDispatcher(e.reg, e.bc, nil, nil, h, out, store.Session{Handle: uint64(h)}),
	}
}

func (p *peer) send(lines ...string) {
	for _, l := range lines {
		p.d.Dispatch(context.Background(), []byte(l))
	}
}

// fakeConn feeds units from a channel and records what is sent.
type fakeConn struct {
	recorder
	in        chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadUnit() ([]byte, error) {
	select {
	case u, ok := <-c.in:
		if !ok {
			return nil, io.EOF
		}
		return u, nil
	case <-c.closed:
		return nil, net.ErrClosed
	}
}

func (c *fakeConn) Send(p []byte) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	return c.recorder.Send(p)
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) RemoteAddr() string { return "fake:1" }
func (c *fakeConn) Transport() string  { return "fake" }

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
