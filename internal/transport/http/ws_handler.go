package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-relay/internal/proto"
	"github.com/vovakirdan/wirechat-relay/internal/session"
)

// wsReadLimit bounds one inbound WebSocket message. Messages within it are
// framed into units of at most MaxMessageBytes.
const wsReadLimit = 64 << 10

// WSOptions tune WebSocket sessions.
type WSOptions struct {
	MaxMessageBytes int
	WriteTimeout    time.Duration
}

// WSHandler upgrades HTTP connections and runs them as relay sessions.
// Inbound messages are framed like the TCP stream; each reply is one
// outbound message.
type WSHandler struct {
	handler *session.Handler
	opts    WSOptions
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(handler *session.Handler, opts WSOptions, logger *zerolog.Logger) stdhttp.Handler {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = proto.DefaultMaxUnit
	}
	return &WSHandler{handler: handler, opts: opts, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	conn.SetReadLimit(wsReadLimit)

	h.handler.Serve(r.Context(), newWSConn(r.Context(), conn, r.RemoteAddr, h.opts.MaxMessageBytes, h.opts.WriteTimeout))
}

// wsConn adapts a WebSocket connection to session.Conn.
type wsConn struct {
	ctx          context.Context
	conn         *websocket.Conn
	remote       string
	maxUnit      int
	writeTimeout time.Duration

	// units left over from the last message
	pending *proto.Reader

	closeOnce sync.Once
	closeErr  error
}

func newWSConn(ctx context.Context, conn *websocket.Conn, remote string, maxUnit int, writeTimeout time.Duration) *wsConn {
	return &wsConn{
		ctx:          ctx,
		conn:         conn,
		remote:       remote,
		maxUnit:      maxUnit,
		writeTimeout: writeTimeout,
	}
}

// ReadUnit returns the next unit. A message is newline-terminated if it is
// not already, then split on newlines and at maxUnit exactly as the TCP
// stream is, so relayed chat looks the same on both transports.
func (c *wsConn) ReadUnit() ([]byte, error) {
	for {
		if c.pending != nil {
			if unit, err := c.pending.ReadUnit(); err == nil {
				return unit, nil
			}
			c.pending = nil
		}

		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil, io.EOF
			}
			return nil, err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		c.pending = proto.NewReader(bytes.NewReader(data), c.maxUnit)
	}
}

func (c *wsConn) Send(p []byte) error {
	ctx := c.ctx
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.conn.Write(ctx, websocket.MessageText, p)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		err := c.conn.Close(websocket.StatusNormalClosure, "closing")
		if err != nil && !errors.Is(err, context.Canceled) {
			c.closeErr = err
		}
	})
	return c.closeErr
}

func (c *wsConn) RemoteAddr() string {
	return c.remote
}

func (c *wsConn) Transport() string {
	return "websocket"
}

var _ session.Conn = (*wsConn)(nil)
