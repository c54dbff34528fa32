// Package tcp accepts plain TCP connections and runs one session per
// connection.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-relay/internal/session"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Options tune accepted connections.
type Options struct {
	MaxUnit      int
	WriteTimeout time.Duration
}

// Listener runs the accept loop.
type Listener struct {
	handler *session.Handler
	opts    Options
	log     *zerolog.Logger

	wg sync.WaitGroup
}

// NewListener builds a listener that hands connections to handler.
func NewListener(handler *session.Handler, opts Options, logger *zerolog.Logger) *Listener {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Listener{handler: handler, opts: opts, log: logger}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (l *Listener) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return l.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. Accept errors
// are logged and retried with backoff; they never stop the loop. Every
// accepted connection runs in its own goroutine with no upper bound.
// Serve closes ln and waits for running sessions before it returns. If ln
// is closed by someone else, running sessions are cancelled and Serve
// returns the accept error.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	defer l.wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	l.log.Info().Str("addr", ln.Addr().String()).Msg("tcp listener started")

	var delay time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				l.log.Info().Msg("tcp listener stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}

			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay *= 2
			}
			delay = min(delay, maxAcceptDelay)
			l.log.Warn().Err(err).Dur("retry_in", delay).Msg("accept failed")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		delay = 0

		conn := NewConn(c, l.opts.MaxUnit, l.opts.WriteTimeout)
		l.log.Debug().Str("remote", conn.RemoteAddr()).Msg("connection accepted")

		l.wg.Go(func() {
			l.handler.Serve(ctx, conn)
		})
	}
}
