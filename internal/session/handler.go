// Package session runs one connection from acceptance to teardown and
// interprets the commands it sends.
package session

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/proto"
	"github.com/vovakirdan/wirechat-relay/internal/store"
	"github.com/vovakirdan/wirechat-relay/internal/utils"
)

// Conn is a framed, bidirectional connection.
// Send and Close must be safe to call from any goroutine; Close must be
// idempotent. ReadUnit is only called from the session's own goroutine.
type Conn interface {
	core.Sender
	ReadUnit() ([]byte, error)
	Close() error
	RemoteAddr() string
	Transport() string
}

// State is a session lifecycle state.
type State int

const (
	StateConnected State = iota
	StateActive
	StateClosing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Close reasons reported to logs and the audit store.
const (
	ReasonQuit      = "quit"
	ReasonEOF       = "eof"
	ReasonReadError = "read_error"
	ReasonCanceled  = "canceled"
	ReasonPanic     = "panic"
)

// Handler serves sessions against a shared registry.
type Handler struct {
	reg   *core.Registry
	bc    *core.Broadcaster
	store store.Store
	log   *zerolog.Logger

	// OnState, when set, observes every state transition. Used by tests.
	OnState func(h core.Handle, s State)
}

// NewHandler builds a session handler. A nil store disables auditing.
func NewHandler(reg *core.Registry, bc *core.Broadcaster, st store.Store, logger *zerolog.Logger) *Handler {
	if st == nil {
		st = store.Nop{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{reg: reg, bc: bc, store: st, log: logger}
}

// Serve runs conn until the peer quits, the connection fails, or ctx is
// cancelled. Cleanup always runs: the client leaves its room, is removed
// from the registry, and conn is closed.
func (h *Handler) Serve(ctx context.Context, conn Conn) {
	handle := h.reg.Register(conn, conn.RemoteAddr())
	info := store.Session{
		ID:        utils.NewSessionID(),
		Handle:    uint64(handle),
		Remote:    conn.RemoteAddr(),
		Transport: conn.Transport(),
	}
	logger := h.log.With().
		Stringer("handle", handle).
		Str("session_id", info.ID).
		Str("remote", info.Remote).
		Str("transport", info.Transport).
		Logger()

	h.transition(&logger, handle, StateConnected)
	logger.Info().Msg("session opened")
	if err := h.store.RecordSessionOpened(ctx, info); err != nil {
		logger.Warn().Err(err).Msg("audit session opened")
	}

	reason := ReasonEOF
	defer func() {
		if r := recover(); r != nil {
			reason = ReasonPanic
			logger.Error().Interface("panic", r).Msg("session panicked")
		}
		h.teardown(&logger, handle, conn, info, reason)
	}()

	// Unblock ReadUnit on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.Send([]byte(proto.Prompt)); err != nil {
		logger.Debug().Err(err).Msg("send prompt")
	}

	d := NewDispatcher(h.reg, h.bc, h.store, &logger, handle, conn, info)
	h.transition(&logger, handle, StateActive)
	reason = h.loop(ctx, &logger, conn, d)
}

func (h *Handler) loop(ctx context.Context, logger *zerolog.Logger, conn Conn, d *Dispatcher) string {
	for {
		unit, err := conn.ReadUnit()
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return ReasonCanceled
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				return ReasonEOF
			default:
				logger.Warn().Err(err).Msg("read unit")
				return ReasonReadError
			}
		}
		if d.Dispatch(ctx, unit) {
			return ReasonQuit
		}
	}
}

func (h *Handler) teardown(logger *zerolog.Logger, handle core.Handle, conn Conn, info store.Session, reason string) {
	h.transition(logger, handle, StateClosing)

	h.reg.Remove(handle)
	if err := conn.Close(); err != nil {
		logger.Debug().Err(err).Msg("close connection")
	}
	// The session context may already be cancelled; the close record
	// still has to land.
	if err := h.store.RecordSessionClosed(context.Background(), info, reason); err != nil {
		logger.Warn().Err(err).Msg("audit session closed")
	}

	h.transition(logger, handle, StateTerminated)
	logger.Info().Str("reason", reason).Msg("session closed")
}

func (h *Handler) transition(logger *zerolog.Logger, handle core.Handle, s State) {
	logger.Debug().Stringer("state", s).Msg("session state")
	if h.OnState != nil {
		h.OnState(handle, s)
	}
}
