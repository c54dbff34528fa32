package store

import (
	"context"
	"time"
)

// EventKind names an audited event.
type EventKind string

const (
	EventSessionOpened EventKind = "session_opened"
	EventSessionClosed EventKind = "session_closed"
	EventRoomCreated   EventKind = "room_created"
)

// Event is one audit record. Rooms and messages are never restored from
// these records; they only describe what happened.
type Event struct {
	ID        int64
	Kind      EventKind
	SessionID string
	Handle    uint64
	Remote    string
	RoomID    *int64
	Detail    string
	CreatedAt time.Time
}

// Session describes one connection for audit purposes.
type Session struct {
	ID        string
	Handle    uint64
	Remote    string
	Transport string
}

// Store records relay events.
type Store interface {
	RecordSessionOpened(ctx context.Context, s Session) error
	RecordSessionClosed(ctx context.Context, s Session, reason string) error
	RecordRoomCreated(ctx context.Context, s Session, roomID int, name string) error
	ListEvents(ctx context.Context, limit int) ([]*Event, error)
	Close() error
}

// Nop is a Store that keeps nothing.
type Nop struct{}

func (Nop) RecordSessionOpened(context.Context, Session) error         { return nil }
func (Nop) RecordSessionClosed(context.Context, Session, string) error { return nil }
func (Nop) RecordRoomCreated(context.Context, Session, int, string) error {
	return nil
}
func (Nop) ListEvents(context.Context, int) ([]*Event, error) { return nil, nil }
func (Nop) Close() error                                      { return nil }
