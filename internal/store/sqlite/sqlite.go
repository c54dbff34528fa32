package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/wirechat-relay/internal/store"
)

// Schema is applied on every open; it is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	session_id TEXT NOT NULL,
	handle     INTEGER NOT NULL,
	remote     TEXT NOT NULL DEFAULT '',
	room_id    INTEGER,
	detail     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
`

// DefaultListLimit caps ListEvents when the caller passes a non-positive limit.
const DefaultListLimit = 100

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the audit database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests that need extra fixtures.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps ":memory:"
	// databases alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordSessionOpened stores a session_opened event.
func (s *SQLiteStore) RecordSessionOpened(ctx context.Context, sess store.Session) error {
	return s.insert(ctx, store.EventSessionOpened, sess, nil, sess.Transport)
}

// RecordSessionClosed stores a session_closed event with the close reason.
func (s *SQLiteStore) RecordSessionClosed(ctx context.Context, sess store.Session, reason string) error {
	return s.insert(ctx, store.EventSessionClosed, sess, nil, reason)
}

// RecordRoomCreated stores a room_created event.
func (s *SQLiteStore) RecordRoomCreated(ctx context.Context, sess store.Session, roomID int, name string) error {
	id := int64(roomID)
	return s.insert(ctx, store.EventRoomCreated, sess, &id, name)
}

func (s *SQLiteStore) insert(ctx context.Context, kind store.EventKind, sess store.Session, roomID *int64, detail string) error {
	query := `
		INSERT INTO events (kind, session_id, handle, remote, room_id, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, string(kind), sess.ID, int64(sess.Handle), sess.Remote, roomID, detail); err != nil {
		return fmt.Errorf("insert %s event: %w", kind, err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first.
func (s *SQLiteStore) ListEvents(ctx context.Context, limit int) ([]*store.Event, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, kind, session_id, handle, remote, room_id, detail, created_at
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*store.Event
	for rows.Next() {
		var (
			ev     store.Event
			kind   string
			handle int64
			roomID sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &kind, &ev.SessionID, &handle, &ev.Remote, &roomID, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = store.EventKind(kind)
		ev.Handle = uint64(handle)
		if roomID.Valid {
			id := roomID.Int64
			ev.RoomID = &id
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
