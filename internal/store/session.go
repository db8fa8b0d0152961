package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction says which way a message crossed the protocol boundary.
type Direction string

const (
	// DirectionIn is a report decoded from the controller.
	DirectionIn Direction = "in"
	// DirectionOut is a control sent towards the controller.
	DirectionOut Direction = "out"
)

// Message is one recorded protocol event.
type Message struct {
	Seq       int64     `json:"seq"`
	Direction Direction `json:"direction"`
	Kind      string    `json:"kind"`
	Payload   string    `json:"payload,omitempty"`
}

// SessionInfo summarises a recorded session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Engine    string    `json:"engine"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Messages  int       `json:"messages"`
}

// Session appends messages for one engine run.
type Session struct {
	store *Store
	id    string
}

// ID returns the session's UUIDv7.
func (s *Session) ID() string {
	return s.id
}

// BeginSession creates a new session row. The id is a UUIDv7, so ids sort
// by creation time.
func (s *Store) BeginSession(ctx context.Context, engine, version string) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, engine, version, started_at)
		VALUES (?, ?, ?, ?)
	`,
		id.String(),
		engine,
		version,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	return &Session{store: s, id: id.String()}, nil
}

// RecordMessage appends a message to the session.
// Uses ON CONFLICT DO NOTHING so re-recording the same seq is idempotent.
func (s *Session) RecordMessage(ctx context.Context, msg Message) error {
	if msg.Direction != DirectionIn && msg.Direction != DirectionOut {
		return fmt.Errorf("record message: invalid direction %q", msg.Direction)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO messages (session_id, seq, direction, kind, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		s.id,
		msg.Seq,
		string(msg.Direction),
		msg.Kind,
		msg.Payload,
	)
	if err != nil {
		return fmt.Errorf("record message %d: %w", msg.Seq, err)
	}
	return nil
}
