package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoSessions is returned by LatestSession on an empty database.
var ErrNoSessions = errors.New("no recorded sessions")

// ReadSession returns every message of a session ordered by seq.
//
// Returns an empty slice (not nil) if the session has no messages.
func (s *Store) ReadSession(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, direction, kind, payload
		FROM messages
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		var dir string
		if err := rows.Scan(&m.Seq, &dir, &m.Kind, &m.Payload); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Direction = Direction(dir)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// ListSessions returns all sessions, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.engine, s.version, s.started_at, COUNT(m.seq)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		info, err := scanSessionInfo(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// LatestSession returns the most recently started session.
// UUIDv7 ids sort by creation time, so the greatest id is the newest.
func (s *Store) LatestSession(ctx context.Context) (SessionInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.engine, s.version, s.started_at, COUNT(m.seq)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY DESC
		LIMIT 1
	`)

	info, err := scanSessionInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionInfo{}, ErrNoSessions
	}
	return info, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionInfo(row rowScanner) (SessionInfo, error) {
	var info SessionInfo
	var started string
	if err := row.Scan(&info.ID, &info.Engine, &info.Version, &started, &info.Messages); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionInfo{}, err
		}
		return SessionInfo{}, fmt.Errorf("scan session: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("parse started_at %q: %w", started, err)
	}
	info.StartedAt = t

	return info, nil
}
