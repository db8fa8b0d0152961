package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession begins a session with fixed engine metadata.
func createTestSession(t *testing.T, s *Store) *Session {
	t.Helper()
	sess, err := s.BeginSession(context.Background(), "Latruncularius", "0.1.0")
	if err != nil {
		t.Fatalf("BeginSession() failed: %v", err)
	}
	return sess
}
