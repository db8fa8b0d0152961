package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginSession_UUIDv7(t *testing.T) {
	s := createTestStore(t)
	sess := createTestSession(t, s)

	id, err := uuid.Parse(sess.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestRecordMessage_ReadBackInSeqOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sess := createTestSession(t, s)

	// Written out of order on purpose.
	msgs := []Message{
		{Seq: 3, Direction: DirectionIn, Kind: "isready", Payload: "isready"},
		{Seq: 1, Direction: DirectionIn, Kind: "uci", Payload: "uci"},
		{Seq: 2, Direction: DirectionOut, Kind: "identify"},
		{Seq: 4, Direction: DirectionOut, Kind: "ready"},
	}
	for _, m := range msgs {
		require.NoError(t, sess.RecordMessage(ctx, m))
	}

	got, err := s.ReadSession(ctx, sess.ID())
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i, m := range got {
		assert.Equal(t, int64(i+1), m.Seq)
	}
	assert.Equal(t, "uci", got[0].Kind)
	assert.Equal(t, DirectionOut, got[1].Direction)
	assert.Equal(t, "isready", got[2].Payload)
}

func TestRecordMessage_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sess := createTestSession(t, s)

	m := Message{Seq: 1, Direction: DirectionIn, Kind: "uci", Payload: "uci"}
	require.NoError(t, sess.RecordMessage(ctx, m))
	require.NoError(t, sess.RecordMessage(ctx, m))

	got, err := s.ReadSession(ctx, sess.ID())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecordMessage_InvalidDirection(t *testing.T) {
	s := createTestStore(t)
	sess := createTestSession(t, s)

	err := sess.RecordMessage(context.Background(), Message{Seq: 1, Direction: "up", Kind: "uci"})
	assert.Error(t, err)
}

func TestReadSession_UnknownIsEmpty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadSession(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	first := createTestSession(t, s)
	require.NoError(t, first.RecordMessage(ctx, Message{Seq: 1, Direction: DirectionIn, Kind: "uci", Payload: "uci"}))
	require.NoError(t, first.RecordMessage(ctx, Message{Seq: 2, Direction: DirectionOut, Kind: "identify"}))
	second := createTestSession(t, s)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, first.ID(), sessions[0].ID)
	assert.Equal(t, 2, sessions[0].Messages)
	assert.Equal(t, second.ID(), sessions[1].ID)
	assert.Equal(t, 0, sessions[1].Messages)
	assert.Equal(t, "Latruncularius", sessions[0].Engine)
	assert.WithinDuration(t, time.Now(), sessions[0].StartedAt, time.Minute)
}

func TestLatestSession(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.LatestSession(ctx)
	assert.ErrorIs(t, err, ErrNoSessions)

	createTestSession(t, s)
	second := createTestSession(t, s)

	latest, err := s.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), latest.ID)
}
