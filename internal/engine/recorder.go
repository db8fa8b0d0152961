package engine

import (
	"context"

	"github.com/latruncularius/latruncularius/internal/store"
)

// Recorder receives every message the engine loop handles, in seq order.
// Implemented by *store.Session.
type Recorder interface {
	RecordMessage(ctx context.Context, msg store.Message) error
}

var _ Recorder = (*store.Session)(nil)
