package engine

import (
	"time"

	"github.com/latruncularius/latruncularius/internal/uci"
)

// SearchMode selects which limit of a SearchRequest applies.
type SearchMode int

const (
	SearchInfinite SearchMode = iota + 1
	SearchDepth
	SearchMoveTime
	SearchNodes
)

// SearchRequest is a "go" command with its single limit.
type SearchRequest struct {
	Mode     SearchMode
	Depth    int8
	MoveTime time.Duration
	Nodes    uint64
}

func searchRequest(r uci.Report) SearchRequest {
	switch r.Kind {
	case uci.ReportGoDepth:
		return SearchRequest{Mode: SearchDepth, Depth: r.Depth}
	case uci.ReportGoMoveTime:
		return SearchRequest{Mode: SearchMoveTime, MoveTime: r.MoveTime}
	case uci.ReportGoNodes:
		return SearchRequest{Mode: SearchNodes, Nodes: r.Nodes}
	default:
		return SearchRequest{Mode: SearchInfinite}
	}
}

// Collaborator is the board and search component the dispatch table drives.
//
// Methods are called from the engine loop and must not block it: Search in
// particular has to run asynchronously and end when Stop is called.
type Collaborator interface {
	NewGame()
	Position(fen string, moves []string)
	Search(req SearchRequest)
	Stop()
	SetOption(name, value string)
}

// NoopCollaborator accepts every call and does nothing.
type NoopCollaborator struct{}

func (NoopCollaborator) NewGame()                  {}
func (NoopCollaborator) Position(string, []string) {}
func (NoopCollaborator) Search(SearchRequest)      {}
func (NoopCollaborator) Stop()                     {}
func (NoopCollaborator) SetOption(string, string)  {}
