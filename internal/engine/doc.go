// Package engine implements the Latruncularius engine loop.
//
// The engine owns process state and configuration. It starts the UCI
// protocol goroutines, then receives decoded reports one at a time and
// dispatches each to a handler.
//
// ARCHITECTURE:
//
// Three goroutines run for the life of the process:
//   - the input reader (package uci), blocked on the input stream
//   - the output writer (package uci), blocked on the control queue
//   - the engine loop (Engine.Run), blocked on the report queue
//
// State Machine:
//
//	Running --quit report--> Quitting (terminal)
//
// On quit the loop sends a quit control and only then joins both
// goroutines. The writer always sees quit before the join begins, so
// shutdown cannot deadlock.
//
// Collaborator Seam:
// position, go, stop, ucinewgame and accepted setoption values are handed
// to a Collaborator. The default NoopCollaborator ignores them; a board and
// search component plugs in here.
//
// Failure Model:
// A closed queue, unreadable input or failed goroutine is fatal and ends
// Run with an error. Unknown commands are ignored without a reply.
package engine
