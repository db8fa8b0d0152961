// Package uci implements the Universal Chess Interface plumbing: decoding
// controller commands, rendering engine replies, and the two goroutines that
// move them between the standard streams and the engine loop.
//
// ARCHITECTURE:
//
//	input  --> reader goroutine --> Queue[Report]  --> engine loop
//	output <-- writer goroutine <-- Queue[Control] <-- engine loop (via Uci.Send)
//
// Each queue is unbounded and FIFO with exactly one consumer, so reports
// reach the engine in the order lines were read and replies leave in the
// order controls were sent. No ordering holds between the two queues.
//
// Shutdown is cooperative. The reader stops after forwarding a quit report;
// the writer stops on ControlQuit. The engine sends ControlQuit before
// calling WaitForShutdown, which is what keeps the join from deadlocking.
//
// Failures are fatal. An unreadable input, a closed queue, or a panicking
// goroutine all surface as a FatalError; unknown or malformed commands are
// not failures and decode to ReportUnknown.
package uci
