// Package store provides SQLite-backed recording of UCI protocol sessions.
//
// Every engine run that is started with a recording database gets one
// session row, identified by a UUIDv7, and an append-only list of messages:
//   - direction "in": a report decoded from a controller line
//   - direction "out": a control the engine sent to its output writer
//
// # Ordering
//
// Messages are ordered by seq, a per-session logical clock stamped by the
// engine loop. Wall-clock time is stored for sessions only and is never used
// to order messages.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
