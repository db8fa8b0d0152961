// Package harness runs UCI conformance scenarios against the real engine.
//
// A scenario is a YAML file holding the exact input a controller would
// send, the exact output lines expected back, and the expected way the
// engine ends (a clean quit or a fatal error). The harness feeds the input
// through engine.Run with in-memory streams, records the session into an
// in-memory store, and checks:
//
//   - output lines, compared exactly and in order
//   - exit, clean or fatal
//   - assertions over the recorded trace (trace_contains, trace_order,
//     trace_count, output_contains)
//
// Expected lines may use placeholders for values that depend on the build
// or platform: {{name}}, {{version}}, {{author}}, {{hash_default}} and
// {{hash_max}}.
//
// # Golden Files
//
// RunWithGolden snapshots output and trace to testdata/golden/<name>.golden.
// Platform values are written back as placeholders so snapshots are stable.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
