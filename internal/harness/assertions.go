package harness

import (
	"fmt"
	"strings"

	"github.com/latruncularius/latruncularius/internal/store"
)

// AssertionError is returned when an assertion fails.
// It carries the trace so the failure can be read without re-running.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []store.Message
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, msg := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %-3s %s", msg.Seq, msg.Direction, msg.Kind)
			if msg.Payload != "" {
				fmt.Fprintf(&buf, " %q", msg.Payload)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure.
func EvaluateAssertions(r *Result, assertions []Assertion, vars map[string]string) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(r.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(r.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(r.Trace, a)
		case AssertOutputContains:
			err = assertOutputContains(r.Output, expand(a.Line, vars))
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func matches(msg store.Message, kind, direction string) bool {
	if msg.Kind != kind {
		return false
	}
	return direction == "" || string(msg.Direction) == direction
}

func describe(kind, direction string) string {
	if direction == "" {
		return kind
	}
	return direction + " " + kind
}

func assertTraceContains(trace []store.Message, a Assertion) error {
	for _, msg := range trace {
		if matches(msg, a.Kind, a.Direction) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describe(a.Kind, a.Direction),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that kinds occur as a subsequence of the trace.
func assertTraceOrder(trace []store.Message, a Assertion) error {
	next := 0
	for _, msg := range trace {
		if next < len(a.Kinds) && matches(msg, a.Kinds[next], a.Direction) {
			next++
		}
	}
	if next == len(a.Kinds) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
		Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(a.Kinds), a.Kinds[next]),
		Trace:    trace,
	}
}

func assertTraceCount(trace []store.Message, a Assertion) error {
	count := 0
	for _, msg := range trace {
		if matches(msg, a.Kind, a.Direction) {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d occurrences of %s", a.Count, describe(a.Kind, a.Direction)),
		Actual:   fmt.Sprintf("%d occurrences", count),
		Trace:    trace,
	}
}

func assertOutputContains(output []string, line string) error {
	for _, got := range output {
		if got == line {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output line %q", line),
		Actual:   fmt.Sprintf("not among %d output lines", len(output)),
	}
}
