package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/latruncularius/latruncularius/internal/about"
	"github.com/latruncularius/latruncularius/internal/engine"
	"github.com/latruncularius/latruncularius/internal/store"
	"github.com/latruncularius/latruncularius/internal/uci"
)

// DefaultTimeout bounds a single scenario. Input is finite, so a run that
// reaches it means the engine failed to shut down.
const DefaultTimeout = 5 * time.Second

// placeholderKeys is the fixed substitution order used by expand and
// templatize.
var placeholderKeys = []string{"name", "version", "author", "hash_default", "hash_max"}

// Identity returns the id the harness runs the engine with.
func Identity() uci.Identity {
	return uci.Identity{Name: about.Engine, Version: about.Version, Author: about.Author}
}

// Vars returns the placeholder values for this build and platform.
func Vars() map[string]string {
	id := Identity()
	return map[string]string{
		"name":         id.Name,
		"version":      id.Version,
		"author":       id.Author,
		"hash_default": strconv.Itoa(engine.HashDefault),
		"hash_max":     strconv.Itoa(engine.HashMax()),
	}
}

func expand(line string, vars map[string]string) string {
	for _, k := range placeholderKeys {
		line = strings.ReplaceAll(line, "{{"+k+"}}", vars[k])
	}
	return line
}

// templatize is the inverse of expand, used for golden snapshots. Hash
// values are only put back on the Hash option line.
func templatize(line string, vars map[string]string) string {
	hashLine := strings.HasPrefix(line, "option name Hash ")
	for i := len(placeholderKeys) - 1; i >= 0; i-- {
		k := placeholderKeys[i]
		if strings.HasPrefix(k, "hash_") && !hashLine {
			continue
		}
		if v := vars[k]; v != "" {
			line = strings.ReplaceAll(line, v, "{{"+k+"}}")
		}
	}
	return line
}

// Run executes a scenario with DefaultTimeout.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext executes a scenario against a fresh engine.
//
// Each scenario records into its own in-memory database. The returned error
// is for harness problems only; engine failures are reported in Result.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	id := Identity()
	sess, err := st.BeginSession(ctx, id.Name, id.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to begin session: %w", err)
	}

	var out bytes.Buffer
	eng := engine.New(
		engine.WithIO(strings.NewReader(scenario.Input), &out),
		engine.WithIdentity(id),
		engine.WithRecorder(sess),
	)

	runCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	runErr := eng.Run(runCtx)
	if errors.Is(runErr, context.DeadlineExceeded) || errors.Is(runErr, context.Canceled) {
		return nil, fmt.Errorf("scenario %s: engine did not terminate: %w", scenario.Name, runErr)
	}

	result := NewResult()
	result.Output = splitLines(out.String())
	result.State = eng.State().String()
	if runErr != nil {
		result.Fatal = runErr.Error()
	}

	trace, err := st.ReadSession(ctx, sess.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	result.Trace = trace

	vars := Vars()
	checkExit(scenario, result)
	checkOutput(scenario, result, vars)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, vars) {
		result.AddError(msg)
	}

	return result, nil
}

func checkExit(s *Scenario, r *Result) {
	want := s.ExpectedExit()
	if got := r.Exit(); got != want {
		msg := fmt.Sprintf("exit: expected %s, got %s", want, got)
		if r.Fatal != "" {
			msg += ": " + r.Fatal
		}
		r.AddError(msg)
		return
	}
	if want == ExitClean && r.State != engine.StateQuitting.String() {
		r.AddError(fmt.Sprintf("state: expected %s after clean exit, got %s", engine.StateQuitting, r.State))
	}
}

func checkOutput(s *Scenario, r *Result, vars map[string]string) {
	for i := 0; i < len(s.Expect) || i < len(r.Output); i++ {
		switch {
		case i >= len(r.Output):
			r.AddError(fmt.Sprintf("output[%d]: expected %q, got end of output", i, expand(s.Expect[i], vars)))
			return
		case i >= len(s.Expect):
			r.AddError(fmt.Sprintf("output[%d]: unexpected line %q", i, r.Output[i]))
			return
		}

		want := expand(s.Expect[i], vars)
		if r.Output[i] != want {
			r.AddError(fmt.Sprintf("output[%d]: expected %q, got %q", i, want, r.Output[i]))
			return
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
