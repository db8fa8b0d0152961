package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/latruncularius/latruncularius/internal/store"
)

// Snapshot is what a golden file holds for one scenario.
type Snapshot struct {
	Scenario string          `json:"scenario"`
	Exit     string          `json:"exit"`
	Output   []string        `json:"output"`
	Trace    []store.Message `json:"trace"`
}

// NewSnapshot builds the golden snapshot of a result. Platform-dependent
// output is replaced with placeholders.
func NewSnapshot(name string, r *Result) Snapshot {
	vars := Vars()
	output := make([]string, len(r.Output))
	for i, line := range r.Output {
		output[i] = templatize(line, vars)
	}
	return Snapshot{
		Scenario: name,
		Exit:     r.Exit(),
		Output:   output,
		Trace:    r.Trace,
	}
}

// Marshal renders the snapshot as indented JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// RunWithGolden executes a scenario, fails t if the scenario does not pass,
// and compares the snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
