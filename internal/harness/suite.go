package harness

import (
	"context"
	"path/filepath"
)

// SuiteResult summarises a directory of scenarios.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure describes one failed scenario.
type ScenarioFailure struct {
	Scenario string   `json:"scenario"`
	File     string   `json:"file"`
	Errors   []string `json:"errors"`
}

// RunDir loads and runs every scenario in dir. A scenario whose run
// errors counts as failed; only loading problems are returned as errors.
func RunDir(ctx context.Context, dir string) (*SuiteResult, error) {
	scenarios, paths, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}

	suite := &SuiteResult{Total: len(scenarios)}
	for i, s := range scenarios {
		result, err := RunContext(ctx, s)
		switch {
		case err != nil:
			suite.fail(s.Name, paths[i], []string{err.Error()})
		case !result.Pass:
			suite.fail(s.Name, paths[i], result.Errors)
		default:
			suite.Passed++
		}
	}
	return suite, nil
}

// OK reports whether every scenario passed.
func (s *SuiteResult) OK() bool {
	return s.Failed == 0
}

func (s *SuiteResult) fail(name, path string, errs []string) {
	s.Failed++
	s.Failures = append(s.Failures, ScenarioFailure{
		Scenario: name,
		File:     filepath.Base(path),
		Errors:   errs,
	})
}
