package harness

import "github.com/latruncularius/latruncularius/internal/store"

// Result is the outcome of one scenario run.
type Result struct {
	// Pass is true when output, exit and every assertion matched.
	Pass bool `json:"pass"`

	// Output holds the lines the engine wrote, without newlines.
	Output []string `json:"output"`

	// Trace is the recorded session in seq order.
	Trace []store.Message `json:"trace"`

	// State is the engine state after Run returned.
	State string `json:"state"`

	// Fatal is the error Run returned, empty on a clean quit.
	Fatal string `json:"fatal,omitempty"`

	// Errors explains each mismatch. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with empty output and trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Output: []string{},
		Trace:  []store.Message{},
		Errors: []string{},
	}
}

// AddError records a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Exit returns how the run actually ended.
func (r *Result) Exit() string {
	if r.Fatal != "" {
		return ExitFatal
	}
	return ExitClean
}
