package harness

import "github.com/roach88/tally/internal/ir"

// TraceEvent is one key press as seen by the harness.
type TraceEvent struct {
	Seq        int64  `json:"seq"`
	Key        string `json:"key"`
	Outcome    string `json:"outcome"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// FinalState is the display after the last step.
type FinalState struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Mode       string `json:"mode"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every press in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	State FinalState `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddPressTrace appends a recorded press to the trace.
func (r *Result) AddPressTrace(p ir.Press) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:        p.Seq,
		Key:        p.Key,
		Outcome:    p.Outcome,
		Expression: p.Expression,
		Result:     p.Result,
	})
}
