package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleResult is the result of pressing 6+3= then C then 5÷0=.
func sampleResult() *Result {
	r := NewResult()
	r.Trace = []TraceEvent{
		{Seq: 1, Key: "6", Outcome: "applied", Expression: "6"},
		{Seq: 2, Key: "+", Outcome: "applied", Expression: "6+"},
		{Seq: 3, Key: "3", Outcome: "applied", Expression: "6+3"},
		{Seq: 4, Key: "=", Outcome: "applied", Expression: "6+3", Result: "9"},
		{Seq: 5, Key: "=", Outcome: "applied", Expression: "6+3", Result: "9"},
		{Seq: 6, Key: "C", Outcome: "applied"},
		{Seq: 7, Key: "5", Outcome: "applied", Expression: "5"},
		{Seq: 8, Key: "÷", Outcome: "applied", Expression: "5÷"},
		{Seq: 9, Key: "0", Outcome: "applied", Expression: "5÷0"},
		{Seq: 10, Key: "=", Outcome: "divide_by_zero", Expression: "5÷0"},
	}
	r.State = FinalState{Expression: "5÷0", Mode: "entering"}
	return r
}

func TestAssertFinalState(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertFinalState(r, Assertion{
		Type:       AssertFinalState,
		Expression: strPtr("5÷0"),
		Result:     strPtr(""),
		Mode:       "entering",
	}))

	err := assertFinalState(r, Assertion{Type: AssertFinalState, Result: strPtr("Error"), Mode: "displaying"})
	require.Error(t, err)

	var ae *AssertionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, AssertFinalState, ae.Type)
	assert.Equal(t, `result "Error", mode displaying`, ae.Expected)
	assert.Contains(t, ae.Actual, `result = "", want "Error"`)
	assert.Contains(t, ae.Actual, `mode = "entering", want "displaying"`)
}

func TestAssertOutcomeCount(t *testing.T) {
	trace := sampleResult().Trace

	assert.NoError(t, assertOutcomeCount(trace, Assertion{Outcome: "applied", Count: intPtr(9)}))
	assert.NoError(t, assertOutcomeCount(trace, Assertion{Outcome: "divide_by_zero", Count: intPtr(1)}))
	assert.NoError(t, assertOutcomeCount(trace, Assertion{Outcome: "error", Count: intPtr(0)}))

	err := assertOutcomeCount(trace, Assertion{Outcome: "ignored", Count: intPtr(2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 2 presses with outcome ignored")
	assert.Contains(t, err.Error(), "Actual: 0 presses")
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleResult().Trace

	assert.NoError(t, assertTraceContains(trace, Assertion{Key: "C"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Key: "=", Outcome: "divide_by_zero"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Key: "/"}), "aliases resolve to the label")

	err := assertTraceContains(trace, Assertion{Key: "×"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key ×")

	err = assertTraceContains(trace, Assertion{Key: "+", Outcome: "ignored"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key + with outcome ignored")
}

func TestAssertDisplaySequence(t *testing.T) {
	trace := sampleResult().Trace

	assert.Equal(t, []string{"9"}, DisplaySequence(trace))
	assert.NoError(t, assertDisplaySequence(trace, Assertion{Results: []string{"9"}}))

	err := assertDisplaySequence(trace, Assertion{Results: []string{"9", "9"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Actual: ["9"]`)
}

func TestDisplaySequence_RepeatAfterGap(t *testing.T) {
	trace := []TraceEvent{
		{Result: "Error"},
		{Result: ""},
		{Result: "Error"},
		{Result: "Error"},
		{Result: "4"},
	}
	assert.Equal(t, []string{"Error", "Error", "4"}, DisplaySequence(trace))
	assert.Equal(t, []string{}, DisplaySequence(nil))
}

func TestEvaluateAssertions_CollectsAll(t *testing.T) {
	r := sampleResult()
	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertTraceContains, Key: "C"},
		{Type: AssertTraceContains, Key: "-"},
		{Type: AssertOutcomeCount, Outcome: "applied", Count: intPtr(1)},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[1]")
	assert.Contains(t, errs[1], "assertions[2]")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceContains,
		Expected: "key C",
		Actual:   "not found in trace",
		Trace:    sampleResult().Trace[:1],
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_contains")
	assert.Contains(t, msg, "Full trace:")
	assert.Contains(t, msg, `[1] 6 applied -> "6" ""`)
}
