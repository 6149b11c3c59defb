package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tally/internal/keypad"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %q %q\n",
				event.Seq, event.Key, event.Outcome, event.Expression, event.Result)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		return assertFinalState(result, a)
	case AssertOutcomeCount:
		return assertOutcomeCount(result.Trace, a)
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertDisplaySequence:
		return assertDisplaySequence(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertFinalState compares the fields the assertion names against the
// display after the last step.
func assertFinalState(result *Result, a Assertion) error {
	var mismatches []string
	if a.Expression != nil && *a.Expression != result.State.Expression {
		mismatches = append(mismatches, fmt.Sprintf("expression = %q, want %q", result.State.Expression, *a.Expression))
	}
	if a.Result != nil && *a.Result != result.State.Result {
		mismatches = append(mismatches, fmt.Sprintf("result = %q, want %q", result.State.Result, *a.Result))
	}
	if a.Mode != "" && a.Mode != result.State.Mode {
		mismatches = append(mismatches, fmt.Sprintf("mode = %q, want %q", result.State.Mode, a.Mode))
	}
	if len(mismatches) == 0 {
		return nil
	}

	return &AssertionError{
		Type:     AssertFinalState,
		Expected: describeFinalState(a),
		Actual:   strings.Join(mismatches, "; "),
		Trace:    result.Trace,
	}
}

func describeFinalState(a Assertion) string {
	var parts []string
	if a.Expression != nil {
		parts = append(parts, fmt.Sprintf("expression %q", *a.Expression))
	}
	if a.Result != nil {
		parts = append(parts, fmt.Sprintf("result %q", *a.Result))
	}
	if a.Mode != "" {
		parts = append(parts, "mode "+a.Mode)
	}
	return strings.Join(parts, ", ")
}

// assertOutcomeCount checks that exactly Count presses reported Outcome.
func assertOutcomeCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Outcome == a.Outcome {
			count++
		}
	}

	want := 0
	if a.Count != nil {
		want = *a.Count
	}
	if count != want {
		return &AssertionError{
			Type:     AssertOutcomeCount,
			Expected: fmt.Sprintf("%d presses with outcome %s", want, a.Outcome),
			Actual:   fmt.Sprintf("%d presses", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceContains checks that the key was pressed at least once, with
// the given outcome if one is named.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	key := keypad.Canonical(a.Key)
	for _, event := range trace {
		if event.Key != key {
			continue
		}
		if a.Outcome == "" || event.Outcome == a.Outcome {
			return nil
		}
	}

	expected := fmt.Sprintf("key %s", key)
	if a.Outcome != "" {
		expected += " with outcome " + a.Outcome
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertDisplaySequence compares the results shown over the run. A result
// counts once per appearance: consecutive presses showing the same result
// (such as repeated "=") are collapsed, and presses showing no result are
// skipped.
func assertDisplaySequence(trace []TraceEvent, a Assertion) error {
	shown := DisplaySequence(trace)
	if slices.Equal(shown, a.Results) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDisplaySequence,
		Expected: fmt.Sprintf("%q", a.Results),
		Actual:   fmt.Sprintf("%q", shown),
		Trace:    trace,
	}
}

// DisplaySequence returns the results shown over a trace, in order.
func DisplaySequence(trace []TraceEvent) []string {
	shown := []string{}
	prev := ""
	for _, event := range trace {
		if event.Result != "" && event.Result != prev {
			shown = append(shown, event.Result)
		}
		prev = event.Result
	}
	return shown
}
