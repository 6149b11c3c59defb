package engine

// Outcome reports which path an engine operation took.
// Outcomes are informational; the state already encodes every failure.
type Outcome int

const (
	// OutcomeApplied means the operation changed the state as asked
	// (including a successful evaluation).
	OutcomeApplied Outcome = iota

	// OutcomeIgnored means an operator was rejected: the expression was
	// empty or already held an operator.
	OutcomeIgnored

	// OutcomeNoOperator means Evaluate found no operator to apply.
	OutcomeNoOperator

	// OutcomeMalformed means an operand repeats the operator symbol, so the
	// expression does not split into exactly two operands.
	OutcomeMalformed

	// OutcomeDivideByZero means the divisor was exactly zero. Nothing is shown.
	OutcomeDivideByZero

	// OutcomeError means an operand did not parse and "Error" is shown.
	OutcomeError
)

var outcomeNames = [...]string{
	OutcomeApplied:      "applied",
	OutcomeIgnored:      "ignored",
	OutcomeNoOperator:   "no_operator",
	OutcomeMalformed:    "malformed",
	OutcomeDivideByZero: "divide_by_zero",
	OutcomeError:        "error",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// ParseOutcome maps an outcome name back to its Outcome.
func ParseOutcome(s string) (Outcome, bool) {
	for i, name := range outcomeNames {
		if name == s {
			return Outcome(i), true
		}
	}
	return 0, false
}

// OutcomeNames lists every outcome name in declaration order.
func OutcomeNames() []string {
	names := make([]string, len(outcomeNames))
	copy(names, outcomeNames[:])
	return names
}

// Silent reports whether the outcome left the state untouched without
// showing anything.
func (o Outcome) Silent() bool {
	switch o {
	case OutcomeIgnored, OutcomeNoOperator, OutcomeMalformed, OutcomeDivideByZero:
		return true
	default:
		return false
	}
}
