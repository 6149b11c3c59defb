package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pressAll drives e with a key string and returns the outcome of each key.
func pressAll(t *testing.T, e *Engine, keys string) []Outcome {
	t.Helper()
	parsed, err := ParseKeys(keys)
	require.NoError(t, err)
	outcomes := make([]Outcome, len(parsed))
	for i, k := range parsed {
		outcomes[i] = e.Press(k)
	}
	return outcomes
}

func assertDisplay(t *testing.T, e *Engine, expression, result string) {
	t.Helper()
	assert.Equal(t, expression, e.Expression(), "expression")
	assert.Equal(t, result, e.Result(), "result")
}

func TestNew_InitialState(t *testing.T) {
	e := New()
	assertDisplay(t, e, "", "")
	assert.Equal(t, ModeEntering, e.Mode())
	assert.Equal(t, Entering{}, e.State())
}

func TestAppendToken_ConcatenatesDigits(t *testing.T) {
	e := New()
	var typed strings.Builder
	for _, d := range []string{"1", "2", ".", "5", "0", "9"} {
		assert.Equal(t, OutcomeApplied, e.AppendToken(MustToken(d)))
		typed.WriteString(d)
		assertDisplay(t, e, typed.String(), "")
	}
	assert.Equal(t, ModeEntering, e.Mode())
}

func TestAppendToken_RepeatedDecimalPointsAccepted(t *testing.T) {
	e := New()
	pressAll(t, e, "1..2")
	assertDisplay(t, e, "1..2", "")
}

func TestAppendToken_AfterResultStartsNewCalculation(t *testing.T) {
	e := New()
	pressAll(t, e, "6+3=")
	assertDisplay(t, e, "6+3", "9")

	assert.Equal(t, OutcomeApplied, e.AppendToken(MustToken("2")))
	assertDisplay(t, e, "2", "")
	assert.Equal(t, ModeEntering, e.Mode())
}

func TestAppendToken_GoesToSecondOperandAfterOperator(t *testing.T) {
	e := New()
	pressAll(t, e, "12×34")
	assertDisplay(t, e, "12×34", "")
	assert.Equal(t, Entering{Expr: Expression{Left: "12", Op: OpMul, Right: "34"}}, e.State())
}

func TestApplyOperator_EmptyExpressionIgnored(t *testing.T) {
	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			e := New()
			assert.Equal(t, OutcomeIgnored, e.ApplyOperator(op))
			assertDisplay(t, e, "", "")
		})
	}
}

func TestApplyOperator_SecondOperatorIgnored(t *testing.T) {
	for _, first := range Operators() {
		for _, second := range Operators() {
			t.Run(first.String()+second.String(), func(t *testing.T) {
				e := New()
				pressAll(t, e, "6")
				require.Equal(t, OutcomeApplied, e.ApplyOperator(first))
				want := "6" + first.Symbol()

				assert.Equal(t, OutcomeIgnored, e.ApplyOperator(second))
				assertDisplay(t, e, want, "")

				// still ignored once the second operand is started
				e.AppendToken(MustToken("1"))
				assert.Equal(t, OutcomeIgnored, e.ApplyOperator(second))
				assertDisplay(t, e, want+"1", "")
			})
		}
	}
}

func TestApplyOperator_OpNoneIgnored(t *testing.T) {
	e := New()
	pressAll(t, e, "4")
	assert.Equal(t, OutcomeIgnored, e.ApplyOperator(OpNone))
	assertDisplay(t, e, "4", "")
}

func TestApplyOperator_ContinuesFromResult(t *testing.T) {
	e := New()
	pressAll(t, e, "6+3=")
	assertDisplay(t, e, "6+3", "9")

	assert.Equal(t, OutcomeApplied, e.ApplyOperator(OpSub))
	assertDisplay(t, e, "9-", "")
	assert.Equal(t, ModeEntering, e.Mode())

	pressAll(t, e, "4=")
	assertDisplay(t, e, "9-4", "5")
}

func TestApplyOperator_NegativeResultAlreadyHoldsOperator(t *testing.T) {
	e := New()
	pressAll(t, e, "2-7=")
	assertDisplay(t, e, "2-7", "-5")

	// "-5" contains the minus symbol, so it counts as holding an operator
	assert.Equal(t, OutcomeIgnored, e.ApplyOperator(OpMul))
	assertDisplay(t, e, "-5", "")

	pressAll(t, e, "3")
	assertDisplay(t, e, "-53", "")

	// splitting "-53" on "-" leaves an empty first operand
	assert.Equal(t, OutcomeError, e.Evaluate())
	assertDisplay(t, e, "-53", ErrorResult)
}

func TestApplyOperator_ContinuesFromError(t *testing.T) {
	e := New()
	pressAll(t, e, "5+=")
	assertDisplay(t, e, "5+", ErrorResult)

	assert.Equal(t, OutcomeApplied, e.ApplyOperator(OpAdd))
	assertDisplay(t, e, "Error+", "")

	pressAll(t, e, "1")
	assert.Equal(t, OutcomeError, e.Evaluate())
	assertDisplay(t, e, "Error+1", ErrorResult)
}

func TestClear_AlwaysResets(t *testing.T) {
	sequences := []string{"", "123", "6+", "6+3", "6+3=", "5÷0=", "4×=", "2-7=×"}
	for _, keys := range sequences {
		t.Run(keys, func(t *testing.T) {
			e := New()
			pressAll(t, e, keys)
			assert.Equal(t, OutcomeApplied, e.Clear())
			assertDisplay(t, e, "", "")
			assert.Equal(t, Entering{}, e.State())
		})
	}
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		keys   string
		result string
	}{
		{"6+3=", "9"},
		{"9-4=", "5"},
		{"2-7=", "-5"},
		{"6×7=", "42"},
		{"7÷2=", "3.5"},
		{"8÷2=", "4"},
		{"1.5+2.5=", "4"},
		{".5+.25=", "0.75"},
		{"0.1+0.2=", "0.30000000000000004"},
		{"1÷3=", "0.3333333333333333"},
		{"007+1=", "8"},
		{"5.+1=", "6"},
		{"1000000000000×1000000000=", "1000000000000000000000"},
		{"1234567.5×1=", "1.2345675e+06"},
		{"1÷100000=", "1e-05"},
	}

	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			e := New()
			outcomes := pressAll(t, e, tt.keys)
			assert.Equal(t, OutcomeApplied, outcomes[len(outcomes)-1])
			assertDisplay(t, e, strings.TrimSuffix(tt.keys, "="), tt.result)
			assert.Equal(t, ModeDisplaying, e.Mode())
		})
	}
}

func TestEvaluate_DivideByZeroIsSilent(t *testing.T) {
	for _, keys := range []string{"5÷0", "5÷0.0", "5÷00", "0÷0"} {
		t.Run(keys, func(t *testing.T) {
			e := New()
			pressAll(t, e, keys)

			assert.Equal(t, OutcomeDivideByZero, e.Evaluate())
			assertDisplay(t, e, keys, "")
			assert.Equal(t, ModeEntering, e.Mode())
		})
	}
}

func TestEvaluate_DivideByZeroExpressionStaysEditable(t *testing.T) {
	e := New()
	pressAll(t, e, "5÷0=")
	assertDisplay(t, e, "5÷0", "")

	pressAll(t, e, "2=")
	assertDisplay(t, e, "5÷02", "2.5")
}

func TestEvaluate_DivisorCheckedBeforeDividend(t *testing.T) {
	// a zero divisor wins over an unparseable dividend
	assertEval(t, "..÷0", "", OutcomeDivideByZero)
	// an unparseable divisor is an error
	assertEval(t, "5÷.", ErrorResult, OutcomeError)
}

func TestEvaluate_TrailingOperatorIsError(t *testing.T) {
	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			e := New()
			pressAll(t, e, "4")
			e.ApplyOperator(op)

			// the split yields ["4", ""] and the empty operand does not parse
			assert.Equal(t, OutcomeError, e.Evaluate())
			assertDisplay(t, e, "4"+op.Symbol(), ErrorResult)
			assert.Equal(t, ModeDisplaying, e.Mode())
		})
	}
}

func TestEvaluate_MissingOperandsAreErrors(t *testing.T) {
	assertEval(t, "+5", ErrorResult, OutcomeError)
	assertEval(t, "5+", ErrorResult, OutcomeError)
	assertEval(t, "4×", ErrorResult, OutcomeError)
	assertEval(t, "×", ErrorResult, OutcomeError)
	assertEval(t, "1..2+3", ErrorResult, OutcomeError)
}

func TestEvaluate_NoOperatorIsSilent(t *testing.T) {
	e := New()
	assert.Equal(t, OutcomeNoOperator, e.Evaluate())
	assertDisplay(t, e, "", "")

	pressAll(t, e, "12")
	assert.Equal(t, OutcomeNoOperator, e.Evaluate())
	assertDisplay(t, e, "12", "")
	assert.Equal(t, ModeEntering, e.Mode())
}

func TestEvaluate_MalformedSplitIsSilent(t *testing.T) {
	assertEval(t, "1-2-3", "", OutcomeMalformed)
	assertEval(t, "1+2+3", "", OutcomeMalformed)

	// reached through the keypad: a result in exponent notation with a
	// negative exponent carries two minus signs
	e := New()
	pressAll(t, e, "0-.0000001=")
	assertDisplay(t, e, "0-.0000001", "-1e-07")

	assert.Equal(t, OutcomeIgnored, e.ApplyOperator(OpAdd))
	assertDisplay(t, e, "-1e-07", "")

	assert.Equal(t, OutcomeMalformed, e.Evaluate())
	assertDisplay(t, e, "-1e-07", "")
}

func TestEvaluate_InDisplayingIsIdempotent(t *testing.T) {
	e := New()
	pressAll(t, e, "7÷2=")
	before := e.State()

	assert.Equal(t, OutcomeApplied, e.Evaluate())
	assert.Equal(t, before, e.State())

	pressAll(t, e, "C4×=")
	assert.Equal(t, OutcomeError, e.Evaluate())
	assertDisplay(t, e, "4×", ErrorResult)
}

func TestEvaluate_OverflowSaturates(t *testing.T) {
	huge := strings.Repeat("9", 400)

	e := New()
	pressAll(t, e, huge+"+1=")
	assert.Equal(t, "Infinity", e.Result())

	// Infinity reads back as a number when the calculation continues
	pressAll(t, e, "×0=")
	assertDisplay(t, e, "Infinity×0", "NaN")

	e.Clear()
	pressAll(t, e, "0-"+huge+"=")
	assert.Equal(t, "-Infinity", e.Result())
}

func TestEngine_WithLoggerNilKeepsDefault(t *testing.T) {
	e := New(WithLogger(nil))
	require.NotNil(t, e.logger)
	pressAll(t, e, "1+1=")
	assert.Equal(t, "2", e.Result())
}

// assertEval evaluates an expression that may not be reachable through
// the keypad by seeding the engine state directly.
func assertEval(t *testing.T, expression, result string, outcome Outcome) {
	t.Helper()
	e := New()
	e.state = Entering{Expr: ParseExpression(expression)}

	assert.Equal(t, outcome, e.Evaluate(), "outcome for %q", expression)
	assert.Equal(t, expression, e.Expression(), "expression for %q", expression)
	assert.Equal(t, result, e.Result(), "result for %q", expression)
}
