package engine

import (
	"io"
	"log/slog"
	"strings"
)

// Engine is the calculator state machine.
//
// The zero value is not usable; create engines with New. An Engine starts
// in the Entering state with an empty expression.
//
// INVARIANTS:
//   - state is always Entering or Displaying
//   - the expression holds at most one operator
//   - Displaying always carries a non-empty result
type Engine struct {
	state  State
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-operation debug records.
// By default the engine logs nowhere.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine in the initial state.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:  Entering{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Mode returns whether the engine is entering or displaying.
func (e *Engine) Mode() Mode {
	return e.state.Mode()
}

// Expression returns the expression text to render.
func (e *Engine) Expression() string {
	return e.state.Expression()
}

// Result returns the result text to render, or "" when none is shown.
func (e *Engine) Result() string {
	return e.state.Result()
}

// expr returns the expression held by the current state.
func (e *Engine) expr() Expression {
	switch s := e.state.(type) {
	case Displaying:
		return s.Expr
	case Entering:
		return s.Expr
	default:
		panic("engine: unknown state")
	}
}

// AppendToken types a digit or decimal point.
//
// While a result is shown the token starts a new calculation on its own.
// Otherwise it is appended to the operand being typed; repeated decimal
// points are not rejected.
func (e *Engine) AppendToken(t Token) Outcome {
	if _, ok := e.state.(Displaying); ok {
		e.state = Entering{Expr: Expression{Left: t.String()}}
	} else {
		e.state = Entering{Expr: e.expr().appendToken(t)}
	}

	e.logger.Debug("token appended",
		"token", t.String(),
		"expression", e.Expression(),
	)
	return OutcomeApplied
}

// ApplyOperator adds the operator to the expression.
//
// While a result is shown the result text first becomes the expression,
// so the calculation continues from it. The operator is then ignored if
// the expression is empty or already holds an operator.
func (e *Engine) ApplyOperator(op Operator) Outcome {
	if op == OpNone {
		return OutcomeIgnored
	}

	x := e.expr()
	if s, ok := e.state.(Displaying); ok {
		x = ParseExpression(s.Value)
		e.state = Entering{Expr: x}
	}

	if x.IsEmpty() || x.HasOperator() {
		e.logger.Debug("operator ignored",
			"operator", op.Symbol(),
			"expression", x.String(),
		)
		return OutcomeIgnored
	}

	x.Op = op
	e.state = Entering{Expr: x}

	e.logger.Debug("operator applied",
		"operator", op.Symbol(),
		"expression", x.String(),
	)
	return OutcomeApplied
}

// Clear returns the engine to its initial state.
func (e *Engine) Clear() Outcome {
	e.state = Entering{}
	e.logger.Debug("cleared")
	return OutcomeApplied
}

// Evaluate computes the expression and shows the result.
//
// The expression itself is kept so it can be rendered above the result.
// Silent outcomes leave the state unchanged; OutcomeError shows "Error".
func (e *Engine) Evaluate() Outcome {
	x := e.expr()
	value, outcome := evaluate(x)

	switch outcome {
	case OutcomeApplied, OutcomeError:
		e.state = Displaying{Expr: x, Value: value}
	}

	e.logger.Debug("evaluated",
		"expression", x.String(),
		"outcome", outcome.String(),
		"result", e.Result(),
	)
	return outcome
}

// evaluate computes the display value for x.
// The value is only meaningful for OutcomeApplied and OutcomeError.
func evaluate(x Expression) (string, Outcome) {
	if !x.HasOperator() {
		return "", OutcomeNoOperator
	}

	// Left never contains the operator symbol (ParseExpression splits at the
	// first occurrence), so the expression splits into exactly two operands
	// unless Right repeats it.
	if strings.Contains(x.Right, x.Op.Symbol()) {
		return "", OutcomeMalformed
	}

	if x.Op == OpDiv {
		divisor, err := parseOperand(x.Right)
		if err != nil {
			return ErrorResult, OutcomeError
		}
		if divisor == 0 {
			return "", OutcomeDivideByZero
		}
		dividend, err := parseOperand(x.Left)
		if err != nil {
			return ErrorResult, OutcomeError
		}
		return FormatResult(dividend / divisor), OutcomeApplied
	}

	a, err := parseOperand(x.Left)
	if err != nil {
		return ErrorResult, OutcomeError
	}
	b, err := parseOperand(x.Right)
	if err != nil {
		return ErrorResult, OutcomeError
	}
	return FormatResult(x.Op.apply(a, b)), OutcomeApplied
}
