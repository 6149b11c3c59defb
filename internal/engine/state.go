package engine

import "strings"

// Mode names which of the two engine states is current.
type Mode int

const (
	ModeEntering Mode = iota
	ModeDisplaying
)

func (m Mode) String() string {
	if m == ModeDisplaying {
		return "displaying"
	}
	return "entering"
}

// Expression is an operand, an optional operator and a second operand.
//
// Left and Right are raw operand text exactly as entered; they are only
// parsed by Evaluate. When Op is OpNone, Right is always empty.
type Expression struct {
	Left  string
	Op    Operator
	Right string
}

// String renders the expression as shown on the display.
func (x Expression) String() string {
	return x.Left + x.Op.Symbol() + x.Right
}

// IsEmpty reports whether nothing has been entered.
func (x Expression) IsEmpty() bool {
	return x.Left == "" && x.Op == OpNone && x.Right == ""
}

// HasOperator reports whether the expression already holds an operator.
func (x Expression) HasOperator() bool {
	return x.Op != OpNone
}

// appendToken extends the operand currently being typed.
func (x Expression) appendToken(t Token) Expression {
	if x.Op == OpNone {
		x.Left += t.String()
	} else {
		x.Right += t.String()
	}
	return x
}

// ParseExpression reads display text back into an Expression.
//
// The first operator symbol found, in priority order + - × ÷, becomes the
// operator; the text before its first occurrence is Left and everything
// after is Right. Text with no operator symbol is a bare Left operand.
// This is how a shown result such as "-5" or "1e-07" is carried into a
// new expression: it already holds an operator, exactly as its text does.
func ParseExpression(s string) Expression {
	for _, op := range operatorPriority {
		sym := op.Symbol()
		if i := strings.Index(s, sym); i >= 0 {
			return Expression{Left: s[:i], Op: op, Right: s[i+len(sym):]}
		}
	}
	return Expression{Left: s}
}

// State is the engine state: either Entering or Displaying.
// The set of implementations is closed.
type State interface {
	// Mode returns which state this is.
	Mode() Mode

	// Expression returns the expression text shown on the display.
	Expression() string

	// Result returns the result text, or "" when no result is shown.
	Result() string

	// stateMarker restricts implementers to this package.
	stateMarker()
}

// Entering is the state while an expression is being composed.
type Entering struct {
	Expr Expression
}

func (Entering) Mode() Mode { return ModeEntering }
func (s Entering) Expression() string { return s.Expr.String() }
func (Entering) Result() string { return "" }
func (Entering) stateMarker() {}

// Displaying is the state after Evaluate produced a number or "Error".
// Value is never empty.
type Displaying struct {
	Expr  Expression
	Value string
}

func (Displaying) Mode() Mode { return ModeDisplaying }
func (s Displaying) Expression() string { return s.Expr.String() }
func (s Displaying) Result() string { return s.Value }
func (Displaying) stateMarker() {}
