package engine

// Operator is the binary operation held by an expression.
type Operator int

const (
	// OpNone means no operator has been applied yet.
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// operatorPriority is the order in which operator symbols are looked for
// when a display string is read back as an expression.
var operatorPriority = [...]Operator{OpAdd, OpSub, OpMul, OpDiv}

// Operators returns the four operators in priority order.
func Operators() []Operator {
	return operatorPriority[:]
}

// Symbol returns the key label of the operator ("+", "-", "×", "÷").
// OpNone has an empty symbol so it disappears from rendered expressions.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	default:
		return ""
	}
}

func (o Operator) String() string {
	if o == OpNone {
		return "none"
	}
	return o.Symbol()
}

func (o Operator) apply(a, b float64) float64 {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		panic("engine: apply called without an operator")
	}
}

// ParseOperator maps an operator label to its Operator.
// Only the four key labels are accepted.
func ParseOperator(s string) (Operator, error) {
	for _, op := range operatorPriority {
		if s == op.Symbol() {
			return op, nil
		}
	}
	return OpNone, newInputError(ErrCodeInvalidOperator, s)
}

// Token is a digit or the decimal point.
type Token byte

// ParseToken maps "0"-"9" or "." to a Token.
func ParseToken(s string) (Token, error) {
	if len(s) == 1 && (s[0] >= '0' && s[0] <= '9' || s[0] == '.') {
		return Token(s[0]), nil
	}
	return 0, newInputError(ErrCodeInvalidToken, s)
}

// MustToken is ParseToken for literals. It panics on invalid input.
func MustToken(s string) Token {
	t, err := ParseToken(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Token) String() string {
	return string(rune(t))
}
