package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// Key labels for the two keys that are neither tokens nor operators.
const (
	ClearLabel  = "C"
	EqualsLabel = "="
)

// KeyKind says which engine operation a key drives.
type KeyKind int

const (
	KeyToken KeyKind = iota
	KeyOperator
	KeyClear
	KeyEquals
)

// Key is one keypad button.
type Key struct {
	Kind  KeyKind
	Token Token
	Op    Operator
}

// TokenKey returns the key for a digit or decimal point.
func TokenKey(t Token) Key { return Key{Kind: KeyToken, Token: t} }

// OperatorKey returns the key for an operator.
func OperatorKey(op Operator) Key { return Key{Kind: KeyOperator, Op: op} }

// Label returns the text printed on the key.
func (k Key) Label() string {
	switch k.Kind {
	case KeyToken:
		return k.Token.String()
	case KeyOperator:
		return k.Op.Symbol()
	case KeyClear:
		return ClearLabel
	case KeyEquals:
		return EqualsLabel
	default:
		return ""
	}
}

func (k Key) String() string {
	return k.Label()
}

// ParseKey maps a key label to a Key.
func ParseKey(label string) (Key, error) {
	switch label {
	case ClearLabel:
		return Key{Kind: KeyClear}, nil
	case EqualsLabel:
		return Key{Kind: KeyEquals}, nil
	}
	if t, err := ParseToken(label); err == nil {
		return TokenKey(t), nil
	}
	if op, err := ParseOperator(label); err == nil {
		return OperatorKey(op), nil
	}
	return Key{}, newInputError(ErrCodeInvalidKey, label)
}

// ParseKeys splits s into one key per character. Whitespace is skipped, so
// "6 + 3 =" and "6+3=" are the same sequence.
func ParseKeys(s string) ([]Key, error) {
	keys := make([]Key, 0, len(s))
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		k, err := ParseKey(string(r))
		if err != nil {
			return nil, fmt.Errorf("key at offset %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// FormatKeys joins key labels back into a key string.
func FormatKeys(keys []Key) string {
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k.Label())
	}
	return b.String()
}

// Press dispatches a key to the matching engine operation.
func (e *Engine) Press(k Key) Outcome {
	switch k.Kind {
	case KeyToken:
		return e.AppendToken(k.Token)
	case KeyOperator:
		return e.ApplyOperator(k.Op)
	case KeyClear:
		return e.Clear()
	case KeyEquals:
		return e.Evaluate()
	default:
		return OutcomeIgnored
	}
}
