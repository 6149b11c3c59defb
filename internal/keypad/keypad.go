// Package keypad maps keyboard input onto calculator keys.
//
// The calculator's own labels (0-9 . + - × ÷ C =) always resolve to
// themselves. Terminals cannot type × or ÷ easily, so ASCII aliases are
// accepted as well:
//
//	*  x  X   ×
//	/         ÷
//	enter     =
//	c  backspace  delete  esc   C
package keypad

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/tally/internal/engine"
)

// KeyError reports input that does not map to a keypad key.
type KeyError struct {
	// Input is the rejected key name.
	Input string

	// Offset is the byte offset of Input within a key string, or -1 when
	// the key was resolved on its own.
	Offset int

	Err error
}

func (e *KeyError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("key %q at offset %d: %v", e.Input, e.Offset, e.Err)
	}
	return fmt.Sprintf("key %q: %v", e.Input, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// IsKeyError returns true if err is, or wraps, a KeyError.
func IsKeyError(err error) bool {
	var ke *KeyError
	return errors.As(err, &ke)
}

var aliases = map[string]string{
	"*":         "×",
	"x":         "×",
	"X":         "×",
	"/":         "÷",
	"enter":     engine.EqualsLabel,
	"c":         engine.ClearLabel,
	"backspace": engine.ClearLabel,
	"delete":    engine.ClearLabel,
	"esc":       engine.ClearLabel,
}

// Canonical returns the keypad label an input name stands for. Names that
// are not aliases are returned unchanged.
func Canonical(name string) string {
	if label, ok := aliases[name]; ok {
		return label
	}
	return name
}

// Resolve maps one key name, label or alias, to a key.
func Resolve(name string) (engine.Key, error) {
	k, err := engine.ParseKey(Canonical(name))
	if err != nil {
		return engine.Key{}, &KeyError{Input: name, Offset: -1, Err: err}
	}
	return k, nil
}

// ParseKeys splits s into one key per character, resolving aliases.
// Whitespace is skipped, so "6 * 3 =" and "6×3=" are the same sequence.
func ParseKeys(s string) ([]engine.Key, error) {
	keys := make([]engine.Key, 0, len(s))
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		name := string(r)
		k, err := engine.ParseKey(Canonical(name))
		if err != nil {
			return nil, &KeyError{Input: name, Offset: i, Err: err}
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseArgs parses command-line arguments as key strings and concatenates
// the results.
func ParseArgs(args []string) ([]engine.Key, error) {
	return ParseKeys(strings.Join(args, " "))
}
