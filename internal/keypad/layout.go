package keypad

import "github.com/roach88/tally/internal/engine"

// rows is the on-screen arrangement, top to bottom.
var rows = [][]string{
	{"7", "8", "9", "÷"},
	{"4", "5", "6", "×"},
	{"1", "2", "3", "-"},
	{".", "0", "C", "+"},
	{"="},
}

// Layout returns the keypad rows, top to bottom. The last row holds the
// wide equals key.
func Layout() [][]engine.Key {
	out := make([][]engine.Key, len(rows))
	for i, row := range rows {
		out[i] = make([]engine.Key, len(row))
		for j, label := range row {
			k, err := engine.ParseKey(label)
			if err != nil {
				panic("keypad: bad layout label " + label)
			}
			out[i][j] = k
		}
	}
	return out
}

// Keys returns every keypad key in layout order.
func Keys() []engine.Key {
	var out []engine.Key
	for _, row := range Layout() {
		out = append(out, row...)
	}
	return out
}
