package ir

// Press is one recorded key press: the key, what the engine did with it,
// and the display left behind.
//
// Expression and Result are the engine's observable strings after the press
// was applied. Result is empty while the user is still entering an
// expression.
type Press struct {
	ID         string `json:"id"`
	SessionID  string `json:"session_id"`
	Seq        int64  `json:"seq"`
	Key        string `json:"key"`
	Outcome    string `json:"outcome"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Display returns the (expression, result) pair shown after the press.
func (p Press) Display() (string, string) {
	return p.Expression, p.Result
}

// SessionRecord identifies one calculator session on the tape.
// Surface names the display surface that drove it ("press", "tui", "harness").
type SessionRecord struct {
	ID            string `json:"id"`
	Surface       string `json:"surface"`
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// SessionSummary is a session plus tape statistics, as listed by the store.
type SessionSummary struct {
	SessionRecord
	Presses int   `json:"presses"`
	LastSeq int64 `json:"last_seq"`
}
