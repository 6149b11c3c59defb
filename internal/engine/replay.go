package engine

import (
	"fmt"

	"github.com/roach88/tally/internal/ir"
)

// ReplayMismatch describes one field that differs between the tape and
// the replay.
type ReplayMismatch struct {
	Seq      int64  `json:"seq"`
	Key      string `json:"key"`
	Field    string `json:"field"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

func (m ReplayMismatch) String() string {
	return fmt.Sprintf("seq %d key %q: %s recorded %q, replayed %q",
		m.Seq, m.Key, m.Field, m.Recorded, m.Replayed)
}

// ReplayReport is the result of replaying one session.
type ReplayReport struct {
	SessionID  string           `json:"session_id"`
	Presses    int              `json:"presses"`
	Expression string           `json:"expression"`
	Result     string           `json:"result"`
	Mismatches []ReplayMismatch `json:"mismatches,omitempty"`
}

// Deterministic reports whether the replay matched the tape exactly.
func (r *ReplayReport) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// Replay re-runs a recorded tape through a fresh engine and compares every
// press with what was recorded.
//
// The engine is a pure function of the key sequence, so a tape replays
// identically unless it was recorded by an engine with different rules or
// was altered afterwards. Replay is how `tally replay` proves that.
//
// Presses must belong to one session and be in ascending seq order, as the
// store returns them. A key label the keypad does not know is an error,
// not a mismatch.
func Replay(sessionID string, presses []ir.Press) (*ReplayReport, error) {
	e := New()
	report := &ReplayReport{SessionID: sessionID, Presses: len(presses)}

	var lastSeq int64
	for i, p := range presses {
		if p.SessionID != sessionID {
			return nil, fmt.Errorf("replay: press %d belongs to session %q, not %q", i, p.SessionID, sessionID)
		}
		if i > 0 && p.Seq <= lastSeq {
			return nil, fmt.Errorf("replay: press %d has seq %d after seq %d", i, p.Seq, lastSeq)
		}
		lastSeq = p.Seq

		k, err := ParseKey(p.Key)
		if err != nil {
			return nil, fmt.Errorf("replay: seq %d: %w", p.Seq, err)
		}
		outcome := e.Press(k)

		check := func(field, recorded, replayed string) {
			if recorded != replayed {
				report.Mismatches = append(report.Mismatches, ReplayMismatch{
					Seq:      p.Seq,
					Key:      p.Key,
					Field:    field,
					Recorded: recorded,
					Replayed: replayed,
				})
			}
		}
		check("outcome", p.Outcome, outcome.String())
		check("expression", p.Expression, e.Expression())
		check("result", p.Result, e.Result())
	}

	report.Expression = e.Expression()
	report.Result = e.Result()
	return report, nil
}
