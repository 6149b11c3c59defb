package store

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/ir"
)

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING, so writing the same session twice is a no-op.
func (s *Store) WriteSession(ctx context.Context, rec ir.SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("write session: empty id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, surface, engine_version, ir_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Surface, rec.EngineVersion, rec.IRVersion)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WritePress appends a press to its session's tape.
//
// Presses are idempotent on ID. A different press at an already used
// (session, seq) slot violates UNIQUE(session_id, seq) and returns an
// error. The session must already exist (foreign key).
func (s *Store) WritePress(ctx context.Context, p ir.Press) error {
	if p.ID == "" {
		return fmt.Errorf("write press: empty id")
	}

	canonical, err := ir.MarshalCanonical(p.CanonicalMap())
	if err != nil {
		return fmt.Errorf("write press: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presses
		(id, session_id, seq, key, outcome, expression, result, canonical)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		p.ID,
		p.SessionID,
		p.Seq,
		p.Key,
		p.Outcome,
		p.Expression,
		p.Result,
		string(canonical),
	)
	if err != nil {
		return fmt.Errorf("write press: %w", err)
	}
	return nil
}
