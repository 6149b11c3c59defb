package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tally/internal/ir"
)

// ReadSession returns one session record.
// Returns an error wrapping ErrNotFound if the session does not exist.
func (s *Store) ReadSession(ctx context.Context, id string) (ir.SessionRecord, error) {
	var rec ir.SessionRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, surface, engine_version, ir_version
		FROM sessions
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Surface, &rec.EngineVersion, &rec.IRVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.SessionRecord{}, fmt.Errorf("read session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.SessionRecord{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return rec, nil
}

// ListSessions returns every session with its press count and last seq,
// ordered by id. UUIDv7 session IDs make that creation order.
//
// Returns an empty slice (not nil) for an empty tape.
func (s *Store) ListSessions(ctx context.Context) ([]ir.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.surface, s.engine_version, s.ir_version,
		       COUNT(p.id), COALESCE(MAX(p.seq), 0)
		FROM sessions s
		LEFT JOIN presses p ON p.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.SessionSummary{}
	for rows.Next() {
		var sum ir.SessionSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.Surface,
			&sum.EngineVersion,
			&sum.IRVersion,
			&sum.Presses,
			&sum.LastSeq,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadPresses returns a session's tape ordered by seq ASC, id ASC.
//
// Returns an empty slice (not nil) if the session has no presses.
func (s *Store) ReadPresses(ctx context.Context, sessionID string) ([]ir.Press, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, key, outcome, expression, result
		FROM presses
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query presses: %w", err)
	}
	defer rows.Close()

	presses := []ir.Press{}
	for rows.Next() {
		p, err := scanPress(rows)
		if err != nil {
			return nil, err
		}
		presses = append(presses, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presses: %w", err)
	}
	return presses, nil
}

// LatestPress returns the press with the highest seq in a session.
// Returns an error wrapping ErrNotFound if the session has no presses.
func (s *Store) LatestPress(ctx context.Context, sessionID string) (ir.Press, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, seq, key, outcome, expression, result
		FROM presses
		WHERE session_id = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, sessionID)

	p, err := scanPress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Press{}, fmt.Errorf("latest press %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return ir.Press{}, fmt.Errorf("latest press %s: %w", sessionID, err)
	}
	return p, nil
}

// ReadTrace returns the canonical JSON trace entries of a session, one per
// press, in tape order.
func (s *Store) ReadTrace(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT canonical
		FROM presses
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	lines := []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace: %w", err)
	}
	return lines, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPress(row scanner) (ir.Press, error) {
	var p ir.Press
	err := row.Scan(
		&p.ID,
		&p.SessionID,
		&p.Seq,
		&p.Key,
		&p.Outcome,
		&p.Expression,
		&p.Result,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.Press{}, err
		}
		return ir.Press{}, fmt.Errorf("scan press: %w", err)
	}
	return p, nil
}
