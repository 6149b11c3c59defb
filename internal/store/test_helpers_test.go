package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/tally/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tape.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestSession(t *testing.T, s *Store, id string) ir.SessionRecord {
	t.Helper()
	rec := ir.SessionRecord{
		ID:            id,
		Surface:       "test",
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if err := s.WriteSession(context.Background(), rec); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	return rec
}

// createTestPress builds a press with a content-addressed ID.
func createTestPress(sessionID string, seq int64, key, outcome, expression, result string) ir.Press {
	return ir.Press{
		ID:         ir.MustPressID(sessionID, seq, key),
		SessionID:  sessionID,
		Seq:        seq,
		Key:        key,
		Outcome:    outcome,
		Expression: expression,
		Result:     result,
	}
}
