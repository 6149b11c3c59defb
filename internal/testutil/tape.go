package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/tally/internal/ir"
)

// ErrTapeFull is returned by MemoryTape when a configured failure triggers.
var ErrTapeFull = errors.New("tape full")

// MemoryTape is an in-memory engine.TapeWriter for tests.
//
// Safe for concurrent use.
type MemoryTape struct {
	mu       sync.Mutex
	sessions []ir.SessionRecord
	presses  []ir.Press
	failOn   int
}

// NewMemoryTape returns an empty tape.
func NewMemoryTape() *MemoryTape {
	return &MemoryTape{}
}

// FailOnPress makes the nth WritePress (1-based) return ErrTapeFull.
// Zero disables the failure.
func (m *MemoryTape) FailOnPress(n int) *MemoryTape {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = n
	return m
}

func (m *MemoryTape) WriteSession(_ context.Context, rec ir.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, rec)
	return nil
}

func (m *MemoryTape) WritePress(_ context.Context, p ir.Press) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn > 0 && len(m.presses)+1 == m.failOn {
		return ErrTapeFull
	}
	m.presses = append(m.presses, p)
	return nil
}

// Sessions returns a copy of the written session records.
func (m *MemoryTape) Sessions() []ir.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ir.SessionRecord(nil), m.sessions...)
}

// Presses returns a copy of the written presses.
func (m *MemoryTape) Presses() []ir.Press {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ir.Press(nil), m.presses...)
}
