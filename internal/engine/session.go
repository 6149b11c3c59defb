package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tally/internal/ir"
)

// TapeWriter persists a session's presses.
// Implemented by store.Store.
type TapeWriter interface {
	WriteSession(ctx context.Context, rec ir.SessionRecord) error
	WritePress(ctx context.Context, p ir.Press) error
}

// Session drives one Engine and records every key press.
//
// Each press is stamped by the session's logical clock and kept in memory;
// when a TapeWriter is configured it is also written through. The session
// record itself is written lazily with the first press, so a session that
// is opened and abandoned leaves nothing on the tape.
type Session struct {
	id      string
	surface string
	engine  *Engine
	clock   *Clock
	tape    TapeWriter
	logger  *slog.Logger
	opened  bool
	presses []ir.Press
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTape writes every press through to w.
func WithTape(w TapeWriter) SessionOption {
	return func(s *Session) {
		s.tape = w
	}
}

// WithSurface names the display surface driving the session.
func WithSurface(name string) SessionOption {
	return func(s *Session) {
		s.surface = name
	}
}

// WithSessionClock replaces the session's clock.
func WithSessionClock(c *Clock) SessionOption {
	return func(s *Session) {
		s.clock = c
	}
}

// WithSessionLogger sets the logger for the session and its engine.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession starts a session with an ID from gen and a fresh engine.
func NewSession(gen SessionIDGenerator, opts ...SessionOption) *Session {
	s := &Session{
		id:      gen.Generate(),
		surface: "api",
		clock:   NewClock(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)
	s.engine = New(WithLogger(s.logger))
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Engine returns the engine driven by this session.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Record returns the session record written to the tape.
func (s *Session) Record() ir.SessionRecord {
	return ir.SessionRecord{
		ID:            s.id,
		Surface:       s.surface,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

// Press applies k to the engine and records the press.
//
// The engine is updated even when writing to the tape fails; the error
// only reports that the tape is now incomplete.
func (s *Session) Press(ctx context.Context, k Key) (ir.Press, error) {
	outcome := s.engine.Press(k)
	seq := s.clock.Next()

	id, err := ir.PressID(s.id, seq, k.Label())
	if err != nil {
		return ir.Press{}, fmt.Errorf("press %s: %w", k.Label(), err)
	}

	p := ir.Press{
		ID:         id,
		SessionID:  s.id,
		Seq:        seq,
		Key:        k.Label(),
		Outcome:    outcome.String(),
		Expression: s.engine.Expression(),
		Result:     s.engine.Result(),
	}
	s.presses = append(s.presses, p)

	if s.tape != nil {
		if !s.opened {
			if err := s.tape.WriteSession(ctx, s.Record()); err != nil {
				return p, fmt.Errorf("press %s: %w", k.Label(), err)
			}
			s.opened = true
		}
		if err := s.tape.WritePress(ctx, p); err != nil {
			return p, fmt.Errorf("press %s: %w", k.Label(), err)
		}
	}

	s.logger.Debug("key pressed",
		"seq", seq,
		"key", p.Key,
		"outcome", p.Outcome,
	)
	return p, nil
}

// PressAll presses keys in order, stopping at the first tape error.
func (s *Session) PressAll(ctx context.Context, keys []Key) ([]ir.Press, error) {
	out := make([]ir.Press, 0, len(keys))
	for _, k := range keys {
		p, err := s.Press(ctx, k)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Tape returns a copy of every press recorded so far.
func (s *Session) Tape() []ir.Press {
	out := make([]ir.Press, len(s.presses))
	copy(out, s.presses)
	return out
}
