package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/keypad"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

// Surface is the surface name recorded for harness sessions.
const Surface = "harness"

// Harness is the test execution engine.
// It runs one scenario against a real session recording to an in-memory tape.
type Harness struct {
	store   *store.Store
	session *engine.Session
	logger  *slog.Logger
}

// Option configures a harness run.
type Option func(*Harness)

// WithLogger sets the logger for the run. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Open an in-memory tape and start a session with a fixed ID
//  2. Press each step's keys, checking its expect clause
//  3. Read the tape back and replay it through a fresh engine
//  4. Evaluate assertions against the trace and final state
//
// The returned error reports a broken run (tape failure); scenario
// failures are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), scenario, opts...)
}

// RunContext is Run with a caller-supplied context for tape I/O.
func RunContext(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("scenario", scenario.Name)
	h.session = engine.NewSession(
		testutil.NewFixedSessionGenerator(scenario.SessionID),
		engine.WithTape(st),
		engine.WithSurface(Surface),
		engine.WithSessionLogger(h.logger),
	)

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	eng := h.session.Engine()
	result.State = FinalState{
		Expression: eng.Expression(),
		Result:     eng.Result(),
		Mode:       eng.Mode().String(),
	}

	if err := h.verifyTape(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to verify tape: %w", err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"presses", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

// executeSteps presses every step's keys and checks its expect clause.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		keys, err := keypad.ParseKeys(step.Press)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		presses, err := h.session.PressAll(ctx, keys)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		for _, p := range presses {
			result.AddPressTrace(p)
		}

		if step.Expect == nil || len(presses) == 0 {
			continue
		}
		last := presses[len(presses)-1]
		for _, msg := range checkExpect(step.Expect, last) {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Press, msg))
		}

		h.logger.Debug("step validated",
			"step", i,
			"press", step.Press,
			"expression", last.Expression,
			"result", last.Result,
		)
	}
	return nil
}

// checkExpect compares a step's expect clause with the press that ended it.
func checkExpect(expect *ExpectClause, p ir.Press) []string {
	var msgs []string
	if expect.Expression != nil && *expect.Expression != p.Expression {
		msgs = append(msgs, fmt.Sprintf("expression = %q, want %q", p.Expression, *expect.Expression))
	}
	if expect.Result != nil && *expect.Result != p.Result {
		msgs = append(msgs, fmt.Sprintf("result = %q, want %q", p.Result, *expect.Result))
	}
	if expect.Outcome != "" && expect.Outcome != p.Outcome {
		msgs = append(msgs, fmt.Sprintf("outcome = %s, want %s", p.Outcome, expect.Outcome))
	}
	return msgs
}

// verifyTape reads the session back from the store and replays it. A tape
// that differs from what the session recorded, or that replays to a
// different display, fails the scenario.
func (h *Harness) verifyTape(ctx context.Context, result *Result) error {
	if len(result.Trace) == 0 {
		return nil
	}

	presses, err := h.store.ReadPresses(ctx, h.session.ID())
	if err != nil {
		return err
	}

	recorded := h.session.Tape()
	if len(presses) != len(recorded) {
		result.AddError(fmt.Sprintf("tape holds %d presses, session recorded %d", len(presses), len(recorded)))
		return nil
	}
	for i := range presses {
		if presses[i] != recorded[i] {
			result.AddError(fmt.Sprintf("tape press %d = %+v, session recorded %+v", i+1, presses[i], recorded[i]))
		}
	}

	report, err := engine.Replay(h.session.ID(), presses)
	if err != nil {
		return err
	}
	for _, m := range report.Mismatches {
		result.AddError("replay: " + m.String())
	}
	return nil
}
