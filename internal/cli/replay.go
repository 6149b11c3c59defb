package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionID     string                  `json:"session_id"`
	Surface       string                  `json:"surface"`
	Presses       int                     `json:"presses"`
	Expression    string                  `json:"expression"`
	Result        string                  `json:"result"`
	Deterministic bool                    `json:"deterministic"`
	Mismatches    []engine.ReplayMismatch `json:"mismatches,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded tapes and verify determinism",
		Long: `Replay every recorded session through a fresh calculator and compare
each press's outcome, expression and result with the tape.

Exit codes:
  0 - All sessions replay identically
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, unknown key on the tape, etc.)

Examples:
  tally replay --db ./tally.db
  tally replay --db ./tally.db --session 0190c4e2-...
  tally replay --db ./tally.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, closeTape, err := openTape(opts.Database, logger)
	if err != nil {
		return err
	}
	defer closeTape()

	ctx, cancel := commandContext(cmd, logger)
	defer cancel()

	sessions, err := replaySessions(ctx, st, opts.SessionID)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}
	for _, rec := range sessions {
		sessionResult, err := replaySession(ctx, st, rec, logger)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", rec.ID), err)
		}
		result.Sessions = append(result.Sessions, sessionResult)
		if !sessionResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	if len(result.Sessions) == 0 {
		fmt.Fprintln(formatter.Writer, "No sessions found in database.")
		return nil
	}
	return outputReplayText(formatter, result)
}

// replaySessions returns the sessions to replay: the one named, or all.
func replaySessions(ctx context.Context, st *store.Store, sessionID string) ([]ir.SessionRecord, error) {
	if sessionID != "" {
		rec, err := st.ReadSession(ctx, sessionID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", sessionID))
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read session", err)
		}
		return []ir.SessionRecord{rec}, nil
	}

	summaries, err := st.ListSessions(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	out := make([]ir.SessionRecord, len(summaries))
	for i, s := range summaries {
		out[i] = s.SessionRecord
	}
	return out, nil
}

func replaySession(ctx context.Context, st *store.Store, rec ir.SessionRecord, logger *slog.Logger) (ReplaySessionResult, error) {
	presses, err := st.ReadPresses(ctx, rec.ID)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	if rec.EngineVersion != ir.EngineVersion {
		logger.Warn("tape recorded by a different engine version",
			"session", rec.ID,
			"recorded", rec.EngineVersion,
			"current", ir.EngineVersion,
		)
	}

	report, err := engine.Replay(rec.ID, presses)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	logger.Debug("session replayed",
		"session", rec.ID,
		"presses", report.Presses,
		"mismatches", len(report.Mismatches),
	)

	return ReplaySessionResult{
		SessionID:     rec.ID,
		Surface:       rec.Surface,
		Presses:       report.Presses,
		Expression:    report.Expression,
		Result:        report.Result,
		Deterministic: report.Deterministic(),
		Mismatches:    report.Mismatches,
	}, nil
}

func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	if err := f.Encode(response); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	w := f.Writer

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		fmt.Fprintf(w, "%s Session: %s\n", mark(s.Deterministic), s.SessionID)
		if f.Verbose {
			fmt.Fprintf(w, "  Surface: %s\n", s.Surface)
			fmt.Fprintf(w, "  Presses: %d\n", s.Presses)
			fmt.Fprintf(w, "  Display: %q %q\n", s.Expression, s.Result)
		} else {
			fmt.Fprintf(w, "  Presses: %d (%s)\n", s.Presses, s.Surface)
		}

		for _, m := range s.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintf(w, "%s All sessions verified deterministic\n", mark(true))
		return nil
	}

	fmt.Fprintf(w, "%s Determinism verification failed\n", mark(false))
	return NewExitError(ExitFailure, "determinism verification failed")
}
