package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/keypad"
	"github.com/roach88/tally/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	SessionID string
	Key       string // optional - filter to one key
	Canonical bool   // print the stored canonical JSON lines
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	SessionID  string     `json:"session_id"`
	Surface    string     `json:"surface"`
	Timeline   []ir.Press `json:"timeline"`
	Expression string     `json:"expression"`
	Result     string     `json:"result"`
	Stats      TraceStats `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Presses  int            `json:"presses"`
	Outcomes map[string]int `json:"outcomes"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print a recorded tape",
		Long: `Print the recorded tape of one session: every key pressed, what the
calculator did with it, and the display it left behind.

The output includes:
- Timeline: the presses in order
- Display: the final expression and result
- Stats: press counts per outcome

With --canonical the stored canonical JSON lines are printed as-is,
one per press, ready for diffing.

Examples:
  tally trace --db ./tally.db --session 0190c4e2-...
  tally trace --db ./tally.db --session 0190c4e2-... --key =
  tally trace --db ./tally.db --session 0190c4e2-... --canonical`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session to trace (required)")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().StringVar(&opts.Key, "key", "", "filter to presses of one key")
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print canonical JSON lines")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
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

	rec, err := st.ReadSession(ctx, opts.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("session not found: %s", opts.SessionID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.SessionID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	if opts.Canonical {
		lines, err := st.ReadTrace(ctx, rec.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read trace", err)
		}
		for _, line := range lines {
			fmt.Fprintln(formatter.Writer, line)
		}
		return nil
	}

	presses, err := st.ReadPresses(ctx, rec.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read presses", err)
	}

	result := buildTrace(rec, presses, opts.Key)

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{
			Status:  "ok",
			Data:    result,
			TraceID: rec.ID,
		})
	}
	outputTraceText(formatter.Writer, result, opts.Verbose)
	return nil
}

// buildTrace assembles the trace of one session. The final display is
// taken from the last press on the tape, before any key filter applies.
func buildTrace(rec ir.SessionRecord, presses []ir.Press, keyFilter string) TraceResult {
	result := TraceResult{
		SessionID: rec.ID,
		Surface:   rec.Surface,
		Timeline:  []ir.Press{},
		Stats:     TraceStats{Outcomes: map[string]int{}},
	}
	if n := len(presses); n > 0 {
		result.Expression, result.Result = presses[n-1].Display()
	}

	want := ""
	if keyFilter != "" {
		want = keypad.Canonical(keyFilter)
	}
	for _, p := range presses {
		if want != "" && p.Key != want {
			continue
		}
		result.Timeline = append(result.Timeline, p)
		result.Stats.Outcomes[p.Outcome]++
	}
	result.Stats.Presses = len(result.Timeline)
	return result
}

func outputTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for Session: %s\n", result.SessionID)
	fmt.Fprintf(w, "Surface: %s\n", result.Surface)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no presses)")
	}
	for _, p := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %s %-14s %q %q\n", p.Seq, p.Key, p.Outcome, p.Expression, p.Result)
		if verbose {
			fmt.Fprintf(w, "       ID: %s\n", truncateID(p.ID))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Display ===")
	fmt.Fprintf(w, "  Expression: %s\n", result.Expression)
	fmt.Fprintf(w, "  Result:     %s\n", result.Result)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Presses: %d\n", result.Stats.Presses)
	for _, name := range engine.OutcomeNames() {
		if n := result.Stats.Outcomes[name]; n > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", name+":", n)
		}
	}
}

// truncateID shortens a press ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:16] + "..."
}
