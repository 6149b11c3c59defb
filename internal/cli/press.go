package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/keypad"
)

// PressSurface names the press command on the tape.
const PressSurface = "press"

// PressOptions holds flags for the press command.
type PressOptions struct {
	*RootOptions
	Steps    bool   // print every press, not just the final display
	Database string // optional tape database

	// SessionIDs generates the session ID. Defaults to UUIDv7; tests inject
	// a fixed generator.
	SessionIDs engine.SessionIDGenerator
}

// PressResult is the data payload of the press command.
type PressResult struct {
	SessionID  string     `json:"session_id"`
	Keys       string     `json:"keys"`
	Expression string     `json:"expression"`
	Result     string     `json:"result"`
	Mode       string     `json:"mode"`
	Presses    []ir.Press `json:"presses,omitempty"`
}

// NewPressCommand creates the press command.
func NewPressCommand(rootOpts *RootOptions) *cobra.Command {
	return newPressCommand(&PressOptions{RootOptions: rootOpts})
}

func newPressCommand(opts *PressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "press <keys>...",
		Short: "Press keys and print the display",
		Long: `Press a sequence of keys on a fresh calculator and print the final
expression and result.

Keys may be given as one string or as separate arguments; whitespace is
ignored. ASCII aliases are accepted: * or x for ×, / for ÷, c for C.

Exit codes:
  0 - Keys pressed
  2 - Command error (unknown key, database error)

Examples:
  tally press 6+3=
  tally press 7 / 2 =
  tally press --steps "12x3=+1="
  tally press --db ./tally.db 5-8=`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPress(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Steps, "steps", false, "print every press")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the tape to this SQLite database")

	return cmd
}

func runPress(opts *PressOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	keys, err := keypad.ParseArgs(args)
	if err != nil {
		if outErr := formatter.Error(ErrCodeKey, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "invalid keys", err)
	}

	gen := opts.SessionIDs
	if gen == nil {
		gen = engine.UUIDv7Generator{}
	}
	sessionOpts := []engine.SessionOption{
		engine.WithSurface(PressSurface),
		engine.WithSessionLogger(logger),
	}

	if opts.Database != "" {
		st, closeTape, err := openTape(opts.Database, logger)
		if err != nil {
			return err
		}
		defer closeTape()
		sessionOpts = append(sessionOpts, engine.WithTape(st))
	}

	ctx, cancel := commandContext(cmd, logger)
	defer cancel()

	session := engine.NewSession(gen, sessionOpts...)
	presses, err := session.PressAll(ctx, keys)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record tape", err)
	}
	logger.Debug("keys pressed", "session", session.ID(), "presses", len(presses))

	e := session.Engine()
	result := PressResult{
		SessionID:  session.ID(),
		Keys:       engine.FormatKeys(keys),
		Expression: e.Expression(),
		Result:     e.Result(),
		Mode:       e.Mode().String(),
	}
	if opts.Steps {
		result.Presses = presses
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{
			Status:  "ok",
			Data:    result,
			TraceID: session.ID(),
		})
	}

	w := cmd.OutOrStdout()
	if opts.Steps {
		for _, p := range presses {
			fmt.Fprintf(w, "  [%d] %s %-14s %q %q\n", p.Seq, p.Key, p.Outcome, p.Expression, p.Result)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "expression: %s\n", result.Expression)
	fmt.Fprintf(w, "result:     %s\n", color.New(color.FgGreen, color.Bold).Sprint(result.Result))
	if opts.Database != "" {
		fmt.Fprintf(w, "session:    %s\n", result.SessionID)
	}
	return nil
}
