package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/tui"
)

// TUISurface names the interactive keypad on the tape.
const TUISurface = "tui"

// TUIOptions holds flags for the tui command.
type TUIOptions struct {
	*RootOptions
	Database string
	LogFile  string // slog output; the terminal is owned by the keypad
	Inline   bool   // draw below the prompt instead of on the alternate screen
}

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TUIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive keypad",
		Long: `Open the calculator as an interactive keypad in the terminal.

Type digits, . and the operators; * and / stand in for × and ÷,
Enter evaluates, c or Backspace clears, q or Ctrl-C quits.

Examples:
  tally tui
  tally tui --db ./tally.db
  tally tui --log-file ./tally.log -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the tape to this SQLite database")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "do not use the alternate screen")

	return cmd
}

func runTUI(opts *TUIOptions, cmd *cobra.Command) error {
	var logOut io.Writer = io.Discard
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open log file", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(opts.RootOptions, logOut)

	sessionOpts := []engine.SessionOption{
		engine.WithSurface(TUISurface),
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

	session := engine.NewSession(engine.UUIDv7Generator{}, sessionOpts...)
	logger.Info("keypad opened", "session", session.ID())

	var programOpts []tea.ProgramOption
	if !opts.Inline {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if err := tui.Run(ctx, session, programOpts...); err != nil {
		return WrapExitError(ExitFailure, "keypad failed", err)
	}

	logger.Info("keypad closed", "session", session.ID(), "presses", len(session.Tape()))
	if opts.Database != "" && len(session.Tape()) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "session %s recorded to %s\n", session.ID(), opts.Database)
	}
	return nil
}
