package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/keypad"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

// recordSession presses keys on a fresh session and writes its tape to
// the database at dbPath.
func recordSession(t *testing.T, dbPath, sessionID, keys string) []ir.Press {
	t.Helper()

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	parsed, err := keypad.ParseKeys(keys)
	require.NoError(t, err)

	session := engine.NewSession(
		testutil.NewFixedSessionGenerator(sessionID),
		engine.WithTape(st),
		engine.WithSurface("test"),
	)
	presses, err := session.PressAll(context.Background(), parsed)
	require.NoError(t, err)
	return presses
}

// tempDB returns a database path inside a per-test directory.
func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tally.db")
}

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
