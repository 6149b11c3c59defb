package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/harness"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGoldens   = "../harness/testdata/golden"
)

const passingScenario = `name: one_plus_one
description: "One plus one is two"
session_id: cli-one-plus-one
steps:
  - press: "1+1="
    expect:
      result: "2"
`

const failingScenario = `name: wrong_sum
description: "Expects the wrong sum"
steps:
  - press: "2+2="
    expect:
      result: "5"
`

func writeScenarioFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios in")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		harnessScenarios, "--golden", harnessGoldens)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ add_two_numbers\n")
	assert.Contains(t, out, "✓ trailing_operator_error\n")
	assert.Contains(t, out, "Test Summary: 12 passed, 0 failed, 12 total")
	assert.Contains(t, out, "✓ All scenarios passed")
	assert.NotContains(t, out, "✗")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}),
		harnessScenarios, "--golden", harnessGoldens, "--filter", "divide_*")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ divide_by_zero_is_silent")
	assert.Contains(t, out, "✓ divide_to_fraction")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "a_pass.yaml", passingScenario)
	writeScenarioFile(t, dir, "b_fail.yaml", failingScenario)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✓ one_plus_one")
	assert.Contains(t, out, "✗ wrong_sum")
	assert.Contains(t, out, `result = "4", want "5"`)
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "broken.yaml", "name: broken\ndescription: x\nsteps: [\n")

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "one_plus_one.yaml", passingScenario)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "one_plus_one.golden"), []byte("{}"), 0o644))

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ one_plus_one")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandUpdateGolden(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "one_plus_one.yaml", passingScenario)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ one_plus_one (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "one_plus_one.golden"))
	require.NoError(t, err)

	scenario, err := harness.LoadScenario(filepath.Join(dir, "one_plus_one.yaml"))
	require.NoError(t, err)
	result, err := harness.Run(scenario)
	require.NoError(t, err)
	want, err := harness.MarshalTrace(scenario.Name, scenario.SessionID, result.Trace)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(golden))

	// A second run compares against the file just written.
	out, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ one_plus_one\n")
}

func TestTestCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "a_pass.yaml", passingScenario)
	writeScenarioFile(t, dir, "b_fail.yaml", failingScenario)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, 2, resp.Data.Total)
	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "wrong_sum", resp.Data.Scenarios[1].Name)
	assert.NotEmpty(t, resp.Data.Scenarios[1].Errors)
}
