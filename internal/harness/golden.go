package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/testutil"
)

// goldenDir is relative to the package under test.
const goldenDir = "testdata/golden"

func (e TraceEvent) canonical() map[string]any {
	return map[string]any{
		"seq":        e.Seq,
		"key":        e.Key,
		"outcome":    e.Outcome,
		"expression": e.Expression,
		"result":     e.Result,
	}
}

// MarshalTrace renders a scenario trace as canonical JSON, the golden
// file format. An empty sessionID falls back to testutil.DefaultSessionID
// so goldens stay stable for scenarios that do not pin one.
func MarshalTrace(scenarioName, sessionID string, trace []TraceEvent) ([]byte, error) {
	if sessionID == "" {
		sessionID = testutil.DefaultSessionID
	}
	events := make([]any, 0, len(trace))
	for _, e := range trace {
		events = append(events, e.canonical())
	}
	return ir.MarshalCanonical(map[string]any{
		"scenario_name": scenarioName,
		"session_id":    sessionID,
		"trace":         events,
	})
}

// RunWithGolden runs scenario and checks its trace against
// testdata/golden/<name>.golden. Pass -update to go test to rewrite it.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.SessionID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden checks an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName, sessionID string, result *Result) error {
	t.Helper()

	got, err := MarshalTrace(scenarioName, sessionID, result.Trace)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir(goldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, got)
	return nil
}
