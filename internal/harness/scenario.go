package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/keypad"
)

// Scenario defines a conformance test scenario: keys to press, what the
// display must show along the way, and assertions over the whole run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description is a one-line summary, required.
	Description string `yaml:"description"`

	// SessionID fixes the session ID, and with it every press ID.
	// Defaults to testutil.DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`

	// Steps are pressed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step presses one or more keys.
type Step struct {
	// Press is a key string such as "12+3" or "=".
	Press string `yaml:"press"`

	// Expect is checked after the last key of the step. Optional.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the display after a step.
// Nil fields are not checked; an empty string must match exactly, so
// `result: ""` asserts that no result is shown.
type ExpectClause struct {
	Expression *string `yaml:"expression,omitempty"`
	Result     *string `yaml:"result,omitempty"`
	Outcome    string  `yaml:"outcome,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Expression, Result and Mode are used by final_state.
	Expression *string `yaml:"expression,omitempty"`
	Result     *string `yaml:"result,omitempty"`
	Mode       string  `yaml:"mode,omitempty"`

	// Outcome is used by outcome_count, and optionally by trace_contains.
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected number of presses (outcome_count).
	Count *int `yaml:"count,omitempty"`

	// Key is the key label to look for (trace_contains).
	Key string `yaml:"key,omitempty"`

	// Results is the expected sequence of shown results (display_sequence).
	Results []string `yaml:"results,omitempty"`
}

// Assertion types.
const (
	AssertFinalState      = "final_state"
	AssertOutcomeCount    = "outcome_count"
	AssertTraceContains   = "trace_contains"
	AssertDisplaySequence = "display_sequence"
)

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// LoadScenario decodes and validates the scenario at path. Unknown YAML
// fields are an error.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// DiscoverScenarios lists the scenario files in dir, sorted by name.
// If filter is non-empty only files whose base name matches the glob are
// returned. Finding no scenarios is an error.
func DiscoverScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, name); !ok {
				if ok, _ := filepath.Match(filter, strings.TrimSuffix(name, ext)); !ok {
					continue
				}
			}
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		if filter != "" {
			return nil, fmt.Errorf("no scenarios in %s match %q", dir, filter)
		}
		return nil, fmt.Errorf("no scenarios in %s", dir)
	}
	return paths, nil
}

// validateScenario enforces the required fields and step shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validName.MatchString(s.Name) {
		return fmt.Errorf("name %q must be lower_snake_case", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if strings.TrimSpace(step.Press) == "" {
			return fmt.Errorf("steps[%d]: press is required", i)
		}
		if _, err := keypad.ParseKeys(step.Press); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Expect != nil {
			if err := validateOutcome(step.Expect.Outcome); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateOutcome(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := engine.ParseOutcome(name); !ok {
		return fmt.Errorf("unknown outcome %q (want one of %s)",
			name, strings.Join(engine.OutcomeNames(), ", "))
	}
	return nil
}

// validateAssertion checks the fields each assertion type needs.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalState:
		if a.Expression == nil && a.Result == nil && a.Mode == "" {
			return fmt.Errorf("assertions[%d]: final_state needs expression, result or mode", index)
		}
		if a.Mode != "" && a.Mode != engine.ModeEntering.String() && a.Mode != engine.ModeDisplaying.String() {
			return fmt.Errorf("assertions[%d]: unknown mode %q", index, a.Mode)
		}
	case AssertOutcomeCount:
		if a.Outcome == "" {
			return fmt.Errorf("assertions[%d]: outcome is required for outcome_count", index)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for outcome_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for outcome_count", index)
		}
	case AssertTraceContains:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for trace_contains", index)
		}
		if _, err := keypad.Resolve(a.Key); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertDisplaySequence:
		if a.Results == nil {
			return fmt.Errorf("assertions[%d]: results is required for display_sequence", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if err := validateOutcome(a.Outcome); err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}
	return nil
}
