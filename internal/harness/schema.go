package harness

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioSchema string

// Scenario validation error codes (E200-E209)
const (
	ErrScenarioYAML   = "E200" // file is not valid YAML
	ErrScenarioSchema = "E201" // file does not satisfy the scenario schema
	ErrScenarioRules  = "E202" // file violates a rule the schema cannot express
)

// ValidationError is one problem found in a scenario file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateScenarioFile checks a scenario file against the CUE scenario
// schema, then against the rules LoadScenario enforces (key labels,
// outcome names).
//
// The returned error is reserved for I/O failures; validation problems are
// returned as the slice, which is empty for a valid file.
func ValidateScenarioFile(path string) ([]ValidationError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ValidateScenario(path, data), nil
}

// ValidateScenario validates scenario YAML. filename is used in positions.
func ValidateScenario(filename string, data []byte) []ValidationError {
	f, err := cueyaml.Extract(filename, data)
	if err != nil {
		return []ValidationError{{
			Field:   "(file)",
			Message: err.Error(),
			Code:    ErrScenarioYAML,
		}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect.
		panic(fmt.Sprintf("harness: scenario schema: %v", err))
	}

	doc := ctx.BuildFile(f)
	if err := doc.Err(); err != nil {
		return cueValidationErrors(err, filename, ErrScenarioYAML)
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueValidationErrors(err, filename, ErrScenarioSchema)
	}

	if _, err := ParseScenario(data); err != nil {
		return []ValidationError{{
			Field:   "(scenario)",
			Message: err.Error(),
			Code:    ErrScenarioRules,
		}}
	}
	return nil
}

// cueValidationErrors flattens a CUE error list, keeping the line in the
// scenario file where one is known.
func cueValidationErrors(err error, filename, code string) []ValidationError {
	var out []ValidationError
	seen := map[string]bool{}
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    code,
			Line:    inputLine(e, filename),
		}
		if ve.Field == "" {
			ve.Field = "(root)"
		}
		if seen[ve.Error()] {
			continue
		}
		seen[ve.Error()] = true
		out = append(out, ve)
	}
	return out
}

func inputLine(e cueerrors.Error, filename string) int {
	positions := []token.Pos{e.Position()}
	positions = append(positions, e.InputPositions()...)
	for _, pos := range positions {
		if pos.IsValid() && pos.Filename() == filename {
			return pos.Line()
		}
	}
	return 0
}
