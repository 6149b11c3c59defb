package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/harness"
)

// FileValidation holds the problems found in one scenario file.
type FileValidation struct {
	File   string                    `json:"file"`
	Errors []harness.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

func (r ValidationResult) errorCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Errors)
	}
	return n
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir|scenario-file>",
		Short: "Validate scenario files without running them",
		Long: `Check scenario files against the scenario schema without pressing any
keys. Catches unknown fields, malformed keys and outcome names, and
assertions missing their required fields.

Exit codes:
  0 - All scenario files valid
  1 - One or more files invalid
  2 - Command error (path not found, no scenario files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := scenarioPaths(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "no scenarios to validate", err)
	}
	formatter.VerboseLog("Found %d scenario file(s) in %s", len(files), path)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		errs, err := harness.ValidateScenarioFile(file)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to validate "+file, err)
		}
		if len(errs) > 0 {
			result.Valid = false
		}
		result.Files = append(result.Files, FileValidation{File: file, Errors: errs})
	}

	if formatter.JSON() {
		return outputValidationJSON(formatter, result)
	}
	return outputValidationText(formatter, result)
}

// scenarioPaths expands path to the scenario files it names.
func scenarioPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return harness.DiscoverScenarios(path, "")
}

func outputValidationJSON(f *OutputFormatter, result ValidationResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Valid {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("validation failed with %d error(s)", result.errorCount()),
		}
	}
	if err := f.Encode(response); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", result.errorCount()))
	}
	return nil
}

func outputValidationText(f *OutputFormatter, result ValidationResult) error {
	w := f.Writer
	for _, file := range result.Files {
		name := filepath.Base(file.File)
		if len(file.Errors) == 0 {
			fmt.Fprintf(w, "%s %s\n", mark(true), name)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", mark(false), name)
		for _, e := range file.Errors {
			if e.Line > 0 {
				fmt.Fprintf(w, "  line %d: %s: %s: %s\n", e.Line, e.Code, e.Field, e.Message)
			} else {
				fmt.Fprintf(w, "  %s: %s: %s\n", e.Code, e.Field, e.Message)
			}
		}
	}
	fmt.Fprintln(w)

	if !result.Valid {
		fmt.Fprintf(w, "%s Validation failed\n", mark(false))
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", result.errorCount()))
	}
	fmt.Fprintf(w, "%s All scenarios valid\n", mark(true))
	return nil
}
