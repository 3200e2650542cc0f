package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // case file filter (glob pattern)
}

// CaseResult holds the result of a single case execution.
type CaseResult struct {
	Suite  string   `json:"suite"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <cases-dir>",
		Short: "Run fixture cases against the transformer",
		Long: `Run YAML fixture suites against the encoder and decoder.

Every case is encoded, decoded and checked against its expectations and
for a canonical fixed point. When <suite-dir>/golden/<case>.golden
exists, the case snapshot must also match it byte for byte.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, etc.)

Examples:
  tsq check ./testdata/cases
  tsq check ./testdata/cases --filter "or_*"
  tsq check ./testdata/cases --update
  tsq check ./testdata/cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter case files by glob pattern")

	return cmd
}

func runCheck(opts *CheckOptions, casesDir string, cmd *cobra.Command) error {
	formatter, log := opts.newFormatter(cmd)

	if _, err := os.Stat(casesDir); errors.Is(err, fs.ErrNotExist) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("cases directory not found: %s", casesDir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("cases directory not found: %s", casesDir))
	}

	files, err := findCaseFiles(casesDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find case files", err)
	}
	log.Debug("case files found", "dir", casesDir, "count", len(files))

	if len(files) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(CheckResult{Cases: []CaseResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No cases found.")
		return nil
	}

	result := CheckResult{Cases: []CaseResult{}}
	for _, file := range files {
		for _, cr := range runCaseFile(opts, file, formatter) {
			result.Cases = append(result.Cases, cr)
			result.Total++
			if cr.Pass {
				result.Passed++
			} else {
				result.Failed++
			}
		}
	}

	if formatter.Format == "json" {
		return outputCheckJSON(formatter, result)
	}
	return outputCheckText(formatter, result)
}

// runCaseFile loads one suite file and runs every case in it.
func runCaseFile(opts *CheckOptions, file string, formatter *OutputFormatter) []CaseResult {
	suite, err := harness.LoadSuite(file)
	if err != nil {
		cr := CaseResult{
			Suite:  filepath.Base(file),
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load suite: %v", err)},
		}
		printCase(formatter, cr)
		return []CaseResult{cr}
	}

	formatter.VerboseLog("Running suite %s (%d case(s))", suite.Name, len(suite.Cases))
	out := harness.RunSuite(suite, opts.queryOptions()...)

	results := make([]CaseResult, 0, len(out.Results))
	for i, r := range out.Results {
		c := suite.Cases[i]
		cr := CaseResult{Suite: suite.Name, Name: r.Case, Pass: r.Pass, Errors: r.Errors}

		golden := goldenFilePath(file, c.Name)
		goldenCheck := compareWithGolden
		if opts.Update {
			goldenCheck = updateGoldenFile
		}
		if err := goldenCheck(golden, c, r); err != nil {
			cr.Pass = false
			cr.Errors = append(cr.Errors, err.Error())
		}

		printCase(formatter, cr)
		results = append(results, cr)
	}
	return results
}

// printCase writes the ✓/✗ line for a case in text mode.
func printCase(formatter *OutputFormatter, cr CaseResult) {
	if formatter.Format == "json" {
		return
	}
	w := formatter.Writer
	if cr.Pass {
		fmt.Fprintf(w, "✓ %s/%s\n", cr.Suite, cr.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s/%s\n", cr.Suite, cr.Name)
	for _, e := range cr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// goldenFilePath returns the path to the golden file for a case.
func goldenFilePath(caseFile, caseName string) string {
	return filepath.Join(filepath.Dir(caseFile), "golden", caseName+".golden")
}

// updateGoldenFile writes the current snapshot as the golden file.
func updateGoldenFile(path string, c harness.Case, r *harness.Result) error {
	data, err := harness.MarshalSnapshot(c.Name, c.Query, r)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden checks the snapshot against path. A missing golden
// file is not a failure.
func compareWithGolden(path string, c harness.Case, r *harness.Result) error {
	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}

	got, err := harness.MarshalSnapshot(c.Name, c.Query, r)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if !bytes.Equal(want, got) {
		return fmt.Errorf("golden file mismatch (run with --update to regenerate)")
	}
	return nil
}

// outputCheckJSON outputs the check result as JSON.
func outputCheckJSON(formatter *OutputFormatter, result CheckResult) error {
	var cliErr *CLIError
	if result.Failed > 0 {
		cliErr = &CLIError{
			Code:    ErrCodeCasesFailed,
			Message: fmt.Sprintf("%d case(s) failed", result.Failed),
		}
	}
	if err := formatter.Respond(result, cliErr); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Case failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// outputCheckText outputs the check summary as text.
func outputCheckText(formatter *OutputFormatter, result CheckResult) error {
	w := formatter.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Case failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}
