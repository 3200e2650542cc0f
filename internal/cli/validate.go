package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/interchange"
	"github.com/roach88/tsq/internal/validate"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []validate.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a structured document without decoding it",
		Long: `Check a structured query document against the interchange schema
and the validation rules, reporting every violation found.

The document is read from the file, or from stdin when the file is
omitted or "-". Its format is set by --input-format. Schema violations
(E107) are reported first; the E1xx value rules run only on documents
that match the schema.

Exit codes:
  0 - Document valid
  1 - Document malformed or invalid
  2 - Command error (unreadable input, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter, log := opts.newFormatter(cmd)

	path := StdinPath
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return outputLoadError(formatter, err)
	}

	errs, err := validateDocument(data, opts.InputFormat)
	if err != nil {
		var decodeErr *interchange.DecodeError
		if errors.As(err, &decodeErr) {
			return outputQueryError(formatter, err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validation failed to run", err)
	}

	log.Debug("document validated", "errors", len(errs))
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter)
}

// validateDocument runs the schema check and, if it passes, the value
// rules. Returns all errors found (does not fail-fast).
func validateDocument(data []byte, f interchange.Format) ([]validate.ValidationError, error) {
	errs, err := interchange.CheckSchema(data, f)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return errs, nil
	}

	q, err := interchange.Unmarshal(data, f)
	if err != nil {
		return nil, err
	}
	return validate.Validate(q), nil
}

// outputValidateSuccess outputs a validation success message.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Query valid")
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []validate.ValidationError) error {
	if formatter.Format == "json" {
		err := formatter.Respond(ValidationResult{Valid: false, Errors: errs}, &CLIError{
			Code:    errs[0].Code,
			Message: errs[0].Message,
		})
		if err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
