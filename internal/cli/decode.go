package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/query"
)

// DecodeResult is the JSON payload of the decode command.
type DecodeResult struct {
	Query string `json:"query"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Render a structured document as query text",
		Long: `Render a structured query document as canonical search query text.

The document is read from the file, or from stdin when the file is
omitted or "-". Its format is set by --input-format. The query is
validated first unless --validate=false is given.

Exit codes:
  0 - Query rendered
  1 - Document malformed or query failed validation
  2 - Command error (unreadable input, etc.)

Examples:
  tsq decode query.json
  tsq decode --input-format yaml query.yaml
  echo '{"hashtags":["go"],"lang":"en"}' | tsq decode`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runDecode(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter, log := opts.newFormatter(cmd)

	path := StdinPath
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Read %d byte(s) of %s from %s", len(data), opts.InputFormat, path)

	out, err := query.DecodeInterchange(data, opts.InputFormat, opts.queryOptions()...)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	log.Debug("query decoded", "length", len(out))
	if formatter.Format == "json" {
		return formatter.Success(DecodeResult{Query: out})
	}
	return formatter.Success(out)
}

// outputQueryError reports a transformer error. Malformed documents and
// failed validation are query failures; anything else is a command error.
func outputQueryError(formatter *OutputFormatter, err error) error {
	var decodeErr *query.InterchangeDecodeError
	if errors.As(err, &decodeErr) {
		_ = formatter.Error(decodeErr.Code(), fmt.Sprintf("invalid %s document: %v", decodeErr.Format, decodeErr.Err), nil)
		return NewExitError(ExitFailure, decodeErr.Error())
	}

	var serializeErr *query.SerializeError
	if errors.As(err, &serializeErr) {
		_ = formatter.Error(serializeErr.Code(), "query failed validation", serializeErr.Errors)
		if formatter.Format != "json" {
			for _, ve := range serializeErr.Errors {
				formatter.VerboseLog("  %s", ve.Error())
			}
		}
		return NewExitError(ExitFailure, serializeErr.Error())
	}

	var parseErr *query.ParseError
	if errors.As(err, &parseErr) {
		_ = formatter.Error(parseErr.Code, parseErr.Message, map[string]int{"offset": parseErr.Offset})
		return NewExitError(ExitFailure, parseErr.Error())
	}

	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "command failed", err)
}
