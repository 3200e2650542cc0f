package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/interchange"
	"github.com/roach88/tsq/internal/ir"
	"github.com/roach88/tsq/internal/query"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	To string // interchange format for text output
}

// EncodeResult is the JSON payload of the encode command.
type EncodeResult struct {
	Query       string   `json:"query"`
	Structured  ir.Query `json:"structured"`
	Fingerprint string   `json:"fingerprint"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode [query]",
		Short: "Parse a search query into a structured document",
		Long: `Parse a Twitter-style search query into a structured document.

The query is read from the argument, or from stdin when omitted.
Unknown operators, malformed dates and dangling OR keywords are kept
as free text rather than rejected.

Examples:
  tsq encode 'from:twitter #react lang:en since:2023-01-01'
  tsq encode '#javascript OR #react' --to yaml
  echo '-from:spamAccount "exact phrase"' | tsq encode --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.To, "to", "t", string(interchange.JSON), "document format for text output (json|yaml|hujson)")

	return cmd
}

func runEncode(opts *EncodeOptions, args []string, cmd *cobra.Command) error {
	formatter, log := opts.newFormatter(cmd)

	to, err := interchange.ParseFormat(opts.To)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --to", err)
	}

	raw, err := queryArg(args, cmd)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	q, err := query.Encode(raw, opts.queryOptions()...)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	fingerprint, err := ir.Fingerprint(q)
	if err != nil {
		return WrapExitError(ExitCommandError, "fingerprint failed", err)
	}
	log.Debug("query encoded", "fields", summarize(q), "fingerprint", fingerprint)
	formatter.VerboseLog("Fingerprint: %s", fingerprint)

	if formatter.Format == "json" {
		return formatter.Success(EncodeResult{
			Query:       raw,
			Structured:  q,
			Fingerprint: fingerprint,
		})
	}

	doc, err := interchange.Marshal(q, to, opts.Indent)
	if err != nil {
		return WrapExitError(ExitCommandError, "marshal failed", err)
	}
	return formatter.Success(string(doc))
}

// queryArg returns the raw query from the single argument or from stdin.
// A trailing line break from stdin is not part of the query.
func queryArg(args []string, cmd *cobra.Command) (string, error) {
	if len(args) == 1 && args[0] != StdinPath {
		return args[0], nil
	}
	data, err := readInput(StdinPath, cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// outputLoadError reports an input error and maps it to a command error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, pathDetails(loadErr.Path))
		return NewExitError(ExitCommandError, loadErr.Error())
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "reading input failed", err)
}

func pathDetails(path string) any {
	if path == "" {
		return nil
	}
	return map[string]string{"path": path}
}

// summarize renders a one-line summary of a structured query for logs.
func summarize(q ir.Query) string {
	fields := q.SetFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("[%s]", strings.Join(names, " "))
}
