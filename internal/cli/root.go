package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/config"
	"github.com/roach88/tsq/internal/interchange"
	"github.com/roach88/tsq/internal/query"
)

// RootOptions holds global settings for all commands, resolved from flags,
// TSQ_* environment variables and the config file.
type RootOptions struct {
	Verbose        bool
	Format         string // "json" | "text"
	Indent         bool
	Validate       bool
	InputFormat    interchange.Format
	MaxQueryLength int
	ConfigFile     string

	// TraceIDs allows overriding the trace ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TraceIDs TraceIDGenerator

	// Logger receives diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewRootOptions returns options holding the built-in defaults.
func NewRootOptions() *RootOptions {
	return &RootOptions{
		Format:         "text",
		Indent:         true,
		Validate:       true,
		InputFormat:    interchange.JSON,
		MaxQueryLength: config.DefaultMaxQueryLength,
	}
}

// apply copies resolved configuration into the options.
func (o *RootOptions) apply(cfg *config.Config) {
	o.Verbose = cfg.Verbose
	o.Format = cfg.Format
	o.Indent = cfg.Indent
	o.Validate = cfg.Validate
	o.InputFormat = cfg.InputFormat
	o.MaxQueryLength = cfg.MaxQueryLength
	o.ConfigFile = cfg.File
}

// queryOptions converts settings into transformer options.
func (o *RootOptions) queryOptions() []query.Option {
	return []query.Option{
		query.WithMaxLength(o.MaxQueryLength),
		query.WithValidation(o.Validate),
	}
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// newFormatter starts one invocation: it draws a trace ID and builds the
// formatter and logger that carry it.
func (o *RootOptions) newFormatter(cmd *cobra.Command) (*OutputFormatter, *slog.Logger) {
	gen := o.TraceIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	traceID := gen.Generate()

	formatter := &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   traceID,
	}
	return formatter, o.logger().With("command", cmd.Name(), "trace_id", traceID)
}

// NewRootCommand creates the root command for the tsq CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(NewRootOptions())
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tsq",
		Short: "tsq - Twitter-style search query transformer",
		Long: `Convert Twitter-style search strings to structured queries and back.

encode parses a query such as "from:twitter #react lang:en" into a
structured document; decode renders a document back to canonical query
text. Settings come from flags, TSQ_* environment variables and an
optional tsq.yaml config file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.New(), cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeConfig+": invalid configuration", err)
			}
			opts.apply(cfg)
			if opts.Logger == nil {
				opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			}
			opts.Logger.Debug("configuration loaded",
				"config_file", cfg.File,
				"format", cfg.Format,
				"input_format", cfg.InputFormat,
				"max_query_length", cfg.MaxQueryLength,
			)
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.String(config.KeyConfig, "", "config file (default ./tsq.yaml or $HOME/.config/tsq/tsq.yaml)")
	flags.StringP(config.KeyFormat, "f", "text", "output format (json|text)")
	flags.BoolP(config.KeyVerbose, "v", false, "verbose output")
	flags.Bool(config.KeyIndent, true, "pretty-print structured output")
	flags.Bool(config.KeyValidate, true, "validate structured queries before decoding")
	flags.String(config.KeyInputFormat, string(interchange.JSON), "interchange format read by decode and validate (json|yaml|hujson)")
	flags.Int(config.KeyMaxQueryLength, config.DefaultMaxQueryLength, "maximum raw query length in bytes (0 disables)")

	// Add subcommands
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewCanonCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// newLogger configures slog based on the verbose flag.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
