package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/query"
)

// CanonResult is the JSON payload of the canon command.
type CanonResult struct {
	Query     string `json:"query"`
	Canonical string `json:"canonical"`
	Changed   bool   `json:"changed"`
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canon [query]",
		Short: "Rewrite a search query in canonical form",
		Long: `Rewrite a search query in canonical form (encode, then decode).

Operators are reordered, duplicate set members dropped and quoting
normalized. Canonical output is a fixed point: running canon on it
again returns it unchanged.

Examples:
  tsq canon 'lang:en #react from:twitter'
  tsq canon '#a #b #a'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCanon(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter, log := opts.newFormatter(cmd)

	raw, err := queryArg(args, cmd)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	canonical, err := query.Canonicalize(raw, opts.queryOptions()...)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	changed := canonical != raw
	log.Debug("query canonicalized", "changed", changed)

	if formatter.Format == "json" {
		return formatter.Success(CanonResult{Query: raw, Canonical: canonical, Changed: changed})
	}
	return formatter.Success(canonical)
}
