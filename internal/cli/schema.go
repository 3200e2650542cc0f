package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tsq/internal/interchange"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema for structured documents",
		Long: `Print the CUE definition that structured query documents are
checked against by validate. With --format json the schema source is
returned in the data.schema field.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, _ := rootOpts.newFormatter(cmd)
			schema := interchange.Schema()
			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"schema": schema})
			}
			return formatter.Success(strings.TrimRight(schema, "\n"))
		},
	}

	return cmd
}
