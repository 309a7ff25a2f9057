package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ip-tracker/internal/query"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>...",
		Short: "Print the kind and query parameter for each input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := classifier()
			for _, a := range args {
				q := c(query.ToASCII(a))
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", q.Kind, q.Value, query.BuildQueryParam(q))
			}
			return nil
		},
	}
}
