package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/dangidongi/internal/money"
)

func currenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported display currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tSYMBOL\tDECIMALS")
			for _, c := range money.Supported() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Code, c.Symbol, c.Fraction)
			}
			return tw.Flush()
		},
	}
}
