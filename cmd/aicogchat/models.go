package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tSENT AS")
			for _, m := range a.engine.Models() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID(), m.Type, m.RealName())
			}
			return tw.Flush()
		},
	}
}
