package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newEmbedCmd(a *app) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "embed text...",
		Short: "Compute embeddings, one JSON array per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vecs, err := a.engine.Embed(cmd.Context(), model, args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, v := range vecs {
				if err := enc.Encode(v); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "embedding model id (client:model)")
	return cmd
}
