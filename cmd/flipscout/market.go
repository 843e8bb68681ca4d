package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/flipscout/internal/schemas"
	"github.com/ternarybob/flipscout/internal/services/market"
)

func newMarketCmd(app *cli) *cobra.Command {
	input := schemas.NewMarketOverviewInput()

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Summarize the open market",
		Long:  `Aggregates open listings across the major categories, or a single category, into price, revenue and profit statistics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schemas.Validate(input); err != nil {
				return err
			}

			snapshot, err := market.NewService(app.listings(), app.logger).Overview(cmd.Context(), input.PropertyType)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		},
	}

	cmd.Flags().StringVar(&input.PropertyType, "property-type", "", "Restrict to a single category")

	return cmd
}
