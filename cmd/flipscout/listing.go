package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/flipscout/internal/services/valuation"
)

func newGetCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get [listing-id]",
		Short: "Show a single listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := app.listings().GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), listing)
		},
	}
}

func newAnalyzeCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [listing-id]",
		Short: "Value a listing against its revenue",
		Long:  `Computes revenue and profit multiples for a listing, classifies its asking price and lists risk factors.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := app.listings().GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), valuation.Analyze(listing))
		},
	}
}
