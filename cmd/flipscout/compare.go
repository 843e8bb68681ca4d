package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/flipscout/internal/schemas"
	"github.com/ternarybob/flipscout/internal/services/comparables"
)

func newCompareCmd(app *cli) *cobra.Command {
	input := schemas.NewComparableSalesInput()

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Find comparable listings",
		Long:  `Finds open listings comparable to a listing (by category and revenue band) or to a category, with pricing statistics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schemas.Validate(input); err != nil {
				return err
			}

			result, err := comparables.NewService(app.listings(), app.logger).Find(cmd.Context(), comparables.Request{
				ListingID:    input.ListingID,
				PropertyType: input.PropertyType,
				Limit:        input.PageSize,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&input.ListingID, "listing-id", "", "Listing to find comparables for")
	cmd.Flags().StringVar(&input.PropertyType, "property-type", "", "Category to compare within")
	cmd.Flags().IntVar(&input.PageSize, "limit", input.PageSize, "Number of comparables (1-20)")

	return cmd
}
