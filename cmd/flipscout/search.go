package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/schemas"
)

// searchOutput is a search page with the derived has_more flag
type searchOutput struct {
	Meta searchOutputMeta `json:"meta"`
	Data []flippa.Listing `json:"data"`
}

type searchOutputMeta struct {
	flippa.Meta
	HasMore bool `json:"has_more"`
}

func newSearchCmd(app *cli) *cobra.Command {
	input := schemas.NewSearchListingsInput()

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings",
		Long:  `Search Flippa listings by category, status and sale method. Prints one page of results.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schemas.Validate(input); err != nil {
				return err
			}

			page, err := app.listings().SearchListings(cmd.Context(), flippa.SearchParams{
				PageNumber:   input.PageNumber,
				PageSize:     input.PageSize,
				PropertyType: input.PropertyType,
				Status:       input.Status,
				SaleMethod:   input.SaleMethod,
				SortAlias:    input.SortAlias,
			})
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), searchOutput{
				Meta: searchOutputMeta{Meta: page.Meta, HasMore: page.HasMore()},
				Data: page.Data,
			})
		},
	}

	cmd.Flags().StringVar(&input.PropertyType, "property-type", "", "Filter by business type")
	cmd.Flags().StringVar(&input.Status, "status", input.Status, "Listing status (open, closed, ended)")
	cmd.Flags().StringVar(&input.SaleMethod, "sale-method", "", "Filter by sale method (auction, classified)")
	cmd.Flags().StringVar(&input.SortAlias, "sort", "", "Sort order")
	cmd.Flags().IntVar(&input.PageNumber, "page", input.PageNumber, "Page number")
	cmd.Flags().IntVar(&input.PageSize, "page-size", input.PageSize, "Results per page (1-100)")

	return cmd
}
