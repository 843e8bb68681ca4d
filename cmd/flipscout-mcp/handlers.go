package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/interfaces"
	"github.com/ternarybob/flipscout/internal/schemas"
	"github.com/ternarybob/flipscout/internal/services/comparables"
	"github.com/ternarybob/flipscout/internal/services/market"
	"github.com/ternarybob/flipscout/internal/services/valuation"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
		IsError: true,
	}
}

// failure renders err as a tool error. Errors from the Flippa client and input
// validation are shown as-is; anything else gets a corrective hint.
func failure(logger arbor.ILogger, tool string, err error, action, hint string) *mcp.CallToolResult {
	if flippa.KindOf(err) != "" {
		logger.Warn().Str("tool", tool).Str("kind", string(flippa.KindOf(err))).Err(err).Msg("Tool call failed")
		return errorResult("Error: " + err.Error())
	}
	logger.Error().Str("tool", tool).Err(err).Msg("Tool call failed unexpectedly")
	return errorResult(fmt.Sprintf("Unexpected error %s: %v. %s", action, err, hint))
}

// handleSearchListings implements the flippa_search_listings tool
func handleSearchListings(source interfaces.ListingSource, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := schemas.NewSearchListingsInput()
		if err := schemas.Parse(request.GetArguments(), input); err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		page, err := source.SearchListings(ctx, flippa.SearchParams{
			PageNumber:   input.PageNumber,
			PageSize:     input.PageSize,
			PropertyType: input.PropertyType,
			Status:       input.Status,
			SaleMethod:   input.SaleMethod,
			SortAlias:    input.SortAlias,
		})
		if err != nil {
			return failure(logger, "flippa_search_listings", err,
				"searching listings", "Try again or adjust your search parameters."), nil
		}

		return textResult(formatSearchResults(page, input.ResponseFormat)), nil
	}
}

// handleGetListing implements the flippa_get_listing tool
func handleGetListing(source interfaces.ListingSource, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := schemas.NewGetListingInput()
		if err := schemas.Parse(request.GetArguments(), input); err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		listing, err := source.GetListing(ctx, input.ListingID)
		if err != nil {
			return failure(logger, "flippa_get_listing", err,
				"fetching listing", "Verify the listing_id is correct and try again."), nil
		}

		return textResult(formatListingDetails(listing, input.ResponseFormat)), nil
	}
}

// handleAnalyzeListing implements the flippa_analyze_listing tool
func handleAnalyzeListing(source interfaces.ListingSource, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := schemas.NewAnalyzeListingInput()
		if err := schemas.Parse(request.GetArguments(), input); err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		listing, err := source.GetListing(ctx, input.ListingID)
		if err != nil {
			return failure(logger, "flippa_analyze_listing", err,
				"analyzing listing", "Verify the listing_id is correct and try again."), nil
		}

		return textResult(formatAnalysis(valuation.Analyze(listing), input.ResponseFormat)), nil
	}
}

// handleComparableSales implements the flippa_comparable_sales tool
func handleComparableSales(service *comparables.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := schemas.NewComparableSalesInput()
		if err := schemas.Parse(request.GetArguments(), input); err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		result, err := service.Find(ctx, comparables.Request{
			ListingID:    input.ListingID,
			PropertyType: input.PropertyType,
			Limit:        input.PageSize,
		})
		if err != nil {
			return failure(logger, "flippa_comparable_sales", err,
				"finding comparables", "Try again or adjust parameters."), nil
		}

		return textResult(formatComparables(result, input.ResponseFormat)), nil
	}
}

// handleMarketOverview implements the flippa_market_overview tool
func handleMarketOverview(service *market.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := schemas.NewMarketOverviewInput()
		if err := schemas.Parse(request.GetArguments(), input); err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		snapshot, err := service.Overview(ctx, input.PropertyType)
		if err != nil {
			return failure(logger, "flippa_market_overview", err,
				"building market overview", "Try again or narrow to a single property_type."), nil
		}

		return textResult(formatMarketOverview(snapshot, input.ResponseFormat)), nil
	}
}
