package main

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/schemas"
)

func responseFormatOption() mcp.ToolOption {
	return mcp.WithString("response_format",
		mcp.Enum(schemas.FormatMarkdown, schemas.FormatJSON),
		mcp.DefaultString(schemas.FormatMarkdown),
		mcp.Description("Output format: \"markdown\" (default) or \"json\""),
	)
}

// createSearchListingsTool returns the flippa_search_listings tool definition
func createSearchListingsTool() mcp.Tool {
	return mcp.NewTool("flippa_search_listings",
		mcp.WithDescription(`Search and browse listings on the Flippa marketplace.

Returns a page of listings with price, revenue, profit, traffic and verification details, plus pagination metadata (total results and whether more pages exist).

Examples:
  - Search all open SaaS listings: { "property_type": "saas" }
  - Most profitable websites: { "property_type": "website", "sort_alias": "most_profitable" }`),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("property_type",
			mcp.Enum(flippa.ToolPropertyTypes...),
			mcp.Description("Filter by business type"),
		),
		mcp.WithString("status",
			mcp.Enum(flippa.ListingStatuses...),
			mcp.DefaultString(flippa.StatusOpen),
			mcp.Description("Listing status (default: open)"),
		),
		mcp.WithString("sale_method",
			mcp.Enum(flippa.SaleMethods...),
			mcp.Description("Filter by sale method"),
		),
		mcp.WithString("sort_alias",
			mcp.Enum(flippa.SortAliases...),
			mcp.Description("Sort order"),
		),
		mcp.WithNumber("page_number",
			mcp.Min(1),
			mcp.DefaultNumber(1),
			mcp.Description("Page number, starting at 1 (default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Min(1),
			mcp.Max(flippa.MaxPageSize),
			mcp.DefaultNumber(flippa.DefaultPageSize),
			mcp.Description("Results per page, 1-100 (default: 30)"),
		),
		responseFormatOption(),
	)
}

// createGetListingTool returns the flippa_get_listing tool definition
func createGetListingTool() mcp.Tool {
	return mcp.NewTool("flippa_get_listing",
		mcp.WithDescription("Get full details of a single Flippa listing: pricing, financials, traffic, verification status, seller info and description."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("listing_id",
			mcp.Required(),
			mcp.Description("The Flippa listing ID (e.g. \"12299903\")"),
		),
		responseFormatOption(),
	)
}

// createAnalyzeListingTool returns the flippa_analyze_listing tool definition
func createAnalyzeListingTool() mcp.Tool {
	return mcp.NewTool("flippa_analyze_listing",
		mcp.WithDescription(`Analyze a Flippa listing's valuation, compute financial metrics, and assess risk.

Returns revenue/profit multiples, annual revenue, price per visitor, ROI estimate, a verdict ("underpriced" <2x revenue, "fair" 2-4x, "overpriced" >4x, or "insufficient_data") and risk factors such as unverified revenue, low traffic or missing images.`),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("listing_id",
			mcp.Required(),
			mcp.Description("The Flippa listing ID to analyze"),
		),
		responseFormatOption(),
	)
}

// createComparableSalesTool returns the flippa_comparable_sales tool definition
func createComparableSalesTool() mcp.Tool {
	return mcp.NewTool("flippa_comparable_sales",
		mcp.WithDescription(`Find comparable listings on Flippa for valuation comparison.

If a listing_id is provided, fetches that listing first and uses its property_type and revenue range (0.5x-2x) to find similar listings. You can also search by property_type directly. Returns the comparables with average price, median price, average revenue multiple and price range.`),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("listing_id",
			mcp.Description("Find comparables for this listing"),
		),
		mcp.WithString("property_type",
			mcp.Enum(flippa.ToolPropertyTypes...),
			mcp.Description("Filter by type. Overrides the target listing's type if both are provided"),
		),
		mcp.WithNumber("page_size",
			mcp.Min(1),
			mcp.Max(20),
			mcp.DefaultNumber(10),
			mcp.Description("Number of comparables to return, 1-20 (default: 10)"),
		),
		responseFormatOption(),
	)
}

// createMarketOverviewTool returns the flippa_market_overview tool definition
func createMarketOverviewTool() mcp.Tool {
	return mcp.NewTool("flippa_market_overview",
		mcp.WithDescription(`Get an overview of the open Flippa market.

Without property_type, samples every major category concurrently. Returns total listings, a per-type breakdown, price/revenue/profit statistics, the average revenue multiple and the share of listings with verified revenue. Statistics are computed over up to 100 listings per category.`),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("property_type",
			mcp.Enum(flippa.ToolPropertyTypes...),
			mcp.Description("Limit the overview to one business type"),
		),
		responseFormatOption(),
	)
}
