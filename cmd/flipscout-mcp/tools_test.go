package main

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool       mcp.Tool
		name       string
		required   []string
		properties []string
	}{
		{
			tool:       createSearchListingsTool(),
			name:       "flippa_search_listings",
			properties: []string{"property_type", "status", "sale_method", "sort_alias", "page_number", "page_size", "response_format"},
		},
		{
			tool:       createGetListingTool(),
			name:       "flippa_get_listing",
			required:   []string{"listing_id"},
			properties: []string{"listing_id", "response_format"},
		},
		{
			tool:       createAnalyzeListingTool(),
			name:       "flippa_analyze_listing",
			required:   []string{"listing_id"},
			properties: []string{"listing_id", "response_format"},
		},
		{
			tool:       createComparableSalesTool(),
			name:       "flippa_comparable_sales",
			properties: []string{"listing_id", "property_type", "page_size", "response_format"},
		},
		{
			tool:       createMarketOverviewTool(),
			name:       "flippa_market_overview",
			properties: []string{"property_type", "response_format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
			assert.ElementsMatch(t, tt.required, tt.tool.InputSchema.Required)
			for _, p := range tt.properties {
				assert.Contains(t, tt.tool.InputSchema.Properties, p)
			}
			assert.Len(t, tt.tool.InputSchema.Properties, len(tt.properties))
		})
	}
}
