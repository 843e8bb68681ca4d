package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/schemas"
	"github.com/ternarybob/flipscout/internal/services/comparables"
	"github.com/ternarybob/flipscout/internal/services/market"
	"github.com/ternarybob/flipscout/internal/services/valuation"
	"github.com/ternarybob/flipscout/internal/stats"
)

// characterLimit caps every tool response
const characterLimit = 25000

const truncationNotice = "\n\n---\n⚠️ Response truncated at 25,000 characters. Use page_size or filters to narrow results."

// searchResult is the search response with the derived has_more flag
type searchResult struct {
	Meta searchMeta       `json:"meta"`
	Data []flippa.Listing `json:"data"`
}

type searchMeta struct {
	PageNumber   int  `json:"page_number"`
	PageSize     int  `json:"page_size"`
	TotalResults int  `json:"total_results"`
	HasMore      bool `json:"has_more"`
}

func newSearchResult(page *flippa.SearchPage) searchResult {
	return searchResult{
		Meta: searchMeta{
			PageNumber:   page.Meta.PageNumber,
			PageSize:     page.Meta.PageSize,
			TotalResults: page.Meta.TotalResults,
			HasMore:      page.HasMore(),
		},
		Data: page.Data,
	}
}

// truncate cuts text longer than characterLimit and appends the truncation notice
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= characterLimit {
		return text
	}
	return string(runes[:characterLimit-100]) + truncationNotice
}

// formatUSD formats a dollar amount with en-US separators, or N/A
func formatUSD(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return "$" + formatFloat(*v)
}

// formatCount formats an integer count with en-US separators, or N/A
func formatCount(v *int) string {
	if v == nil {
		return "N/A"
	}
	return humanize.Comma(int64(*v))
}

// formatFloat renders at most three fraction digits with thousands separators
func formatFloat(v float64) string {
	return humanize.Commaf(stats.Round(v, 3))
}

func formatFixed(v *float64, prefix, format, suffix string) string {
	if v == nil {
		return "N/A"
	}
	return prefix + fmt.Sprintf(format, *v) + suffix
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func toJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: failed to encode response: %v", err)
	}
	return truncate(string(data))
}

// formatListingSummary formats a listing as a numbered markdown entry
func formatListingSummary(sb *strings.Builder, l *flippa.Listing, index int) {
	sb.WriteString(fmt.Sprintf("### %d. %s\n", index, l.Title))
	sb.WriteString(fmt.Sprintf("- **ID:** %s | **Type:** %s | **Status:** %s\n", l.ID, l.PropertyType, l.Status))
	sb.WriteString(fmt.Sprintf("- **Price:** %s | **Sale Method:** %s\n", formatUSD(l.CurrentPrice), l.SaleMethod))
	sb.WriteString(fmt.Sprintf("- **Revenue/mo:** %s | **Profit/mo:** %s\n", formatUSD(l.RevenuePerMonth), formatUSD(l.ProfitPerMonth)))
	sb.WriteString(fmt.Sprintf("- **Bids:** %d | **Verified Revenue:** %s | **Verified Traffic:** %s\n",
		l.BidCount, yesNo(l.HasVerifiedRevenue), yesNo(l.HasVerifiedTraffic)))
	if l.UniquesPerMonth != nil {
		sb.WriteString(fmt.Sprintf("- **Uniques/mo:** %s\n", formatCount(l.UniquesPerMonth)))
	}
	if l.HTMLURL != nil && *l.HTMLURL != "" {
		sb.WriteString(fmt.Sprintf("- **URL:** %s\n", *l.HTMLURL))
	}
}

// formatSearchResults formats a search page
func formatSearchResults(page *flippa.SearchPage, format string) string {
	result := newSearchResult(page)
	if format == schemas.FormatJSON {
		return toJSON(result)
	}

	var sb strings.Builder
	sb.WriteString("# Flippa Listings Search Results\n\n")
	sb.WriteString(fmt.Sprintf("**Page %d** | **%d total results** | **%d shown** | **Has more:** %s\n\n",
		result.Meta.PageNumber, result.Meta.TotalResults, len(result.Data), yesNo(result.Meta.HasMore)))

	if len(result.Data) == 0 {
		sb.WriteString("No listings found matching your criteria. Try broadening your search filters.\n")
		return truncate(sb.String())
	}

	for i := range result.Data {
		formatListingSummary(&sb, &result.Data[i], i+1)
		sb.WriteString("\n")
	}
	return truncate(sb.String())
}

// formatListingDetails formats a single listing as a field table
func formatListingDetails(l *flippa.Listing, format string) string {
	if format == schemas.FormatJSON {
		return toJSON(l)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", l.Title))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")

	rows := [][2]string{
		{"Listing ID", l.ID},
		{"Property Type", l.PropertyType},
		{"Status", l.Status},
		{"Sale Method", l.SaleMethod},
		{"Current Price", formatUSD(l.CurrentPrice)},
		{"Display Price", formatUSD(l.DisplayPrice)},
		{"Buy It Now Price", formatUSD(l.BuyItNowPrice)},
		{"Revenue/mo", formatUSD(l.RevenuePerMonth)},
		{"Profit/mo", formatUSD(l.ProfitPerMonth)},
		{"Avg Revenue", formatUSD(l.AverageRevenue)},
		{"Avg Profit", formatUSD(l.AverageProfit)},
		{"Bid Count", fmt.Sprintf("%d", l.BidCount)},
		{"Industry", orNA(l.Industry)},
		{"Business Model", orNA(l.BusinessModel)},
		{"Uniques/mo", formatCount(l.UniquesPerMonth)},
		{"Page Views/mo", formatCount(l.PageViewsPerMonth)},
		{"App Downloads/mo", formatCount(l.AppDownloadsPerMonth)},
		{"Verified Revenue", yesNo(l.HasVerifiedRevenue)},
		{"Verified Traffic", yesNo(l.HasVerifiedTraffic)},
		{"Super Seller", yesNo(l.SuperSeller)},
		{"Confidential", yesNo(l.Confidential)},
		{"Reserve Met", yesNo(l.ReserveMet)},
		{"Seller Location", orNA(l.SellerLocation)},
		{"Established", orNA(l.EstablishedAt)},
		{"Starts", orNA(l.StartsAt)},
		{"Ends", orNA(l.EndsAt)},
		{"Hostname", orNA(l.Hostname)},
		{"Listing URL", orNA(l.HTMLURL)},
		{"External URL", orNA(l.ExternalURL)},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
	}

	if l.Summary != nil && *l.Summary != "" {
		sb.WriteString("\n## Description\n")
		sb.WriteString(*l.Summary + "\n")
	}
	if l.RevenueSources != nil && *l.RevenueSources != "" {
		sb.WriteString("\n## Revenue Sources\n")
		sb.WriteString(*l.RevenueSources + "\n")
	}

	return truncate(sb.String())
}

// formatAnalysis formats a valuation result
func formatAnalysis(a *valuation.Result, format string) string {
	if format == schemas.FormatJSON {
		return toJSON(a)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Listing Analysis: %s\n\n", a.Title))
	sb.WriteString("## Financial Summary\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Asking Price | %s |\n", formatUSD(a.AskingPrice)))
	sb.WriteString(fmt.Sprintf("| Monthly Revenue | %s |\n", formatUSD(a.MonthlyRevenue)))
	sb.WriteString(fmt.Sprintf("| Monthly Profit | %s |\n", formatUSD(a.MonthlyProfit)))
	sb.WriteString(fmt.Sprintf("| Annual Revenue | %s |\n", formatUSD(a.AnnualRevenue)))
	sb.WriteString(fmt.Sprintf("| Revenue Multiple | %s |\n", formatFixed(a.RevenueMultiple, "", "%.2f", "x")))
	sb.WriteString(fmt.Sprintf("| Profit Multiple | %s |\n", formatFixed(a.ProfitMultiple, "", "%.2f", "x")))
	sb.WriteString(fmt.Sprintf("| Price per Visitor | %s |\n", formatFixed(a.PricePerVisitor, "$", "%.2f", "")))
	sb.WriteString(fmt.Sprintf("| Est. ROI (months) | %s |\n", formatFixed(a.EstimatedROIMonths, "", "%.1f", "")))
	sb.WriteString(fmt.Sprintf("| Revenue per Visitor | %s |\n", formatFixed(a.RevenuePerVisitor, "$", "%.4f", "")))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("## Verdict: **%s**\n", strings.ToUpper(string(a.Verdict))))
	sb.WriteString(a.VerdictReasoning + "\n\n")

	sb.WriteString("## Risk Factors\n")
	if len(a.RiskFactors) == 0 {
		sb.WriteString("No significant risk factors identified.\n")
	}
	for _, risk := range a.RiskFactors {
		sb.WriteString(fmt.Sprintf("- ⚠️ %s\n", risk))
	}

	return truncate(sb.String())
}

// formatComparables formats a comparables result
func formatComparables(r *comparables.Result, format string) string {
	if format == schemas.FormatJSON {
		return toJSON(r)
	}

	var sb strings.Builder
	sb.WriteString("# Comparable Sales Analysis\n\n")

	if t := r.TargetListing; t != nil {
		sb.WriteString("## Target Listing\n")
		sb.WriteString(fmt.Sprintf("- **%s** (ID: %s)\n", t.Title, t.ID))
		sb.WriteString(fmt.Sprintf("- Price: %s | Revenue/mo: %s\n\n", formatUSD(t.CurrentPrice), formatUSD(t.RevenuePerMonth)))
	}

	sb.WriteString("## Market Comparison\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Avg Price | %s |\n", formatUSD(r.AvgPrice)))
	sb.WriteString(fmt.Sprintf("| Median Price | %s |\n", formatUSD(r.MedianPrice)))
	sb.WriteString(fmt.Sprintf("| Avg Revenue Multiple | %s |\n", formatFixed(r.AvgRevenueMultiple, "", "%.2f", "x")))
	if r.PriceRange != nil {
		sb.WriteString(fmt.Sprintf("| Price Range | %s - %s |\n", formatUSD(&r.PriceRange.Min), formatUSD(&r.PriceRange.Max)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Comparable Listings (%d)\n\n", len(r.Comparables)))
	if len(r.Comparables) == 0 {
		sb.WriteString("No comparable listings found. Try broadening the search criteria.\n")
		return truncate(sb.String())
	}
	for i := range r.Comparables {
		formatListingSummary(&sb, &r.Comparables[i], i+1)
		sb.WriteString("\n")
	}

	return truncate(sb.String())
}

// formatMarketOverview formats a market snapshot
func formatMarketOverview(s *market.Snapshot, format string) string {
	if format == schemas.FormatJSON {
		return toJSON(s)
	}

	var sb strings.Builder
	sb.WriteString("# Flippa Market Overview\n\n")
	sb.WriteString(fmt.Sprintf("**Total Active Listings:** %s\n", humanize.Comma(int64(s.TotalListings))))
	sb.WriteString(fmt.Sprintf("**Verified Revenue Rate:** %.1f%%\n", s.VerifiedPercentage*100))
	if s.AvgRevenueMultiple != nil {
		sb.WriteString(fmt.Sprintf("**Avg Revenue Multiple:** %.2fx\n", *s.AvgRevenueMultiple))
	}
	sb.WriteString("\n")

	if len(s.PropertyTypeBreakdown) > 0 {
		sb.WriteString("## Listings by Type\n")
		sb.WriteString("| Type | Count | Avg Price | Avg Revenue/mo |\n")
		sb.WriteString("|------|-------|-----------|----------------|\n")
		for _, entry := range s.PropertyTypeBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n", entry.Type, entry.Count, formatUSD(entry.AvgPrice), formatUSD(entry.AvgRevenue)))
		}
		sb.WriteString("\n")
	}

	writeStats(&sb, "Price Statistics", s.PriceStats)
	writeStats(&sb, "Revenue Statistics (Monthly)", s.RevenueStats)
	writeStats(&sb, "Profit Statistics (Monthly)", s.ProfitStats)

	return truncate(sb.String())
}

func writeStats(sb *strings.Builder, label string, summary *stats.Summary) {
	if summary == nil {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n", label))
	sb.WriteString("| Stat | Value |\n")
	sb.WriteString("|------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Min | %s |\n", formatUSD(&summary.Min)))
	sb.WriteString(fmt.Sprintf("| Max | %s |\n", formatUSD(&summary.Max)))
	sb.WriteString(fmt.Sprintf("| Average | %s |\n", formatUSD(&summary.Avg)))
	sb.WriteString(fmt.Sprintf("| Median | %s |\n", formatUSD(&summary.Median)))
	sb.WriteString("\n")
}
