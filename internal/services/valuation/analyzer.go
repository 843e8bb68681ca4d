// Package valuation derives financial ratios, a pricing verdict and risk
// factors from a single listing. It performs no I/O.
package valuation

import (
	"fmt"
	"unicode/utf8"

	"github.com/ternarybob/flipscout/internal/flippa"
)

// Verdict classifies a listing's asking price against its revenue multiple.
type Verdict string

const (
	VerdictUnderpriced      Verdict = "underpriced"
	VerdictFair             Verdict = "fair"
	VerdictOverpriced       Verdict = "overpriced"
	VerdictInsufficientData Verdict = "insufficient_data"
)

// Typical revenue multiple band for online businesses, inclusive at both ends.
const (
	FairMultipleLow  = 2.0
	FairMultipleHigh = 4.0

	lowTrafficThreshold = 1000
	shortSummaryRunes   = 100
)

// Risk factor labels, listed in the order they are reported.
const (
	RiskNoRevenue         = "No reported revenue"
	RiskNoProfit          = "No reported profit"
	RiskNoTraffic         = "No traffic data available"
	RiskLowTraffic        = "Very low traffic"
	RiskUnverifiedRevenue = "Revenue not verified by Flippa"
	RiskUnverifiedTraffic = "Traffic not verified by Flippa"
	RiskNotSuperSeller    = "Seller is not a verified Super Seller"
	RiskNoBids            = "No bids yet"
	RiskNoImages          = "No images provided"
	RiskShortDescription  = "Very short listing description"
	RiskConfidential      = "Confidential listing - limited data"
)

// Result is the valuation of one listing. Ratios that cannot be computed are nil.
type Result struct {
	ListingID          string   `json:"listing_id"`
	Title              string   `json:"title"`
	AskingPrice        *float64 `json:"asking_price"`
	MonthlyRevenue     *float64 `json:"monthly_revenue"`
	MonthlyProfit      *float64 `json:"monthly_profit"`
	AnnualRevenue      *float64 `json:"annual_revenue"`
	RevenueMultiple    *float64 `json:"revenue_multiple"`
	ProfitMultiple     *float64 `json:"profit_multiple"`
	PricePerVisitor    *float64 `json:"price_per_visitor"`
	EstimatedROIMonths *float64 `json:"estimated_roi_months"`
	RevenuePerVisitor  *float64 `json:"revenue_per_visitor"`
	Verdict            Verdict  `json:"verdict"`
	VerdictReasoning   string   `json:"verdict_reasoning"`
	RiskFactors        []string `json:"risk_factors"`
}

// Analyze computes the valuation of a listing. It never fails and never
// produces NaN or infinite ratios.
func Analyze(listing *flippa.Listing) *Result {
	price := listing.CurrentPrice
	revenue := listing.RevenuePerMonth
	profit := listing.ProfitPerMonth
	uniques := traffic(listing.UniquesPerMonth)

	result := &Result{
		ListingID:      listing.ID,
		Title:          listing.Title,
		AskingPrice:    price,
		MonthlyRevenue: revenue,
		MonthlyProfit:  profit,
	}

	if nonZero(revenue) {
		result.AnnualRevenue = ptr(*revenue * 12)
	}
	if price != nil && nonZero(revenue) {
		result.RevenueMultiple = ptr(*price / (*revenue * 12))
	}
	if price != nil && nonZero(profit) {
		result.ProfitMultiple = ptr(*price / (*profit * 12))
		result.EstimatedROIMonths = ptr(*price / *profit)
	}
	if price != nil && nonZero(uniques) {
		result.PricePerVisitor = ptr(*price / *uniques)
	}
	if revenue != nil && nonZero(uniques) {
		result.RevenuePerVisitor = ptr(*revenue / *uniques)
	}

	result.Verdict, result.VerdictReasoning = classify(result.RevenueMultiple)
	result.RiskFactors = riskFactors(listing)

	return result
}

// classify maps a revenue multiple to a verdict and its reasoning.
func classify(multiple *float64) (Verdict, string) {
	if multiple == nil {
		return VerdictInsufficientData,
			"Cannot determine valuation: listing has no reported revenue data. " +
				"Revenue is needed to calculate revenue multiples and determine fair pricing."
	}

	m := *multiple
	switch {
	case m < FairMultipleLow:
		return VerdictUnderpriced, fmt.Sprintf(
			"At a %.2fx revenue multiple, this listing appears underpriced. "+
				"Most online businesses sell for 2-4x annual revenue. This could be a good deal, "+
				"but investigate why the seller is pricing below market rate.", m)
	case m <= FairMultipleHigh:
		return VerdictFair, fmt.Sprintf(
			"At a %.2fx revenue multiple, this listing is priced within the "+
				"typical 2-4x range for online businesses. The price appears fair relative to revenue.", m)
	default:
		return VerdictOverpriced, fmt.Sprintf(
			"At a %.2fx revenue multiple, this listing is priced above the "+
				"typical 2-4x range. The seller may be factoring in growth potential, brand value, "+
				"or other intangibles. Negotiate or ensure the premium is justified.", m)
	}
}

func riskFactors(listing *flippa.Listing) []string {
	risks := []string{}

	if !nonZero(listing.RevenuePerMonth) {
		risks = append(risks, RiskNoRevenue)
	}
	if !nonZero(listing.ProfitPerMonth) {
		risks = append(risks, RiskNoProfit)
	}
	if listing.UniquesPerMonth == nil {
		risks = append(risks, RiskNoTraffic)
	} else if *listing.UniquesPerMonth < lowTrafficThreshold {
		risks = append(risks, RiskLowTraffic)
	}
	if !listing.HasVerifiedRevenue {
		risks = append(risks, RiskUnverifiedRevenue)
	}
	if !listing.HasVerifiedTraffic {
		risks = append(risks, RiskUnverifiedTraffic)
	}
	if !listing.SuperSeller {
		risks = append(risks, RiskNotSuperSeller)
	}
	if listing.BidCount == 0 {
		risks = append(risks, RiskNoBids)
	}
	if len(listing.Images) == 0 {
		risks = append(risks, RiskNoImages)
	}
	// a missing summary is not flagged
	if listing.Summary != nil && utf8.RuneCountInString(*listing.Summary) < shortSummaryRunes {
		risks = append(risks, RiskShortDescription)
	}
	if listing.Confidential {
		risks = append(risks, RiskConfidential)
	}

	return risks
}

func traffic(v *int) *float64 {
	if v == nil {
		return nil
	}
	return ptr(float64(*v))
}

func nonZero(v *float64) bool {
	return v != nil && *v != 0
}

func ptr(v float64) *float64 {
	return &v
}
