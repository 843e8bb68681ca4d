// Package comparables finds listings similar to a target listing or category
// and summarizes their pricing.
package comparables

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/interfaces"
	"github.com/ternarybob/flipscout/internal/stats"
)

const (
	// DefaultLimit is the number of comparables returned when Request.Limit is unset.
	DefaultLimit = 10

	// Candidates are kept when their monthly revenue is within this band of the target's.
	revenueBandLow  = 0.5
	revenueBandHigh = 2.0
)

// Request selects the comparable set. At least one of ListingID or PropertyType is required.
// An explicit PropertyType overrides the target listing's category.
type Request struct {
	ListingID    string
	PropertyType string
	Limit        int
}

// PriceRange is the min and max positive asking price in a comparable set.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Result is a comparable set and its pricing statistics.
// Statistics are nil when no comparable has a qualifying price.
type Result struct {
	TargetListing      *flippa.Listing  `json:"target_listing"`
	Comparables        []flippa.Listing `json:"comparables"`
	AvgPrice           *float64         `json:"avg_price"`
	MedianPrice        *float64         `json:"median_price"`
	AvgRevenueMultiple *float64         `json:"avg_revenue_multiple"`
	PriceRange         *PriceRange      `json:"price_range"`
}

// Service finds comparable listings
type Service struct {
	source interfaces.ListingSource
	logger arbor.ILogger
}

// NewService creates a new comparables service
func NewService(source interfaces.ListingSource, logger arbor.ILogger) *Service {
	return &Service{
		source: source,
		logger: logger,
	}
}

// Find resolves the target (if any), searches open listings in its category
// and narrows them to the target's revenue band when that leaves any behind.
// Client errors are returned unchanged.
func (s *Service) Find(ctx context.Context, req Request) (*Result, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var target *flippa.Listing
	category := req.PropertyType

	if req.ListingID != "" {
		listing, err := s.source.GetListing(ctx, req.ListingID)
		if err != nil {
			return nil, err
		}
		target = listing
		if category == "" {
			category = target.PropertyType
		}
	}

	if category == "" && req.ListingID == "" {
		return nil, flippa.NewUsageError("Provide either a listing_id or property_type to find comparable listings.")
	}

	page, err := s.source.SearchListings(ctx, flippa.SearchParams{
		PageSize:     limit,
		PropertyType: category,
		Status:       flippa.StatusOpen,
		SortAlias:    flippa.SortMostRelevant,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]flippa.Listing, 0, len(page.Data))
	for _, l := range page.Data {
		if l.ID != req.ListingID {
			candidates = append(candidates, l)
		}
	}

	if target != nil && target.RevenuePerMonth != nil && *target.RevenuePerMonth > 0 {
		if narrowed := withinRevenueBand(candidates, *target.RevenuePerMonth); len(narrowed) > 0 {
			candidates = narrowed
		} else {
			s.logger.Debug().
				Str("listing_id", req.ListingID).
				Int("candidates", len(candidates)).
				Msg("Revenue band matched no candidates, keeping unfiltered set")
		}
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := summarize(candidates)
	result.TargetListing = target

	s.logger.Debug().
		Str("property_type", category).
		Int("comparables", len(result.Comparables)).
		Msg("Comparable listings resolved")

	return result, nil
}

func withinRevenueBand(listings []flippa.Listing, revenue float64) []flippa.Listing {
	low, high := revenue*revenueBandLow, revenue*revenueBandHigh

	var matched []flippa.Listing
	for _, l := range listings {
		if l.RevenuePerMonth != nil && *l.RevenuePerMonth >= low && *l.RevenuePerMonth <= high {
			matched = append(matched, l)
		}
	}
	return matched
}

// summarize computes price statistics over positive prices and the average
// revenue multiple over listings with both a positive price and revenue.
func summarize(comparables []flippa.Listing) *Result {
	var prices, multiples []float64
	for _, l := range comparables {
		if l.CurrentPrice == nil || *l.CurrentPrice <= 0 {
			continue
		}
		prices = append(prices, *l.CurrentPrice)
		if l.RevenuePerMonth != nil && *l.RevenuePerMonth > 0 {
			multiples = append(multiples, *l.CurrentPrice/(*l.RevenuePerMonth*12))
		}
	}

	result := &Result{
		Comparables:        comparables,
		AvgPrice:           stats.Average(prices),
		MedianPrice:        stats.Median(prices),
		AvgRevenueMultiple: stats.Average(multiples),
	}
	if min, max, ok := stats.MinMax(prices); ok {
		result.PriceRange = &PriceRange{Min: min, Max: max}
	}
	return result
}
