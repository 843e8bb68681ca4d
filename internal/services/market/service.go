// Package market aggregates open listings across categories into a market snapshot.
package market

import (
	"context"
	"sort"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/interfaces"
	"github.com/ternarybob/flipscout/internal/stats"
)

// categoryPageSize is the number of listings sampled per category.
const categoryPageSize = flippa.MaxPageSize

// CategoryStats is one category's entry in the breakdown. Count is the
// provider-reported total; the averages cover the fetched page only.
type CategoryStats struct {
	Type       string   `json:"type"`
	Count      int      `json:"count"`
	AvgPrice   *float64 `json:"avg_price"`
	AvgRevenue *float64 `json:"avg_revenue"`
}

// Snapshot is a cross-category view of the open market.
// TotalListings sums provider totals and may exceed the number of listings
// the statistics were computed over.
type Snapshot struct {
	TotalListings         int             `json:"total_listings"`
	PropertyTypeBreakdown []CategoryStats `json:"property_type_breakdown"`
	PriceStats            *stats.Summary  `json:"price_stats"`
	RevenueStats          *stats.Summary  `json:"revenue_stats"`
	ProfitStats           *stats.Summary  `json:"profit_stats"`
	AvgRevenueMultiple    *float64        `json:"avg_revenue_multiple"`
	VerifiedPercentage    float64         `json:"verified_percentage"`
}

// Service builds market snapshots
type Service struct {
	source     interfaces.ListingSource
	categories []string
	logger     arbor.ILogger
}

// NewService creates a market service over the major property types.
func NewService(source interfaces.ListingSource, logger arbor.ILogger) *Service {
	return &Service{
		source:     source,
		categories: flippa.MajorPropertyTypes,
		logger:     logger,
	}
}

// Overview fetches one page of open listings for category, or for every major
// category concurrently when category is empty. Any failed fetch fails the
// whole overview; client errors are returned unchanged.
func (s *Service) Overview(ctx context.Context, category string) (*Snapshot, error) {
	categories := s.categories
	if category != "" {
		categories = []string{category}
	}

	pages := make([]*flippa.SearchPage, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			page, err := s.source.SearchListings(gctx, flippa.SearchParams{
				PageSize:     categoryPageSize,
				PropertyType: c,
				Status:       flippa.StatusOpen,
			})
			if err != nil {
				s.logger.Warn().
					Str("property_type", c).
					Err(err).
					Msg("Category fetch failed, abandoning market overview")
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := fold(categories, pages)

	s.logger.Debug().
		Int("categories", len(categories)).
		Int("total_listings", snapshot.TotalListings).
		Msg("Market overview aggregated")

	return snapshot, nil
}

// fold combines category pages, in category order, into a Snapshot.
func fold(categories []string, pages []*flippa.SearchPage) *Snapshot {
	snapshot := &Snapshot{
		PropertyTypeBreakdown: make([]CategoryStats, 0, len(categories)),
	}

	var prices, revenues, profits, multiples []float64
	fetched, verified := 0, 0

	for i, page := range pages {
		var categoryPrices, categoryRevenues []float64
		for _, l := range page.Data {
			fetched++
			if l.HasVerifiedRevenue {
				verified++
			}
			if l.CurrentPrice != nil && *l.CurrentPrice > 0 {
				categoryPrices = append(categoryPrices, *l.CurrentPrice)
				if l.RevenuePerMonth != nil && *l.RevenuePerMonth > 0 {
					multiples = append(multiples, *l.CurrentPrice/(*l.RevenuePerMonth*12))
				}
			}
			if l.RevenuePerMonth != nil {
				categoryRevenues = append(categoryRevenues, *l.RevenuePerMonth)
			}
			if l.ProfitPerMonth != nil {
				profits = append(profits, *l.ProfitPerMonth)
			}
		}

		prices = append(prices, categoryPrices...)
		revenues = append(revenues, categoryRevenues...)
		snapshot.TotalListings += page.Meta.TotalResults
		snapshot.PropertyTypeBreakdown = append(snapshot.PropertyTypeBreakdown, CategoryStats{
			Type:       categories[i],
			Count:      page.Meta.TotalResults,
			AvgPrice:   stats.RoundPtr(stats.Average(categoryPrices), 0),
			AvgRevenue: stats.RoundPtr(stats.Average(categoryRevenues), 0),
		})
	}

	sort.SliceStable(snapshot.PropertyTypeBreakdown, func(i, j int) bool {
		return snapshot.PropertyTypeBreakdown[i].Count > snapshot.PropertyTypeBreakdown[j].Count
	})

	snapshot.PriceStats = stats.Summarize(prices)
	snapshot.RevenueStats = stats.Summarize(revenues)
	snapshot.ProfitStats = stats.Summarize(profits)
	snapshot.AvgRevenueMultiple = stats.RoundPtr(stats.Average(multiples), 2)
	if fetched > 0 {
		snapshot.VerifiedPercentage = stats.Round(float64(verified)/float64(fetched), 3)
	}

	return snapshot
}
