// Package flippatest provides listing fixtures and a fake ListingSource for tests.
package flippatest

import (
	"context"
	"sync"

	"github.com/ternarybob/flipscout/internal/flippa"
)

// Listing returns a healthy, fully populated SaaS listing with overrides applied.
func Listing(overrides ...func(*flippa.Listing)) *flippa.Listing {
	l := &flippa.Listing{
		Type:               "listing",
		ID:                 "12345",
		Title:              "Test SaaS Business",
		PropertyName:       "test-saas.com",
		PropertyType:       "saas",
		Status:             flippa.StatusOpen,
		SaleMethod:         "classified",
		CurrentPrice:       Float(50000),
		DisplayPrice:       Float(50000),
		AverageRevenue:     Float(2000),
		AverageProfit:      Float(1500),
		RevenuePerMonth:    Float(2000),
		ProfitPerMonth:     Float(1500),
		BidCount:           5,
		BusinessModel:      String("subscription"),
		Industry:           String("technology"),
		UniquesPerMonth:    Int(10000),
		PageViewsPerMonth:  Int(30000),
		HasVerifiedRevenue: true,
		HasVerifiedTraffic: true,
		ReserveMet:         true,
		SuperSeller:        true,
		SellerLocation:     String("United States"),
		Summary: String("A well-established SaaS business with consistent revenue and growing user base. " +
			"Monthly recurring revenue has been stable for the past 12 months with strong retention."),
		EstablishedAt:  String("2020-01-15T00:00:00+00:00"),
		StartsAt:       String("2024-01-01T00:00:00+00:00"),
		EndsAt:         String("2024-02-01T00:00:00+00:00"),
		Hostname:       String("test-saas.com"),
		HTMLURL:        String("https://flippa.com/12345"),
		ExternalURL:    String("https://test-saas.com"),
		RevenueSources: String("Subscriptions, one-time purchases"),
		Images:         []flippa.Image{{URL: "https://flippa.com/images/12345/screenshot.png"}},
	}
	for _, o := range overrides {
		o(l)
	}
	return l
}

// Page wraps listings in a SearchPage whose total equals len(listings) unless total > 0.
func Page(total int, listings ...*flippa.Listing) *flippa.SearchPage {
	data := make([]flippa.Listing, 0, len(listings))
	for _, l := range listings {
		data = append(data, *l)
	}
	if total <= 0 {
		total = len(data)
	}
	return &flippa.SearchPage{
		Meta: flippa.Meta{PageNumber: 1, PageSize: 30, TotalResults: total},
		Data: data,
	}
}

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func String(v string) *string  { return &v }

// Source is an in-memory ListingSource. Search and Get may be replaced per test;
// every call is recorded.
type Source struct {
	Search func(params flippa.SearchParams) (*flippa.SearchPage, error)
	Get    func(id string) (*flippa.Listing, error)

	mu       sync.Mutex
	searches []flippa.SearchParams
	gets     []string
}

func (s *Source) SearchListings(ctx context.Context, params flippa.SearchParams) (*flippa.SearchPage, error) {
	s.mu.Lock()
	s.searches = append(s.searches, params)
	s.mu.Unlock()

	if s.Search == nil {
		return Page(0), nil
	}
	return s.Search(params)
}

func (s *Source) GetListing(ctx context.Context, listingID string) (*flippa.Listing, error) {
	s.mu.Lock()
	s.gets = append(s.gets, listingID)
	s.mu.Unlock()

	if s.Get == nil {
		return nil, &flippa.ClientStatusError{StatusCode: 404, Endpoint: "/listings/" + listingID}
	}
	return s.Get(listingID)
}

// Searches returns the params of every SearchListings call so far.
func (s *Source) Searches() []flippa.SearchParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]flippa.SearchParams(nil), s.searches...)
}

// Gets returns the id of every GetListing call so far.
func (s *Source) Gets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.gets...)
}
