package interfaces

import (
	"context"

	"github.com/ternarybob/flipscout/internal/flippa"
)

// ListingSource reads listings from the marketplace.
// *flippa.Client is the production implementation; tests substitute fakes.
type ListingSource interface {
	// SearchListings returns one page of listings matching params.
	SearchListings(ctx context.Context, params flippa.SearchParams) (*flippa.SearchPage, error)

	// GetListing returns a single listing by its identifier.
	GetListing(ctx context.Context, listingID string) (*flippa.Listing, error)
}
