package flippa

// Listing is a Flippa listing as returned by the API.
// Nullable numeric fields are pointers; nil means the API reported no value.
type Listing struct {
	Type                  string   `json:"type"`
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	PropertyName          string   `json:"property_name"`
	PropertyType          string   `json:"property_type"`
	Status                string   `json:"status"`
	SaleMethod            string   `json:"sale_method"`
	CurrentPrice          *float64 `json:"current_price"`
	DisplayPrice          *float64 `json:"display_price"`
	BuyItNowPrice         *float64 `json:"buy_it_now_price"`
	AverageRevenue        *float64 `json:"average_revenue"`
	AverageProfit         *float64 `json:"average_profit"`
	RevenuePerMonth       *float64 `json:"revenue_per_month"`
	ProfitPerMonth        *float64 `json:"profit_per_month"`
	BidCount              int      `json:"bid_count"`
	BusinessModel         *string  `json:"business_model"`
	Industry              *string  `json:"industry"`
	UniquesPerMonth       *int     `json:"uniques_per_month"`
	PageViewsPerMonth     *int     `json:"page_views_per_month"`
	AppDownloadsPerMonth  *int     `json:"app_downloads_per_month"`
	HasVerifiedRevenue    bool     `json:"has_verified_revenue"`
	HasVerifiedTraffic    bool     `json:"has_verified_traffic"`
	Confidential          bool     `json:"confidential"`
	ReserveMet            bool     `json:"reserve_met"`
	Watching              bool     `json:"watching"`
	SuperSeller           bool     `json:"super_seller"`
	TurnkeyListing        bool     `json:"turnkey_listing"`
	PostAuctionNegotiable bool     `json:"post_auction_negotiable"`
	SellerLocation        *string  `json:"seller_location"`
	Summary               *string  `json:"summary"`
	EstablishedAt         *string  `json:"established_at"`
	StartsAt              *string  `json:"starts_at"`
	EndsAt                *string  `json:"ends_at"`
	Hostname              *string  `json:"hostname"`
	HTMLURL               *string  `json:"html_url"`
	ExternalURL           *string  `json:"external_url"`
	RevenueSources        *string  `json:"revenue_sources"`
	Images                []Image  `json:"images"`
}

// Image is a listing image reference.
type Image struct {
	URL string `json:"url"`
}

// Meta is the pagination block of a search response.
type Meta struct {
	PageNumber   int `json:"page_number"`
	PageSize     int `json:"page_size"`
	TotalResults int `json:"total_results"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Meta Meta      `json:"meta"`
	Data []Listing `json:"data"`
}

// HasMore reports whether the provider has results beyond this page.
// It trusts the reported page_size and total_results as-is.
func (p *SearchPage) HasMore() bool {
	return p.Meta.PageNumber*p.Meta.PageSize < p.Meta.TotalResults
}

// listingResponse is the envelope of GET /listings/{id}.
type listingResponse struct {
	Data *Listing `json:"data"`
}
