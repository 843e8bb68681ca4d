// Package flippa provides a client for the Flippa listings API.
// This package centralizes all Flippa API interactions for the application.
package flippa

import (
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the base URL for the Flippa API.
	DefaultBaseURL = "https://flippa.com/v3"

	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultPageSize is the page size used when none is requested.
	DefaultPageSize = 30

	// MaxPageSize is the largest page the API serves.
	MaxPageSize = 100
)

// Listing statuses.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
	StatusEnded  = "ended"
)

// Sort aliases.
const (
	SortLowestPrice    = "lowest_price"
	SortHighestPrice   = "highest_price"
	SortMostActive     = "most_active"
	SortMostRecent     = "most_recent"
	SortEndingSoonest  = "ending_soonest"
	SortMostProfitable = "most_profitable"
	SortMostRelevant   = "most_relevant"
)

// PropertyTypes lists every value accepted by filter[property_type].
var PropertyTypes = []string{
	"website",
	"saas",
	"ecommerce_store",
	"fba",
	"ios_app",
	"android_app",
	"plugin_and_extension",
	"ai_apps_and_tools",
	"youtube",
	"game",
	"crypto_app",
	"social_media",
	"newsletter",
	"service_and_agency",
	"service",
	"projects_and_concepts",
	"other",
}

// ToolPropertyTypes is the simplified subset exposed to tool callers.
var ToolPropertyTypes = []string{
	"website",
	"saas",
	"ecommerce_store",
	"fba",
	"ios_app",
	"android_app",
	"ai_apps_and_tools",
	"youtube",
	"newsletter",
	"service",
	"other",
}

// MajorPropertyTypes are the categories aggregated by a market overview.
var MajorPropertyTypes = []string{
	"website",
	"saas",
	"ecommerce_store",
	"fba",
	"ios_app",
	"android_app",
	"ai_apps_and_tools",
	"youtube",
	"newsletter",
	"service",
}

// ListingStatuses lists every value accepted by filter[status].
var ListingStatuses = []string{StatusOpen, StatusClosed, StatusEnded}

// SaleMethods lists every value accepted by filter[sale_method].
var SaleMethods = []string{"auction", "classified"}

// SortAliases lists every value accepted by sort_alias.
var SortAliases = []string{
	SortLowestPrice,
	SortHighestPrice,
	SortMostActive,
	SortMostRecent,
	SortEndingSoonest,
	SortMostProfitable,
	SortMostRelevant,
}

// SearchParams holds the query for GET /listings.
// Zero values mean "not set" and are never sent.
type SearchParams struct {
	PageNumber   int
	PageSize     int
	PropertyType string
	Status       string
	SaleMethod   string
	SortAlias    string
}

// values renders the params as query values, dropping unset entries.
func (p SearchParams) values() map[string]string {
	v := map[string]string{
		"filter[property_type]": p.PropertyType,
		"filter[status]":        p.Status,
		"filter[sale_method]":   p.SaleMethod,
		"sort_alias":            p.SortAlias,
	}
	if p.PageNumber > 0 {
		v["page_number"] = strconv.Itoa(p.PageNumber)
	}
	if p.PageSize > 0 {
		v["page_size"] = strconv.Itoa(p.PageSize)
	}
	return v
}
