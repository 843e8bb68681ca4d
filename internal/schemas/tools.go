// Package schemas defines and validates the inputs accepted by the Flippa tools.
//
// Inputs are decoded strictly: unknown fields and wrongly typed values are
// rejected, and defaults are filled in before decoding.
package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Response formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// SearchListingsInput is the input of flippa_search_listings.
type SearchListingsInput struct {
	PropertyType   string `json:"property_type,omitempty" validate:"omitempty,oneof=website saas ecommerce_store fba ios_app android_app ai_apps_and_tools youtube newsletter service other"`
	Status         string `json:"status" validate:"oneof=open closed ended"`
	SaleMethod     string `json:"sale_method,omitempty" validate:"omitempty,oneof=auction classified"`
	SortAlias      string `json:"sort_alias,omitempty" validate:"omitempty,oneof=lowest_price highest_price most_active most_recent ending_soonest most_profitable most_relevant"`
	PageNumber     int    `json:"page_number" validate:"min=1"`
	PageSize       int    `json:"page_size" validate:"min=1,max=100"`
	ResponseFormat string `json:"response_format" validate:"oneof=markdown json"`
}

// GetListingInput is the input of flippa_get_listing.
type GetListingInput struct {
	ListingID      string `json:"listing_id" validate:"required"`
	ResponseFormat string `json:"response_format" validate:"oneof=markdown json"`
}

// AnalyzeListingInput is the input of flippa_analyze_listing.
type AnalyzeListingInput struct {
	ListingID      string `json:"listing_id" validate:"required"`
	ResponseFormat string `json:"response_format" validate:"oneof=markdown json"`
}

// ComparableSalesInput is the input of flippa_comparable_sales.
// Both ListingID and PropertyType are optional here; the comparables
// service rejects a request that has neither.
type ComparableSalesInput struct {
	ListingID      string `json:"listing_id,omitempty"`
	PropertyType   string `json:"property_type,omitempty" validate:"omitempty,oneof=website saas ecommerce_store fba ios_app android_app ai_apps_and_tools youtube newsletter service other"`
	PageSize       int    `json:"page_size" validate:"min=1,max=20"`
	ResponseFormat string `json:"response_format" validate:"oneof=markdown json"`
}

// MarketOverviewInput is the input of flippa_market_overview.
type MarketOverviewInput struct {
	PropertyType   string `json:"property_type,omitempty" validate:"omitempty,oneof=website saas ecommerce_store fba ios_app android_app ai_apps_and_tools youtube newsletter service other"`
	ResponseFormat string `json:"response_format" validate:"oneof=markdown json"`
}

// NewSearchListingsInput returns the search input with its defaults.
func NewSearchListingsInput() *SearchListingsInput {
	return &SearchListingsInput{
		Status:         "open",
		PageNumber:     1,
		PageSize:       30,
		ResponseFormat: FormatMarkdown,
	}
}

// NewGetListingInput returns the get-listing input with its defaults.
func NewGetListingInput() *GetListingInput {
	return &GetListingInput{ResponseFormat: FormatMarkdown}
}

// NewAnalyzeListingInput returns the analyze input with its defaults.
func NewAnalyzeListingInput() *AnalyzeListingInput {
	return &AnalyzeListingInput{ResponseFormat: FormatMarkdown}
}

// NewComparableSalesInput returns the comparables input with its defaults.
func NewComparableSalesInput() *ComparableSalesInput {
	return &ComparableSalesInput{
		PageSize:       10,
		ResponseFormat: FormatMarkdown,
	}
}

// NewMarketOverviewInput returns the market input with its defaults.
func NewMarketOverviewInput() *MarketOverviewInput {
	return &MarketOverviewInput{ResponseFormat: FormatMarkdown}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// instance returns the shared validator, reporting fields by their json names.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks input against its validate tags.
func Validate(input interface{}) error {
	if err := instance().Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &InputError{Problems: describe(verrs)}
		}
		return err
	}
	return nil
}

// Parse decodes raw tool arguments into dst, which must already hold its
// defaults, and validates the result.
func Parse(args map[string]interface{}, dst interface{}) error {
	if len(args) > 0 {
		data, err := json.Marshal(args)
		if err != nil {
			return &InputError{Problems: []string{err.Error()}}
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return &InputError{Problems: []string{decodeProblem(err)}}
		}
	}
	return Validate(dst)
}

// InputError lists every problem found in a tool input.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return "Invalid input: " + strings.Join(e.Problems, "; ")
}

func describe(verrs validator.ValidationErrors) []string {
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return problems
}

func decodeProblem(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type (expected %s)", typeErr.Field, typeErr.Type.Kind())
	}
	// "json: unknown field \"x\""
	return strings.TrimPrefix(err.Error(), "json: ")
}
