package realty

import (
	"fmt"

	"github.com/yourorg/dealdesk-api/internal/canon"
)

// SearchInput is the user-facing filter form. City, State, and the price
// range are hard constraints; everything else is best-effort narrowing.
type SearchInput struct {
	City         string `json:"city"`
	State        string `json:"state"`
	PriceMin     int    `json:"priceMin"`
	PriceMax     int    `json:"priceMax"`
	SqftMin      int    `json:"sqftMin"`
	SqftMax      int    `json:"sqftMax"`
	Bedrooms     string `json:"bedrooms"`  // "", "1".."4", "5+"
	Bathrooms    string `json:"bathrooms"` // "", "1", "1.5", .. "4+"
	PropertyType string `json:"propertyType"`
}

// ListQuery is the provider's /properties/v3/list request payload.
type ListQuery struct {
	Limit     int          `json:"limit"`
	Offset    int          `json:"offset"`
	City      string       `json:"city"`
	StateCode string       `json:"state_code"`
	Status    []string     `json:"status"`
	Sort      querySort    `json:"sort"`
	Filters   queryFilters `json:"filters"`
	Include   []string     `json:"include"`
}

type querySort struct {
	Direction string `json:"direction"`
	Field     string `json:"field"`
}

type queryFilters struct {
	PropertyType []string `json:"property_type,omitempty"`
	ListPriceMin *int     `json:"list_price_min,omitempty"`
	ListPriceMax *int     `json:"list_price_max,omitempty"`
}

// propertyTypeParams maps the user-facing category vocabulary onto the
// provider's. Unrecognized values are omitted from the filter.
var propertyTypeParams = map[string]string{
	"single_family": "single_family",
	"multi_family":  "multi_family",
	"condos":        "condos",
	"commercial":    "commercial",
	"industrial":    "industrial",
	"retail":        "retail",
	"townhomes":     "townhome",
	"land":          "land",
}

// PropertyTypeParam resolves a user-facing property type category into the
// provider's vocabulary. The second return is false when the category is
// unknown and should be omitted.
func PropertyTypeParam(category string) (string, bool) {
	v, ok := propertyTypeParams[category]
	return v, ok
}

var includeFields = []string{
	"property_id", "list_price", "location", "description", "property_type",
	"photos", "flags", "building_size", "lot_size", "tax_history", "history",
	"features", "financial",
}

const defaultPageSize = 10

// BuildQuery translates a filter form into the provider payload. State names
// are resolved to 2-letter codes; an unresolvable state is the one
// validation error this package raises.
func BuildQuery(in SearchInput) (ListQuery, error) {
	if in.City == "" || in.State == "" {
		return ListQuery{}, fmt.Errorf("%w: city and state are required", ErrInvalidInput)
	}
	stateCode, err := canon.ResolveState(in.State)
	if err != nil {
		return ListQuery{}, err
	}

	q := ListQuery{
		Limit:     defaultPageSize,
		Offset:    0,
		City:      in.City,
		StateCode: stateCode,
		Status:    []string{"for_sale"},
		Sort:      querySort{Direction: "desc", Field: "list_date"},
		Include:   includeFields,
	}
	if in.PriceMin > 0 {
		v := in.PriceMin
		q.Filters.ListPriceMin = &v
	}
	if in.PriceMax > 0 {
		v := in.PriceMax
		q.Filters.ListPriceMax = &v
	}
	if t, ok := PropertyTypeParam(in.PropertyType); ok {
		q.Filters.PropertyType = []string{t}
	}
	return q, nil
}
