package realty

// Property is the canonical listing record used everywhere downstream:
// analysis prompts, favorites, saved searches, and persisted snapshots.
// Numeric fields default to 0 and string fields to "N/A" when the upstream
// source omits them; rendering paths never see null.
type Property struct {
	ID           string          `json:"id"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Price        int             `json:"price"`
	PropertyType string          `json:"propertyType"`
	Sqft         int             `json:"sqft"`
	YearBuilt    *int            `json:"yearBuilt"`
	CapRate      string          `json:"capRate"`
	PricePerSqFt *int            `json:"pricePerSqFt"`
	LotSize      string          `json:"lotSize"`
	Description  string          `json:"description"`
	Highlights   []string        `json:"highlights"`
	Details      PropertyDetails `json:"propertyDetails"`
	PhotoURL     string          `json:"photoUrl,omitempty"`
}

// PropertyDetails carries the independently optional detail fields. Each
// string field holds "N/A" when the source has nothing for it.
type PropertyDetails struct {
	Parking       string `json:"parking"`
	Floors        *int   `json:"floors"`
	Zoning        string `json:"zoning"`
	Tenancy       string `json:"tenancy"`
	Occupancy     string `json:"occupancy"`
	Construction  string `json:"construction"`
	Utilities     string `json:"utilities"`
	ClearHeight   string `json:"clearHeight"`
	YearBuilt     string `json:"yearBuilt"`
	LastSoldDate  string `json:"lastSoldDate"`
	LastSoldPrice string `json:"lastSoldPrice"`
	LotSize       string `json:"lotSize"`
	Bedrooms      string `json:"bedrooms"`
	Bathrooms     string `json:"bathrooms"`
	PropertyTax   string `json:"propertyTax"`
}

const notAvailable = "N/A"

// IsComplete reports whether a merged property has enough populated fields
// to show as a search result card. Incomplete properties are dropped from
// search responses.
func (p Property) IsComplete() bool {
	return p.PhotoURL != "" &&
		p.Address != "" &&
		p.City != "" &&
		p.State != "" &&
		p.Price > 0 &&
		p.Sqft > 0 &&
		p.Details.Bedrooms != notAvailable &&
		p.Details.Bathrooms != notAvailable
}
