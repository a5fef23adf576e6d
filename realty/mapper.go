package realty

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Upstream payload shapes. The provider scatters the same facts across the
// list response, the detail response, and free-text feature lines; map
// defensively and fall back field by field.

type rawAddress struct {
	Line       string `json:"line"`
	City       string `json:"city"`
	State      string `json:"state"`
	StateCode  string `json:"state_code"`
	PostalCode string `json:"postal_code"`
}

type rawDescription struct {
	Type      string `json:"type"`
	Sqft      int    `json:"sqft"`
	YearBuilt int    `json:"year_built"`
	Text      string `json:"text"`
	LotSqft   int    `json:"lot_sqft"`
}

type rawListing struct {
	Sqft        int    `json:"sqft"`
	YearBuilt   int    `json:"year_built"`
	PropType    string `json:"prop_type"`
	Description string `json:"description"`
}

type rawBasic struct {
	PropertyID string `json:"property_id"`
	Location   struct {
		Address rawAddress `json:"address"`
	} `json:"location"`
	ListPrice   int            `json:"list_price"`
	Description rawDescription `json:"description"`
	Listing     rawListing     `json:"listing"`
	Financial   struct {
		CapRate json.Number `json:"cap_rate"`
	} `json:"financial"`
	Flags struct {
		IsNewListing bool `json:"is_new_listing"`
	} `json:"flags"`
}

type rawFeature struct {
	Category string   `json:"category"`
	Text     []string `json:"text"`
}

type rawDetail struct {
	Data struct {
		Home struct {
			Details     []rawFeature `json:"details"`
			Description struct {
				Sqft      int    `json:"sqft"`
				Text      string `json:"text"`
				YearBuilt int    `json:"year_built"`
			} `json:"description"`
			LastSoldDate  string `json:"last_sold_date"`
			LastSoldPrice int    `json:"last_sold_price"`
		} `json:"home"`
	} `json:"data"`
}

// ParseListPayload decodes a /properties/v3/list response into its raw
// per-listing records.
func ParseListPayload(raw []byte) ([]rawBasic, error) {
	var root struct {
		Data struct {
			HomeSearch struct {
				Results []rawBasic `json:"results"`
			} `json:"home_search"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	return root.Data.HomeSearch.Results, nil
}

// ParseDetailPayload decodes a /properties/v3/detail response. A nil return
// with nil error means the payload carried no home record.
func ParseDetailPayload(raw []byte) (*rawDetail, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var d rawDetail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Merge folds one list record and its optional detail record into the
// canonical Property. Missing segments become empty strings or "N/A";
// the merge itself never fails.
func Merge(basic rawBasic, detail *rawDetail) Property {
	var features []rawFeature
	var home struct {
		Sqft          int
		Text          string
		YearBuilt     int
		LastSoldDate  string
		LastSoldPrice int
	}
	if detail != nil {
		features = detail.Data.Home.Details
		home.Sqft = detail.Data.Home.Description.Sqft
		home.Text = detail.Data.Home.Description.Text
		home.YearBuilt = detail.Data.Home.Description.YearBuilt
		home.LastSoldDate = detail.Data.Home.LastSoldDate
		home.LastSoldPrice = detail.Data.Home.LastSoldPrice
	}

	addr := basic.Location.Address
	state := firstNonEmpty(addr.StateCode, addr.State)
	address := strings.TrimSpace(fmt.Sprintf("%s, %s, %s", addr.Line, addr.City, state))

	sqft := firstPositive(home.Sqft, basic.Listing.Sqft, basic.Description.Sqft)
	price := basic.ListPrice

	var yearBuilt *int
	if y := firstPositive(home.YearBuilt, basic.Description.YearBuilt, basic.Listing.YearBuilt); y > 0 {
		yearBuilt = &y
	}

	var pricePerSqFt *int
	if sqft > 0 && price > 0 {
		v := int(math.Round(float64(price) / float64(sqft)))
		pricePerSqFt = &v
	}

	lotSize := lotSizeFromFeatures(features, basic.Description.LotSqft)

	capRate := notAvailable
	if f, err := basic.Financial.CapRate.Float64(); err == nil && f != 0 {
		capRate = fmt.Sprintf("%.2f%%", f)
	}

	bedrooms := featureValue(features, []string{"Bedrooms"}, "Bedrooms:")
	bathrooms := featureValue(features, []string{"Bathrooms"}, "Full Bathrooms:")
	yearBuiltText := featureValue(features, []string{"Building and Construction"}, "Year Built:")
	construction := featureValue(features, []string{"Building and Construction"}, "Building Exterior Type:")
	zoning := featureValue(features, []string{"Other Property Info"}, "Zoning:")
	tenancy := featureValue(features, []string{"Other Property Info"}, "Property Subtype:")
	propertyTax := featureValue(features, []string{"Other Property Info"}, "Annual Tax Amount:")
	if propertyTax != notAvailable {
		propertyTax = "$" + propertyTax
	}

	parking := notAvailable
	if line, ok := featureLine(features, []string{"Garage and Parking"}, "Garage Spaces:"); ok {
		parking = line
	}

	utilities := ""
	if f, ok := findFeature(features, "Utilities"); ok {
		utilities = strings.Join(f.Text, ", ")
	}

	var floors *int
	if v := featureValue(features, []string{"Building and Construction"}, "Levels or Stories:"); v != notAvailable {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			floors = &n
		}
	}

	description := firstNonEmpty(home.Text, basic.Description.Text, basic.Listing.Description)
	if description == "" {
		description = "No description available"
	}

	p := Property{
		ID:           basic.PropertyID,
		Address:      address,
		City:         addr.City,
		State:        state,
		Price:        price,
		PropertyType: classifyPropertyType(features, basic),
		Sqft:         sqft,
		YearBuilt:    yearBuilt,
		CapRate:      capRate,
		PricePerSqFt: pricePerSqFt,
		LotSize:      lotSize,
		Description:  description,
		Details: PropertyDetails{
			Parking:       parking,
			Floors:        floors,
			Zoning:        zoning,
			Tenancy:       tenancy,
			Occupancy:     notAvailable,
			Construction:  construction,
			Utilities:     utilities,
			ClearHeight:   notAvailable,
			YearBuilt:     yearBuiltText,
			LastSoldDate:  formatSoldDate(home.LastSoldDate),
			LastSoldPrice: formatSoldPrice(home.LastSoldPrice),
			LotSize:       lotSize,
			Bedrooms:      bedrooms,
			Bathrooms:     bathrooms,
			PropertyTax:   propertyTax,
		},
	}

	p.Highlights = buildHighlights(p, basic)
	return p
}

func buildHighlights(p Property, basic rawBasic) []string {
	var hl []string
	if p.YearBuilt != nil {
		hl = append(hl, fmt.Sprintf("Year Built: %d", *p.YearBuilt))
	}
	if basic.Flags.IsNewListing {
		hl = append(hl, "New Listing")
	}
	if basic.Listing.PropType != "" {
		hl = append(hl, "Type: "+basic.Listing.PropType)
	}
	if p.LotSize != notAvailable {
		hl = append(hl, "Lot Size: "+p.LotSize)
	}
	return hl
}

// classifyPropertyType prefers the detail record's source property type and
// falls back to the list record's prop_type, collapsing everything into the
// two buckets the analysis prompts care about.
func classifyPropertyType(features []rawFeature, basic rawBasic) string {
	if line, ok := featureLine(features, []string{"Other Property Info"}, "Source Property Type:"); ok {
		sub := strings.ToLower(splitValue(line))
		if strings.Contains(sub, "residential") {
			return "Residential"
		}
		if strings.Contains(sub, "commercial") {
			return "Commercial"
		}
	}
	basicType := strings.ToLower(basic.Listing.PropType)
	if strings.Contains(basicType, "single_family") || strings.Contains(basicType, "residential") {
		return "Residential"
	}
	if strings.Contains(basicType, "commercial") {
		return "Commercial"
	}
	return "Residential"
}

const sqftPerAcre = 43560

// lotSizeFromFeatures resolves the lot size as a 2-decimal acreage string.
// An acreage figure takes precedence; square footage is converted.
func lotSizeFromFeatures(features []rawFeature, lotSqft int) string {
	if f, ok := findFeature(features, "Land Info"); ok {
		for _, t := range f.Text {
			if strings.HasPrefix(t, "Lot Size Acres:") {
				return splitValue(t) + " acres"
			}
		}
		for _, t := range f.Text {
			if strings.HasPrefix(t, "Lot Size Square Feet:") {
				if sq, err := strconv.ParseFloat(strings.TrimSpace(splitValue(t)), 64); err == nil && sq > 0 {
					return fmt.Sprintf("%.2f acres", sq/sqftPerAcre)
				}
			}
		}
	}
	if lotSqft > 0 {
		return fmt.Sprintf("%.2f acres", float64(lotSqft)/sqftPerAcre)
	}
	return notAvailable
}

// featureValue finds "<prefix> <value>" lines like "Year Built: 1987" and
// returns the value part, or "N/A".
func featureValue(features []rawFeature, categories []string, prefix string) string {
	if line, ok := featureLine(features, categories, prefix); ok {
		if v := splitValue(line); v != "" {
			return v
		}
	}
	return notAvailable
}

func featureLine(features []rawFeature, categories []string, prefix string) (string, bool) {
	for _, cat := range categories {
		f, ok := findFeature(features, cat)
		if !ok || len(f.Text) == 0 {
			continue
		}
		if prefix != "" {
			for _, t := range f.Text {
				if strings.HasPrefix(t, prefix) {
					return t, true
				}
			}
			continue
		}
		return f.Text[0], true
	}
	return "", false
}

func findFeature(features []rawFeature, category string) (rawFeature, bool) {
	for _, f := range features {
		if strings.EqualFold(f.Category, category) {
			return f, true
		}
	}
	return rawFeature{}, false
}

func splitValue(line string) string {
	if i := strings.Index(line, ": "); i >= 0 {
		return line[i+2:]
	}
	return ""
}

func formatSoldDate(raw string) string {
	if raw == "" {
		return notAvailable
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}

func formatSoldPrice(v int) string {
	if v <= 0 {
		return notAvailable
	}
	return "$" + comma(v)
}

// comma renders 1234567 as "1,234,567".
func comma(v int) string {
	s := strconv.Itoa(v)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
