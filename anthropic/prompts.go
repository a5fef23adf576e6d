package anthropic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/dealdesk-api/realty"
)

// Per-use-case completion ceilings.
const (
	MaxTokensAnalysis         = 1500
	MaxTokensComparison       = 600
	MaxTokensChat             = 1000
	MaxTokensPortfolioCompare = 300
)

// Holding is a portfolio entry as the prompt composer needs it.
type Holding struct {
	Address       string    `json:"address"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentValue  float64   `json:"current_value"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Notes         string    `json:"notes,omitempty"`
}

// ComposeAnalysis renders the single-property investment analysis prompt.
func ComposeAnalysis(p realty.Property) []Message {
	propertyType := p.PropertyType
	if propertyType == "" {
		propertyType = "Property"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please analyze this %s property:\n\n", propertyType)
	b.WriteString("Property Details:\n")
	fmt.Fprintf(&b, "- Address: %s\n", orNA(p.Address))
	fmt.Fprintf(&b, "- Type: %s\n", propertyType)
	fmt.Fprintf(&b, "- Price: $%s\n", group(p.Price))
	fmt.Fprintf(&b, "- Square Footage: %s sq ft\n", group(p.Sqft))
	fmt.Fprintf(&b, "- Lot Size: %s\n", orNA(p.LotSize))
	fmt.Fprintf(&b, "- Year Built: %s\n", yearOrNA(p.YearBuilt))
	fmt.Fprintf(&b, "- Bedrooms: %s\n", orNA(p.Details.Bedrooms))
	fmt.Fprintf(&b, "- Bathrooms: %s\n", orNA(p.Details.Bathrooms))
	fmt.Fprintf(&b, "- Parking: %s\n", orNA(p.Details.Parking))
	fmt.Fprintf(&b, "- Construction: %s\n", orNA(p.Details.Construction))
	fmt.Fprintf(&b, "- Zoning: %s\n", orNA(p.Details.Zoning))

	description := p.Description
	if description == "" {
		description = "No description available"
	}
	fmt.Fprintf(&b, "\nProperty Description:\n%s\n", description)

	b.WriteString(`
Please provide:
1. Market Analysis
   - Current market conditions
   - Price comparison with similar properties
   - Location value factors

2. Investment Potential
   - Potential return on investment
   - Rental income potential (if applicable)
   - Value appreciation outlook
`)
	if strings.EqualFold(propertyType, "commercial") {
		b.WriteString("   - Estimated cap rate analysis\n")
	}
	b.WriteString(`
3. Property Assessment
   - Condition analysis based on age and features
   - Key advantages and unique selling points
   - Potential renovation or improvement needs

4. Risk Factors
   - Market-specific risks
   - Property-specific concerns
   - Economic considerations

5. Overall Recommendation
   - Buy/Hold/Pass recommendation
   - Key decision factors
   - Additional considerations

Please keep the analysis concise and focused on the most relevant factors for this type of property.`)

	return []Message{{Role: "user", Content: b.String()}}
}

// ComposeComparison renders the multi-property comparison prompt.
func ComposeComparison(properties []realty.Property) []Message {
	var b strings.Builder
	b.WriteString("Compare these properties concisely:\n")
	writePropertyList(&b, properties)
	b.WriteString(`
Provide a focused analysis with:
1. Price Comparison: Include price per sqft and overall value assessment
2. Key Features: Compare size, bedrooms, bathrooms, and any standout differences
3. Investment Perspective: Brief assessment of potential value or opportunities
4. Quick Recommendation: Which property might be better and why

Keep each section to 2-3 clear points. Focus on actionable insights and meaningful differences.`)

	return []Message{{Role: "user", Content: b.String()}}
}

// ComposeChat renders a free-form chat turn grounded in prior analysis
// context and the properties it covered.
func ComposeChat(analysisContext, userMessage string, properties []realty.Property) []Message {
	var b strings.Builder
	b.WriteString("You are a helpful real estate analysis assistant. Use the following context about previously analyzed properties to help answer the user's question:\n\n")
	fmt.Fprintf(&b, "Context:\n%s\n\nProperty Details:\n", analysisContext)
	writePropertyList(&b, properties)
	b.WriteString("\nPlease provide specific, relevant answers based on this information.")

	return []Message{
		{Role: "assistant", Content: b.String()},
		{Role: "user", Content: userMessage},
	}
}

// ComposePortfolioComparison renders the portfolio-vs-candidates prompt,
// answered as three short bullets.
func ComposePortfolioComparison(chatMessage string, portfolio []Holding, comparison []realty.Property) []Message {
	var b strings.Builder
	b.WriteString(`You are a real estate analysis assistant. Compare the following properties with the user's portfolio properties.

Structure your response in 3 short bullet points covering:
- Key Differences: Compare size, price, and features vs portfolio
- Market Position: How these properties fit with current portfolio
- Quick Recommendation: One clear action item

Keep each bullet point to 1-2 lines maximum. Be direct and specific.

Portfolio Properties:
`)
	for i, h := range portfolio {
		fmt.Fprintf(&b, "\nProperty %d:\n", i+1)
		fmt.Fprintf(&b, "- Address: %s\n", h.Address)
		fmt.Fprintf(&b, "- Purchase Price: $%s\n", group(int(h.PurchasePrice)))
		fmt.Fprintf(&b, "- Current Value: $%s\n", group(int(h.CurrentValue)))
		fmt.Fprintf(&b, "- Purchase Date: %s\n", h.PurchaseDate.Format("1/2/2006"))
		if h.Notes != "" {
			fmt.Fprintf(&b, "- Notes: %s\n", h.Notes)
		}
	}

	b.WriteString("\nProperties Being Compared:\n")
	writePropertyList(&b, comparison)

	fmt.Fprintf(&b, "\nPrevious Analysis Context:\n%s", chatMessage)

	return []Message{{Role: "user", Content: b.String()}}
}

func writePropertyList(b *strings.Builder, properties []realty.Property) {
	for i, p := range properties {
		fmt.Fprintf(b, "\nProperty %d:\n", i+1)
		fmt.Fprintf(b, "- Address: %s\n", p.Address)
		fmt.Fprintf(b, "- Price: $%s\n", group(p.Price))
		fmt.Fprintf(b, "- Size: %s sqft\n", group(p.Sqft))
		fmt.Fprintf(b, "- Bedrooms: %s\n", orNA(p.Details.Bedrooms))
		fmt.Fprintf(b, "- Bathrooms: %s\n", orNA(p.Details.Bathrooms))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yearOrNA(y *int) string {
	if y == nil {
		return "N/A"
	}
	return strconv.Itoa(*y)
}

// group renders 1234567 as "1,234,567".
func group(v int) string {
	s := strconv.Itoa(v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
