package anthropic

import (
	"strings"
	"testing"
	"time"

	"github.com/yourorg/dealdesk-api/realty"
)

func sampleProperty() realty.Property {
	year := 1987
	ppsf := 250
	return realty.Property{
		ID:           "M1",
		Address:      "100 Congress Ave, Austin, TX",
		City:         "Austin",
		State:        "TX",
		Price:        500000,
		PropertyType: "Commercial",
		Sqft:         2000,
		YearBuilt:    &year,
		PricePerSqFt: &ppsf,
		LotSize:      "0.25 acres",
		Description:  "Corner retail building.",
	}
}

func TestComposeAnalysis(t *testing.T) {
	msgs := ComposeAnalysis(sampleProperty())
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Fatalf("unexpected message shape: %+v", msgs)
	}
	content := msgs[0].Content
	for _, want := range []string{
		"100 Congress Ave, Austin, TX",
		"Price: $500,000",
		"Square Footage: 2,000 sq ft",
		"Year Built: 1987",
		"Corner retail building.",
		"Overall Recommendation",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("analysis prompt missing %q", want)
		}
	}
	// the cap-rate section only shows up for commercial properties
	if !strings.Contains(content, "cap rate") {
		t.Errorf("commercial analysis should mention cap rate")
	}

	residential := sampleProperty()
	residential.PropertyType = "Residential"
	if strings.Contains(ComposeAnalysis(residential)[0].Content, "cap rate") {
		t.Errorf("residential analysis should not mention cap rate")
	}
}

func TestComposeChatShape(t *testing.T) {
	msgs := ComposeChat("Prior analysis said buy.", "What about taxes?", []realty.Property{sampleProperty()})
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "assistant" || msgs[1].Role != "user" {
		t.Fatalf("roles = %s, %s", msgs[0].Role, msgs[1].Role)
	}
	if !strings.Contains(msgs[0].Content, "Prior analysis said buy.") {
		t.Errorf("context missing from assistant message")
	}
	if msgs[1].Content != "What about taxes?" {
		t.Errorf("user message = %q", msgs[1].Content)
	}
}

func TestComposePortfolioComparison(t *testing.T) {
	portfolio := []Holding{{
		Address:       "456 Oak Ave",
		PurchasePrice: 350000,
		CurrentValue:  425000,
		PurchaseDate:  time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
		Notes:         "Duplex",
	}}
	msgs := ComposePortfolioComparison("How do these compare?", portfolio, []realty.Property{sampleProperty()})
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	content := msgs[0].Content
	for _, want := range []string{
		"456 Oak Ave",
		"Purchase Price: $350,000",
		"6/15/2021",
		"Duplex",
		"How do these compare?",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("portfolio prompt missing %q", want)
		}
	}
}

func TestGroup(t *testing.T) {
	if got := group(1234567); got != "1,234,567" {
		t.Errorf("group(1234567) = %q", got)
	}
	if got := group(0); got != "0" {
		t.Errorf("group(0) = %q", got)
	}
}
