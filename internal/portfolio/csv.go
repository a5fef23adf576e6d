// Package portfolio parses uploaded holding spreadsheets.
package portfolio

import (
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/dealdesk-api/internal/store"
)

var ErrEmptyFile = errors.New("portfolio: csv has no data rows")

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseCSV reads a header-driven holdings file. Headers are matched
// case-insensitively; columns containing "price" or "value" are parsed as
// money with "$" and "," stripped, columns containing "date" as dates, and
// anything else as text. Blank lines are skipped.
func ParseCSV(data []byte) ([]store.PortfolioInput, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []store.PortfolioInput
	for _, row := range records[1:] {
		if isBlank(row) {
			continue
		}
		var in store.PortfolioInput
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			val := strings.TrimSpace(row[i])
			switch {
			case strings.Contains(h, "price"):
				in.PurchasePrice = parseMoney(val)
			case strings.Contains(h, "value"):
				in.CurrentValue = parseMoney(val)
			case strings.Contains(h, "date"):
				in.PurchaseDate = parseDate(val)
			case h == "address":
				in.Address = val
			case h == "notes":
				in.Notes = val
			}
		}
		out = append(out, in)
	}
	if len(out) == 0 {
		return nil, ErrEmptyFile
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseMoney(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
