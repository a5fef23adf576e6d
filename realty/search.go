package realty

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lister is the provider surface Search needs; *Client satisfies it.
type Lister interface {
	List(ctx context.Context, q ListQuery) ([]byte, error)
	Detail(ctx context.Context, propertyID string) ([]byte, error)
	Photos(ctx context.Context, propertyID string) ([]string, error)
}

// Service turns a filter form into normalized, enriched search results.
type Service struct {
	Client Lister
	// EnrichTimeout bounds each per-property detail/photo call.
	EnrichTimeout time.Duration
}

func NewService(client Lister) *Service {
	return &Service{Client: client, EnrichTimeout: 8 * time.Second}
}

// SearchResult bundles the normalized properties with any filter-relaxation
// notices and the raw provider payload for write-behind snapshotting.
type SearchResult struct {
	Properties []Property
	Notices    []string
	Raw        []byte
}

// Search lists, enriches, normalizes, and filters. Location and price range
// are hard constraints; sqft and bed/bath counts are best-effort narrowing:
// a narrowing step that would empty the result set is dropped with a
// human-readable notice instead.
func (s *Service) Search(ctx context.Context, in SearchInput) (SearchResult, error) {
	q, err := BuildQuery(in)
	if err != nil {
		return SearchResult{}, err
	}

	raw, err := s.Client.List(ctx, q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("listing search: %w", err)
	}
	basics, err := ParseListPayload(raw)
	if err != nil {
		return SearchResult{}, fmt.Errorf("listing payload: %w", err)
	}

	props := s.enrich(ctx, basics)

	complete := props[:0:0]
	for _, p := range props {
		if p.IsComplete() {
			complete = append(complete, p)
		}
	}

	filtered, notices := applyOptionalFilters(complete, in)
	return SearchResult{Properties: filtered, Notices: notices, Raw: raw}, nil
}

// enrich fans out one detail and one photo fetch per listing and waits for
// all of them. Either call failing degrades that listing rather than the
// whole search.
func (s *Service) enrich(ctx context.Context, basics []rawBasic) []Property {
	timeout := s.EnrichTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	props := make([]Property, len(basics))
	var wg sync.WaitGroup
	for i, basic := range basics {
		wg.Add(1)
		go func(i int, basic rawBasic) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			var detail *rawDetail
			if rawDet, err := s.Client.Detail(cctx, basic.PropertyID); err != nil {
				log.Printf("[WARN] detail fetch failed for property %s: %v", basic.PropertyID, err)
			} else if d, err := ParseDetailPayload(rawDet); err != nil {
				log.Printf("[WARN] detail payload unreadable for property %s: %v", basic.PropertyID, err)
			} else {
				detail = d
			}

			p := Merge(basic, detail)

			if photos, err := s.Client.Photos(cctx, basic.PropertyID); err != nil {
				log.Printf("[WARN] photo fetch failed for property %s: %v", basic.PropertyID, err)
			} else if len(photos) > 0 {
				p.PhotoURL = photos[0]
			}

			props[i] = p
		}(i, basic)
	}
	wg.Wait()
	return props
}

type narrowing struct {
	label string
	match func(Property) bool
}

func applyOptionalFilters(props []Property, in SearchInput) ([]Property, []string) {
	var steps []narrowing
	if in.SqftMin > 0 || in.SqftMax > 0 {
		steps = append(steps, narrowing{
			label: "square footage range",
			match: func(p Property) bool {
				if in.SqftMin > 0 && p.Sqft < in.SqftMin {
					return false
				}
				if in.SqftMax > 0 && p.Sqft > in.SqftMax {
					return false
				}
				return true
			},
		})
	}
	if in.Bedrooms != "" && !strings.EqualFold(in.Bedrooms, "any") {
		want := in.Bedrooms
		steps = append(steps, narrowing{
			label: "bedroom count",
			match: func(p Property) bool { return matchesCount(p.Details.Bedrooms, want) },
		})
	}
	if in.Bathrooms != "" && !strings.EqualFold(in.Bathrooms, "any") {
		want := in.Bathrooms
		steps = append(steps, narrowing{
			label: "bathroom count",
			match: func(p Property) bool { return matchesCount(p.Details.Bathrooms, want) },
		})
	}

	out := props
	var notices []string
	for _, step := range steps {
		kept := out[:0:0]
		for _, p := range out {
			if step.match(p) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 && len(out) > 0 {
			notices = append(notices, fmt.Sprintf("No listings matched the %s filter; showing results without it.", step.label))
			continue
		}
		out = kept
	}
	return out, notices
}

// matchesCount compares a property's bed/bath figure against a filter
// selection. The top bucket ("5+", "4+") means at-least; everything else is
// an exact match.
func matchesCount(have, want string) bool {
	h, err := strconv.ParseFloat(strings.TrimSpace(have), 64)
	if err != nil {
		return false
	}
	bound, atLeast := countBound(want)
	if atLeast {
		return h >= bound
	}
	return h == bound
}

// countBound parses a bed/bath filter selection. The boolean is true for
// the "N+" at-least buckets.
func countBound(want string) (float64, bool) {
	want = strings.TrimSpace(want)
	if n, ok := strings.CutSuffix(want, "+"); ok {
		v, _ := strconv.ParseFloat(n, 64)
		return v, true
	}
	v, _ := strconv.ParseFloat(want, 64)
	return v, false
}
