package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newPortfolioRouter() http.Handler {
	r := chi.NewRouter()
	RegisterPortfolio(r, PortfolioDeps{})
	return r
}

func TestPortfolioRequiresAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	newPortfolioRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPortfolioEntryValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{nope`},
		{"missing address", `{"purchase_price": 100000}`},
		{"bad date", `{"address": "1 Main St", "purchase_date": "June 2021"}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		newPortfolioRouter().ServeHTTP(rec, authedPost("/api/portfolio/", tc.body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400: %s", tc.name, rec.Code, rec.Body.String())
		}
	}
}

func TestPortfolioUploadRejectsEmptyCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/upload", strings.NewReader("address,purchase price\n"))
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "1"})
	newPortfolioRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalid_csv") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestPortfolioBadEntryID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/portfolio/abc", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "1"})
	newPortfolioRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
