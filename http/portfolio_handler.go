package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/internal/portfolio"
	"github.com/yourorg/dealdesk-api/internal/store"
)

type PortfolioDeps struct {
	Store *store.Store
}

type portfolioEntryRequest struct {
	Address       string  `json:"address"`
	PurchasePrice float64 `json:"purchase_price"`
	CurrentValue  float64 `json:"current_value"`
	PurchaseDate  string  `json:"purchase_date"`
	Notes         string  `json:"notes"`
}

const uploadSizeLimit = 2 << 20

func RegisterPortfolio(r chi.Router, d PortfolioDeps) {
	r.Route("/api/portfolio", func(r chi.Router) {
		r.Use(RequireUser)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			list, err := d.Store.ListPortfolio(req.Context(), UserID(req.Context()))
			if err != nil {
				respondError(w, req, err)
				return
			}
			if list == nil {
				list = []store.PortfolioEntry{}
			}
			render.JSON(w, req, map[string]any{"properties": list})
		})

		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			in, ok := decodePortfolioEntry(w, req)
			if !ok {
				return
			}
			rows, err := d.Store.InsertPortfolioEntries(req.Context(), UserID(req.Context()), []store.PortfolioInput{in})
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.Status(req, http.StatusCreated)
			render.JSON(w, req, map[string]any{"success": true, "properties": rows})
		})

		// upload accepts the raw CSV body; parsing failures surface as 400
		// rather than inserting a partial batch.
		r.Post("/upload", func(w http.ResponseWriter, req *http.Request) {
			data, err := io.ReadAll(io.LimitReader(req.Body, uploadSizeLimit))
			if err != nil {
				respondError(w, req, err)
				return
			}
			entries, err := portfolio.ParseCSV(data)
			if err != nil {
				badRequest(w, req, "invalid_csv", err.Error())
				return
			}
			rows, err := d.Store.InsertPortfolioEntries(req.Context(), UserID(req.Context()), entries)
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.Status(req, http.StatusCreated)
			render.JSON(w, req, map[string]any{"success": true, "properties": rows})
		})

		r.Put("/{entryID}", func(w http.ResponseWriter, req *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(req, "entryID"))
			if err != nil {
				badRequest(w, req, "invalid_id", "portfolio entry id must be numeric")
				return
			}
			in, ok := decodePortfolioEntry(w, req)
			if !ok {
				return
			}
			row, err := d.Store.UpdatePortfolioEntry(req.Context(), UserID(req.Context()), id, in)
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, row)
		})

		r.Delete("/{entryID}", func(w http.ResponseWriter, req *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(req, "entryID"))
			if err != nil {
				badRequest(w, req, "invalid_id", "portfolio entry id must be numeric")
				return
			}
			if err := d.Store.DeletePortfolioEntry(req.Context(), UserID(req.Context()), id); err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"success": true})
		})
	})
}

func decodePortfolioEntry(w http.ResponseWriter, req *http.Request) (store.PortfolioInput, bool) {
	var body portfolioEntryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		badRequest(w, req, "invalid_json", err.Error())
		return store.PortfolioInput{}, false
	}
	if body.Address == "" {
		badRequest(w, req, "missing_fields", "address is required")
		return store.PortfolioInput{}, false
	}
	var date time.Time
	if body.PurchaseDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", body.PurchaseDate)
		if err != nil {
			date, err = time.Parse(time.RFC3339, body.PurchaseDate)
			if err != nil {
				badRequest(w, req, "invalid_date", "purchase_date must be YYYY-MM-DD")
				return store.PortfolioInput{}, false
			}
		}
	}
	return store.PortfolioInput{
		Address:       body.Address,
		PurchasePrice: body.PurchasePrice,
		CurrentValue:  body.CurrentValue,
		PurchaseDate:  date,
		Notes:         body.Notes,
	}, true
}
