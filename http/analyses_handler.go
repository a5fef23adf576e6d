package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/internal/store"
	"github.com/yourorg/dealdesk-api/realty"
)

type AnalysesDeps struct {
	Store *store.Store
}

type saveAnalysisRequest struct {
	Properties []realty.Property `json:"properties"`
	Analysis   string            `json:"analysis"`
}

func RegisterAnalyses(r chi.Router, d AnalysesDeps) {
	r.Route("/api/analyses", func(r chi.Router) {
		r.Use(RequireUser)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			list, err := d.Store.ListAnalyses(req.Context(), UserID(req.Context()))
			if err != nil {
				respondError(w, req, err)
				return
			}
			if list == nil {
				list = []store.Analysis{}
			}
			render.JSON(w, req, map[string]any{"analyses": list})
		})

		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var body saveAnalysisRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			if len(body.Properties) == 0 || body.Analysis == "" {
				badRequest(w, req, "missing_fields", "properties and analysis are required")
				return
			}
			data, err := json.Marshal(body.Properties)
			if err != nil {
				respondError(w, req, err)
				return
			}
			id, err := d.Store.SaveAnalysis(req.Context(), UserID(req.Context()), data, body.Analysis)
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.Status(req, http.StatusCreated)
			render.JSON(w, req, map[string]any{"id": id})
		})

		r.Delete("/{analysisID}", func(w http.ResponseWriter, req *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(req, "analysisID"))
			if err != nil {
				badRequest(w, req, "invalid_id", "analysis id must be numeric")
				return
			}
			if err := d.Store.DeleteAnalysis(req.Context(), UserID(req.Context()), id); err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"success": true})
		})
	})
}
