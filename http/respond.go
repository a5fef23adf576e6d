package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/internal/canon"
	"github.com/yourorg/dealdesk-api/internal/quota"
	"github.com/yourorg/dealdesk-api/internal/store"
	"github.com/yourorg/dealdesk-api/realty"
)

// respondError maps domain errors to one HTTP shape. All handlers route
// failures through here so the same error always produces the same status.
func respondError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, quota.ErrLimitReached):
		respondStatus(w, req, http.StatusForbidden, map[string]any{
			"error":  "limit_reached",
			"detail": "Analysis limit reached. Upgrade to premium for unlimited analyses.",
		})
	case errors.Is(err, store.ErrNotFound):
		respondStatus(w, req, http.StatusNotFound, map[string]any{"error": "not_found", "detail": err.Error()})
	case errors.Is(err, canon.ErrUnknownState), errors.Is(err, realty.ErrInvalidInput):
		respondStatus(w, req, http.StatusBadRequest, map[string]any{"error": "invalid_input", "detail": err.Error()})
	default:
		respondStatus(w, req, http.StatusInternalServerError, map[string]any{"error": "internal_error", "detail": err.Error()})
	}
}

func respondStatus(w http.ResponseWriter, req *http.Request, code int, body map[string]any) {
	render.Status(req, code)
	render.JSON(w, req, body)
}

func badRequest(w http.ResponseWriter, req *http.Request, code, detail string) {
	respondStatus(w, req, http.StatusBadRequest, map[string]any{"error": code, "detail": detail})
}

func unauthorized(w http.ResponseWriter, req *http.Request) {
	respondStatus(w, req, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
}
