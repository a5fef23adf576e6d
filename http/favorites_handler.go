package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/internal/canon"
	"github.com/yourorg/dealdesk-api/internal/events"
	"github.com/yourorg/dealdesk-api/realty"
)

// FavoritesStore covers the bookmark and saved-property queries.
type FavoritesStore interface {
	AddFavorite(ctx context.Context, userID int, propertyID string, propertyData json.RawMessage) error
	ListFavorites(ctx context.Context, userID int) ([]json.RawMessage, error)
	DeleteFavorite(ctx context.Context, userID int, propertyID string) error
	SaveProperty(ctx context.Context, userID int, propertyID string, propertyData json.RawMessage) (int, error)
	ListSavedProperties(ctx context.Context, userID int) ([]json.RawMessage, error)
}

type FavoritesDeps struct {
	Store  FavoritesStore
	Events events.Publisher
}

func RegisterFavorites(r chi.Router, d FavoritesDeps) {
	r.Route("/api/properties", func(r chi.Router) {
		r.Use(RequireUser)

		r.Get("/favorite", func(w http.ResponseWriter, req *http.Request) {
			list, err := d.Store.ListFavorites(req.Context(), UserID(req.Context()))
			if err != nil {
				respondError(w, req, err)
				return
			}
			renderPropertyList(w, req, "favorites", list)
		})

		r.Post("/favorite", func(w http.ResponseWriter, req *http.Request) {
			p, data, err := decodeProperty(req)
			if err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			userID := UserID(req.Context())
			if err := d.Store.AddFavorite(req.Context(), userID, propertyKey(p), data); err != nil {
				respondError(w, req, err)
				return
			}
			publish(req, d.Events, userID, "favorite", p.Address)
			render.JSON(w, req, map[string]any{"success": true})
		})

		r.Delete("/favorite/{propertyID}", func(w http.ResponseWriter, req *http.Request) {
			err := d.Store.DeleteFavorite(req.Context(), UserID(req.Context()), chi.URLParam(req, "propertyID"))
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"success": true})
		})

		r.Get("/saved", func(w http.ResponseWriter, req *http.Request) {
			list, err := d.Store.ListSavedProperties(req.Context(), UserID(req.Context()))
			if err != nil {
				respondError(w, req, err)
				return
			}
			renderPropertyList(w, req, "properties", list)
		})

		r.Post("/save", func(w http.ResponseWriter, req *http.Request) {
			p, data, err := decodeProperty(req)
			if err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			userID := UserID(req.Context())
			id, err := d.Store.SaveProperty(req.Context(), userID, propertyKey(p), data)
			if err != nil {
				respondError(w, req, err)
				return
			}
			publish(req, d.Events, userID, "save", p.Address)
			render.Status(req, http.StatusCreated)
			render.JSON(w, req, map[string]any{"id": id})
		})
	})
}

func decodeProperty(req *http.Request) (realty.Property, json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
		return realty.Property{}, nil, err
	}
	var p realty.Property
	if err := json.Unmarshal(raw, &p); err != nil {
		return realty.Property{}, nil, err
	}
	return p, raw, nil
}

// propertyKey identifies a property for dedup. Upstream ids when present,
// otherwise the canonicalized address.
func propertyKey(p realty.Property) string {
	if p.ID != "" {
		return p.ID
	}
	_, _, _, _, key := canon.Canonicalize(p.Address, p.City, p.State, "")
	return key
}

func renderPropertyList(w http.ResponseWriter, req *http.Request, field string, list []json.RawMessage) {
	if list == nil {
		list = []json.RawMessage{}
	}
	render.JSON(w, req, map[string]any{field: list})
}
