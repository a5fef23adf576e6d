package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/internal/store"
)

type DashboardDeps struct {
	Store *store.Store
}

type activityView struct {
	Type     string `json:"type"`
	Property string `json:"property"`
	When     string `json:"when"`
}

func RegisterDashboard(r chi.Router, d DashboardDeps) {
	r.With(RequireUser).Get("/api/dashboard", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		userID := UserID(req.Context())

		stats, err := d.Store.DashboardStats(ctx, userID)
		if err != nil {
			respondError(w, req, err)
			return
		}
		trends, err := d.Store.PriceTrends(ctx, userID)
		if err != nil {
			respondError(w, req, err)
			return
		}
		recent, err := d.Store.RecentActivity(ctx, userID)
		if err != nil {
			respondError(w, req, err)
			return
		}

		activity := make([]activityView, 0, len(recent))
		for _, it := range recent {
			activity = append(activity, activityView{
				Type:     it.Type,
				Property: it.Property,
				When:     relativeTime(time.Since(it.Timestamp)),
			})
		}
		if trends == nil {
			trends = []store.PriceTrendPoint{}
		}
		render.JSON(w, req, map[string]any{
			"stats":          stats,
			"priceTrends":    trends,
			"recentActivity": activity,
		})
	})
}

func relativeTime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
