package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/anthropic"
	httpapi "github.com/yourorg/dealdesk-api/http"
	"github.com/yourorg/dealdesk-api/internal/events"
	"github.com/yourorg/dealdesk-api/internal/quota"
	"github.com/yourorg/dealdesk-api/internal/redisx"
	"github.com/yourorg/dealdesk-api/internal/refresh"
	"github.com/yourorg/dealdesk-api/internal/snapshot"
	"github.com/yourorg/dealdesk-api/internal/store"
	"github.com/yourorg/dealdesk-api/realty"
)

type Deps struct {
	Store     *store.Store
	Search    *realty.Service
	LLM       *anthropic.Client
	Redis     *redisx.Client
	Refresher *refresh.Refresher
	Snapshots *snapshot.Recorder
	Events    events.Publisher

	StripePriceID       string
	StripeWebhookSecret string
	PublicBaseURL       string
	StaticDir           string
}

func BuildRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quotas
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	gate := quota.NewGate(d.Store)

	httpapi.RegisterAuth(r, httpapi.AuthDeps{Store: d.Store})
	httpapi.RegisterSearch(r, httpapi.SearchDeps{
		Service:    d.Search,
		Redis:      d.Redis,
		Refresher:  d.Refresher,
		Snapshots:  d.Snapshots,
		Events:     d.Events,
		CacheTTL:   time.Hour,
		StaleAfter: 10 * time.Minute,
	})
	httpapi.RegisterAnalyze(r, httpapi.AnalyzeDeps{Store: d.Store, LLM: d.LLM, Gate: gate, Events: d.Events})
	httpapi.RegisterAnalyses(r, httpapi.AnalysesDeps{Store: d.Store})
	httpapi.RegisterFavorites(r, httpapi.FavoritesDeps{Store: d.Store, Events: d.Events})
	httpapi.RegisterPortfolio(r, httpapi.PortfolioDeps{Store: d.Store})
	httpapi.RegisterDashboard(r, httpapi.DashboardDeps{Store: d.Store})
	httpapi.RegisterBilling(r, httpapi.BillingDeps{
		Store:         d.Store,
		PriceID:       d.StripePriceID,
		WebhookSecret: d.StripeWebhookSecret,
		PublicBaseURL: d.PublicBaseURL,
		Events:        d.Events,
	})
	httpapi.RegisterStatic(r, d.StaticDir)

	return r
}
