package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/yourorg/dealdesk-api/anthropic"
	httpapi "github.com/yourorg/dealdesk-api/http"
	"github.com/yourorg/dealdesk-api/internal/activity"
	"github.com/yourorg/dealdesk-api/internal/env"
	"github.com/yourorg/dealdesk-api/internal/events"
	"github.com/yourorg/dealdesk-api/internal/logger"
	"github.com/yourorg/dealdesk-api/internal/redisx"
	"github.com/yourorg/dealdesk-api/internal/refresh"
	"github.com/yourorg/dealdesk-api/internal/snapshot"
	"github.com/yourorg/dealdesk-api/internal/store"
	"github.com/yourorg/dealdesk-api/realty"
)

func main() {
	port := env.GetInt("PORT", 4000)
	dsn := env.Must("PG_DSN")
	rapidKey := env.Must("RAPID_API_KEY")
	anthropicKey := env.Must("ANTHROPIC_API_KEY")

	stripe.Key = env.Get("STRIPE_SECRET_KEY", "")

	st, err := store.Open(dsn)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var rdb *redisx.Client
	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rdb = redisx.New(addr, env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
		if err := rdb.Ping(ctx); err != nil {
			log.Printf("[WARN] redis unreachable, search cache disabled: %v", err)
			rdb = nil
		}
	}

	search := realty.NewService(realty.NewClient(rapidKey))
	llm := anthropic.NewClient(anthropicKey)

	var refresher *refresh.Refresher
	if rdb != nil {
		refresher = refresh.New(256, 2, func(ctx context.Context, j refresh.Job) {
			res, err := search.Search(ctx, j.Input)
			if err != nil {
				log.Printf("[WARN] cache refresh failed for %s: %v", j.CacheKey, err)
				return
			}
			if err := httpapi.SearchCacheWrite(ctx, rdb, j.CacheKey, res, time.Hour, 10*time.Minute); err != nil {
				log.Printf("[WARN] cache rewrite failed for %s: %v", j.CacheKey, err)
			}
		})
	}

	pub := events.NewInMemory(256)
	activity.NewRecorder(pub).Start()

	router := BuildRouter(Deps{
		Store:               st,
		Search:              search,
		LLM:                 llm,
		Redis:               rdb,
		Refresher:           refresher,
		Snapshots:           snapshot.NewRecorder(st, "rapidapi.realty-in-us"),
		Events:              pub,
		StripePriceID:       env.Get("STRIPE_PRICE_ID", ""),
		StripeWebhookSecret: env.Get("STRIPE_WEBHOOK_SECRET", ""),
		PublicBaseURL:       env.Get("PUBLIC_BASE_URL", "http://localhost:4000"),
		StaticDir:           env.Get("STATIC_DIR", ""),
	})

	log.Printf("dealdesk-api listening on :%d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), logger.Middleware(router)); err != nil {
		log.Fatal(err)
	}
}
