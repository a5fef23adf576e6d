package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/internal/events"
	"github.com/yourorg/dealdesk-api/internal/redisx"
	"github.com/yourorg/dealdesk-api/internal/refresh"
	"github.com/yourorg/dealdesk-api/internal/snapshot"
	"github.com/yourorg/dealdesk-api/realty"
)

type SearchDeps struct {
	Service   *realty.Service
	Redis     *redisx.Client
	Refresher *refresh.Refresher
	Snapshots *snapshot.Recorder
	Events    events.Publisher

	// TTL and staleness tuning
	CacheTTL   time.Duration
	StaleAfter time.Duration
}

type searchEnvelope struct {
	Data struct {
		Properties []realty.Property `json:"properties"`
		Notices    []string          `json:"notices,omitempty"`
	} `json:"data"`
	Meta struct {
		LastFetch  time.Time `json:"last_fetch_at"`
		StaleAfter time.Time `json:"stale_after"`
		TTLSeconds int       `json:"ttl_seconds"`
		Source     string    `json:"source"`
	} `json:"meta"`
}

// SearchCacheKey derives a stable Redis key from the full search input, so
// two identical searches share one cache entry.
func SearchCacheKey(in realty.SearchInput) string {
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "search:" + hex.EncodeToString(sum[:16])
}

// SearchCacheWrite stores a result envelope. The background refresher uses
// it too, so stale entries get repaired with the same shape the handler
// reads.
func SearchCacheWrite(ctx context.Context, rdb *redisx.Client, key string, res realty.SearchResult, ttl, staleAfter time.Duration) error {
	var env searchEnvelope
	env.Data.Properties = res.Properties
	env.Data.Notices = res.Notices
	env.Meta.LastFetch = time.Now()
	env.Meta.StaleAfter = env.Meta.LastFetch.Add(maxDur(staleAfter, 5*time.Minute))
	env.Meta.TTLSeconds = int(maxDur(ttl, time.Hour).Seconds())
	env.Meta.Source = "rapidapi"
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, string(b), time.Duration(env.Meta.TTLSeconds)*time.Second)
}

func RegisterSearch(r chi.Router, d SearchDeps) {
	r.With(RequireUser).Post("/api/search", func(w http.ResponseWriter, req *http.Request) {
		var body realty.SearchInput
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			badRequest(w, req, "invalid_json", err.Error())
			return
		}
		handleSearch(w, req, d, body)
	})
}

func handleSearch(w http.ResponseWriter, req *http.Request, d SearchDeps, body realty.SearchInput) {
	ctx := req.Context()
	key := SearchCacheKey(body)
	publish(req, d.Events, UserID(ctx), "search", body.City+", "+body.State)

	if d.Redis != nil {
		if val, err := d.Redis.Get(ctx, key); err == nil && val != "" {
			var env searchEnvelope
			if err := json.Unmarshal([]byte(val), &env); err == nil {
				stale := time.Now().After(env.Meta.StaleAfter)
				if stale && d.Refresher != nil {
					d.Refresher.Enqueue(refresh.Job{CacheKey: key, Input: body})
				}
				render.JSON(w, req, map[string]any{
					"source":     "cache",
					"stale":      stale,
					"properties": env.Data.Properties,
					"notices":    env.Data.Notices,
				})
				return
			}
		}

		// Cold miss: short lock so concurrent identical searches don't all
		// hit the upstream quota.
		if ok, _ := d.Redis.SetNX(ctx, key+":lock", "1", 8*time.Second); !ok {
			render.Status(req, http.StatusAccepted)
			render.JSON(w, req, map[string]any{"in_progress": true})
			return
		}
	}

	res, err := d.Service.Search(ctx, body)
	if err != nil {
		respondError(w, req, err)
		return
	}

	if d.Snapshots != nil {
		d.Snapshots.Record("properties/v3/list", body.City, body.State, res.Raw)
	}
	if d.Redis != nil {
		_ = SearchCacheWrite(ctx, d.Redis, key, res, d.CacheTTL, d.StaleAfter)
	}

	render.JSON(w, req, map[string]any{
		"source":     "fresh",
		"stale":      false,
		"properties": res.Properties,
		"notices":    res.Notices,
	})
}

func maxDur(a, b time.Duration) time.Duration {
	if a > 0 {
		return a
	}
	return b
}
