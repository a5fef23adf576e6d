package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/dealdesk-api/anthropic"
	"github.com/yourorg/dealdesk-api/internal/events"
	"github.com/yourorg/dealdesk-api/internal/quota"
	"github.com/yourorg/dealdesk-api/internal/store"
	"github.com/yourorg/dealdesk-api/realty"
)

type AnalyzeDeps struct {
	Store  *store.Store
	LLM    *anthropic.Client
	Gate   *quota.Gate
	Events events.Publisher
}

type compareRequest struct {
	Properties []realty.Property `json:"properties"`
}

type chatRequest struct {
	Message    string            `json:"message"`
	Context    string            `json:"context"`
	Properties []realty.Property `json:"properties"`
}

type portfolioCompareRequest struct {
	ChatMessage          string              `json:"chatMessage"`
	PortfolioProperties  []anthropic.Holding `json:"portfolioProperties"`
	ComparisonProperties []realty.Property   `json:"comparisonProperties"`
}

func RegisterAnalyze(r chi.Router, d AnalyzeDeps) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
			var p realty.Property
			if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			if p.Address == "" {
				badRequest(w, req, "missing_fields", "property address is required")
				return
			}
			userID := UserID(req.Context())
			if _, err := d.Gate.Consume(req.Context(), userID); err != nil {
				respondError(w, req, err)
				return
			}
			text, err := d.LLM.Complete(req.Context(), anthropic.ComposeAnalysis(p), anthropic.MaxTokensAnalysis)
			if err != nil {
				respondError(w, req, err)
				return
			}
			publish(req, d.Events, userID, "analysis", p.Address)
			render.JSON(w, req, map[string]any{"analysis": text})
		})

		r.Post("/api/compare", func(w http.ResponseWriter, req *http.Request) {
			var body compareRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			if len(body.Properties) == 0 {
				badRequest(w, req, "missing_fields", "at least one property is required")
				return
			}
			userID := UserID(req.Context())
			if _, err := d.Gate.Consume(req.Context(), userID); err != nil {
				respondError(w, req, err)
				return
			}
			text, err := d.LLM.Complete(req.Context(), anthropic.ComposeComparison(body.Properties), anthropic.MaxTokensComparison)
			if err != nil {
				respondError(w, req, err)
				return
			}
			publish(req, d.Events, userID, "analysis", body.Properties[0].Address)
			render.JSON(w, req, map[string]any{"analysis": text})
		})

		// Chat reuses an analysis the user already paid a credit for, so it
		// is not gated.
		r.Post("/api/chat", func(w http.ResponseWriter, req *http.Request) {
			var body chatRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			if body.Message == "" {
				badRequest(w, req, "missing_fields", "message is required")
				return
			}
			text, err := d.LLM.Complete(req.Context(), anthropic.ComposeChat(body.Context, body.Message, body.Properties), anthropic.MaxTokensChat)
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"response": text})
		})

		r.Post("/api/chat/portfolio-compare", func(w http.ResponseWriter, req *http.Request) {
			var body portfolioCompareRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			if body.ChatMessage == "" {
				badRequest(w, req, "missing_fields", "chatMessage is required")
				return
			}
			text, err := d.LLM.Complete(req.Context(),
				anthropic.ComposePortfolioComparison(body.ChatMessage, body.PortfolioProperties, body.ComparisonProperties),
				anthropic.MaxTokensPortfolioCompare)
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{"response": text})
		})

		r.Post("/api/analyze/increment", func(w http.ResponseWriter, req *http.Request) {
			u, err := d.Store.IncrementAnalysisCount(req.Context(), UserID(req.Context()))
			if err != nil {
				respondError(w, req, err)
				return
			}
			render.JSON(w, req, u)
		})
	})
}

func publish(req *http.Request, pub events.Publisher, userID int, kind, subject string) {
	if pub == nil {
		return
	}
	pub.PublishUserActivity(req.Context(), events.UserActivity{UserID: userID, Kind: kind, Subject: subject})
}
