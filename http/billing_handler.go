package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/yourorg/dealdesk-api/internal/events"
	"github.com/yourorg/dealdesk-api/internal/store"
)

// BillingStore is the slice of the user store the Stripe handlers touch.
type BillingStore interface {
	UserByID(ctx context.Context, id int) (store.User, error)
	UpgradeToPremiumByEmail(ctx context.Context, email, subscriptionID string) error
}

type BillingDeps struct {
	Store         BillingStore
	PriceID       string
	WebhookSecret string
	PublicBaseURL string
	Events        events.Publisher
}

const webhookBodyLimit = 64 << 10

func RegisterBilling(r chi.Router, d BillingDeps) {
	r.With(RequireUser).Post("/api/create-checkout-session", func(w http.ResponseWriter, req *http.Request) {
		userID := UserID(req.Context())
		u, err := d.Store.UserByID(req.Context(), userID)
		if err != nil {
			respondError(w, req, err)
			return
		}

		base := strings.TrimRight(d.PublicBaseURL, "/")
		params := &stripe.CheckoutSessionParams{
			Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
			CustomerEmail: stripe.String(u.Email),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					Price:    stripe.String(d.PriceID),
					Quantity: stripe.Int64(1),
				},
			},
			SuccessURL:        stripe.String(base + "/dashboard?upgraded=true"),
			CancelURL:         stripe.String(base + "/pricing"),
			ClientReferenceID: stripe.String(strconv.Itoa(userID)),
		}
		sess, err := session.New(params)
		if err != nil {
			respondError(w, req, err)
			return
		}
		render.JSON(w, req, map[string]any{"sessionId": sess.ID, "url": sess.URL})
	})

	r.Post("/api/webhooks/stripe", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, webhookBodyLimit))
		if err != nil {
			badRequest(w, req, "invalid_payload", err.Error())
			return
		}

		event, err := webhook.ConstructEventWithOptions(
			body,
			req.Header.Get("Stripe-Signature"),
			d.WebhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
		)
		if err != nil {
			log.Printf("[WARN] stripe webhook signature rejected: %v", err)
			badRequest(w, req, "invalid_signature", "signature verification failed")
			return
		}

		if event.Type == "checkout.session.completed" {
			var sess stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
				badRequest(w, req, "invalid_payload", err.Error())
				return
			}
			email := sess.CustomerEmail
			if email == "" && sess.CustomerDetails != nil {
				email = sess.CustomerDetails.Email
			}
			if email == "" {
				badRequest(w, req, "invalid_payload", "checkout session has no customer email")
				return
			}
			subID := ""
			if sess.Subscription != nil {
				subID = sess.Subscription.ID
			}
			if err := d.Store.UpgradeToPremiumByEmail(req.Context(), email, subID); err != nil {
				respondError(w, req, err)
				return
			}
			log.Printf("[INFO] premium upgrade recorded for %s", email)
			if d.Events != nil {
				if ref, err := strconv.Atoi(sess.ClientReferenceID); err == nil {
					d.Events.PublishUserActivity(req.Context(), events.UserActivity{UserID: ref, Kind: "upgrade", Subject: email})
				}
			}
		}

		// Unrecognized event types are acknowledged and dropped.
		render.JSON(w, req, map[string]any{"received": true})
	})
}
