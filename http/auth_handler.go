package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourorg/dealdesk-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthDeps struct {
	Store *store.Store
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func RegisterAuth(r chi.Router, d AuthDeps) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", func(w http.ResponseWriter, req *http.Request) {
			var body registerRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			body.Email = strings.TrimSpace(strings.ToLower(body.Email))
			if body.Email == "" || body.Password == "" || body.Name == "" {
				badRequest(w, req, "missing_fields", "email, password and name are required")
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				respondError(w, req, err)
				return
			}
			u, err := d.Store.CreateUser(req.Context(), body.Email, string(hash), body.Name)
			if err != nil {
				if isUniqueViolation(err) {
					render.Status(req, http.StatusConflict)
					render.JSON(w, req, map[string]any{"error": "email_taken", "detail": "an account with this email already exists"})
					return
				}
				respondError(w, req, err)
				return
			}
			setSessionCookie(w, u.ID)
			render.Status(req, http.StatusCreated)
			render.JSON(w, req, map[string]any{"user": u})
		})

		r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
			var body loginRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				badRequest(w, req, "invalid_json", err.Error())
				return
			}
			u, err := d.Store.UserByEmail(req.Context(), strings.TrimSpace(strings.ToLower(body.Email)))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					invalidCredentials(w, req)
					return
				}
				respondError(w, req, err)
				return
			}
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
				invalidCredentials(w, req)
				return
			}
			setSessionCookie(w, u.ID)
			render.JSON(w, req, map[string]any{"user": u})
		})

		r.Post("/logout", func(w http.ResponseWriter, req *http.Request) {
			clearSessionCookie(w)
			render.JSON(w, req, map[string]any{"success": true})
		})

		// check is the only auth endpoint that verifies the cookie against
		// the database, so a deleted account stops authenticating here.
		r.Get("/check", func(w http.ResponseWriter, req *http.Request) {
			id, ok := sessionUserID(req)
			if !ok {
				render.JSON(w, req, map[string]any{"isAuthenticated": false, "user": nil})
				return
			}
			u, err := d.Store.UserByID(req.Context(), id)
			if err != nil {
				render.JSON(w, req, map[string]any{"isAuthenticated": false, "user": nil})
				return
			}
			render.JSON(w, req, map[string]any{"isAuthenticated": true, "user": u})
		})
	})

	r.With(RequireUser).Get("/api/user", func(w http.ResponseWriter, req *http.Request) {
		u, err := d.Store.UserByID(req.Context(), UserID(req.Context()))
		if err != nil {
			respondError(w, req, err)
			return
		}
		render.JSON(w, req, u)
	})
}

// isUniqueViolation reports whether err carries Postgres error code 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func invalidCredentials(w http.ResponseWriter, req *http.Request) {
	render.Status(req, http.StatusUnauthorized)
	render.JSON(w, req, map[string]any{"error": "invalid_credentials", "detail": "email or password is incorrect"})
}
