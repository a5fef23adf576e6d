package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ctxKey int

const userIDKey ctxKey = 0

const sessionCookie = "token"

// UserID returns the authenticated user's id, or 0 when the request did
// not pass RequireUser.
func UserID(ctx context.Context) int {
	v, _ := ctx.Value(userIDKey).(int)
	return v
}

// RequireUser rejects requests without a session cookie. The cookie value
// is the user's id; ownership of every row is still checked per-query, so
// a forged id can only reach its own (empty) data.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := sessionUserID(req)
		if !ok {
			unauthorized(w, req)
			return
		}
		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), userIDKey, id)))
	})
}

// RedirectIfAnonymous sends browser page requests to the login screen with
// a returnUrl instead of returning a JSON 401.
func RedirectIfAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, ok := sessionUserID(req); !ok {
			http.Redirect(w, req, "/login?returnUrl="+url.QueryEscape(req.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func sessionUserID(req *http.Request) (int, bool) {
	c, err := req.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return 0, false
	}
	id, err := strconv.Atoi(c.Value)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func setSessionCookie(w http.ResponseWriter, userID int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    strconv.Itoa(userID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   7 * 24 * 60 * 60,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
