package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequireUserRejectsMissingCookie(t *testing.T) {
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unauthorized") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRequireUserRejectsNonNumericCookie(t *testing.T) {
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "abc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireUserPassesUserID(t *testing.T) {
	var got int
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "7"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got != 7 {
		t.Fatalf("user id = %d, want 7", got)
	}
}

func TestRedirectIfAnonymous(t *testing.T) {
	h := RedirectIfAnonymous(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?tab=deals", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?returnUrl=") {
		t.Fatalf("location = %s", loc)
	}
	if !strings.Contains(loc, "dashboard") {
		t.Fatalf("returnUrl should carry the original path: %s", loc)
	}
}

func TestRedirectIfAnonymousPassesThrough(t *testing.T) {
	ran := false
	h := RedirectIfAnonymous(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "3"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !ran {
		t.Fatal("authenticated request should reach the handler")
	}
}
