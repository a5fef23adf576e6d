package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestLogoutClearsCookieAndCheckReportsAnonymous(t *testing.T) {
	r := chi.NewRouter()
	RegisterAuth(r, AuthDeps{})

	// logout always succeeds and expires the cookie
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "5"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cleared = c
		}
	}
	if cleared == nil {
		t.Fatal("logout did not set a cookie")
	}
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("cookie not expired: value=%q maxAge=%d", cleared.Value, cleared.MaxAge)
	}

	// a check without the cookie reports anonymous
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d", rec.Code)
	}
	var out struct {
		IsAuthenticated bool            `json:"isAuthenticated"`
		User            json.RawMessage `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.IsAuthenticated {
		t.Fatal("check after logout should report isAuthenticated=false")
	}
	if string(out.User) != "null" {
		t.Fatalf("user = %s, want null", out.User)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if !isUniqueViolation(dup) {
		t.Fatal("wrapped 23505 should count as a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New(`duplicate key value violates unique constraint "users_email_key"`)) {
		t.Fatal("matching on the message text alone should not count")
	}
}

func TestRegisterValidation(t *testing.T) {
	r := chi.NewRouter()
	RegisterAuth(r, AuthDeps{})

	cases := []string{
		`{nope`,
		`{"email":"","password":"pw","name":"A"}`,
		`{"email":"a@b.com","password":"","name":"A"}`,
		`{"email":"a@b.com","password":"pw","name":""}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}
