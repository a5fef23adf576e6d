package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/yourorg/dealdesk-api/internal/store"
)

// fakeFavoritesStore mirrors the unique (user, property id) constraint on
// favorites and the append-only saved_properties table.
type fakeFavoritesStore struct {
	favorites map[string]json.RawMessage
	saved     []json.RawMessage
}

func newFakeFavoritesStore() *fakeFavoritesStore {
	return &fakeFavoritesStore{favorites: map[string]json.RawMessage{}}
}

func (f *fakeFavoritesStore) AddFavorite(_ context.Context, userID int, propertyID string, data json.RawMessage) error {
	k := fmt.Sprintf("%d|%s", userID, propertyID)
	if _, ok := f.favorites[k]; ok {
		return nil
	}
	f.favorites[k] = data
	return nil
}

func (f *fakeFavoritesStore) ListFavorites(_ context.Context, userID int) ([]json.RawMessage, error) {
	out := []json.RawMessage{}
	prefix := fmt.Sprintf("%d|", userID)
	for k, v := range f.favorites {
		if strings.HasPrefix(k, prefix) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeFavoritesStore) DeleteFavorite(_ context.Context, userID int, propertyID string) error {
	k := fmt.Sprintf("%d|%s", userID, propertyID)
	if _, ok := f.favorites[k]; !ok {
		return store.ErrNotFound
	}
	delete(f.favorites, k)
	return nil
}

func (f *fakeFavoritesStore) SaveProperty(_ context.Context, _ int, _ string, data json.RawMessage) (int, error) {
	f.saved = append(f.saved, data)
	return len(f.saved), nil
}

func (f *fakeFavoritesStore) ListSavedProperties(_ context.Context, _ int) ([]json.RawMessage, error) {
	return f.saved, nil
}

func newFavoritesRouter(s FavoritesStore) http.Handler {
	r := chi.NewRouter()
	RegisterFavorites(r, FavoritesDeps{Store: s})
	return r
}

func TestFavoriteRepeatedInsertKeepsOneRow(t *testing.T) {
	fake := newFakeFavoritesStore()
	h := newFavoritesRouter(fake)

	body := `{"property_id":"A1","address":"123 Main St","city":"Austin","state":"TX"}`
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authedPost("/api/properties/favorite", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want 200: %s", i+1, rec.Code, rec.Body.String())
		}
	}

	if len(fake.favorites) != 1 {
		t.Fatalf("favorites stored = %d, want 1", len(fake.favorites))
	}
}

func TestFavoriteAddressKeyIsStable(t *testing.T) {
	fake := newFakeFavoritesStore()
	h := newFavoritesRouter(fake)

	// No provider id: identity falls back to the canonical address, so
	// formatting differences must not create a second row.
	variants := []string{
		`{"address":"123 Main Street","city":"Austin","state":"TX"}`,
		`{"address":"123 MAIN ST","city":"austin","state":"Texas"}`,
	}
	for _, body := range variants {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authedPost("/api/properties/favorite", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	}

	if len(fake.favorites) != 1 {
		t.Fatalf("favorites stored = %d, want 1", len(fake.favorites))
	}
}

func TestFavoritesScopedToUser(t *testing.T) {
	fake := newFakeFavoritesStore()
	h := newFavoritesRouter(fake)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedPost("/api/properties/favorite", `{"property_id":"A1","address":"1 Elm St"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/properties/favorite", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "2"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp struct {
		Favorites []json.RawMessage `json:"favorites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Favorites) != 0 {
		t.Fatalf("other user sees %d favorites, want 0", len(resp.Favorites))
	}
}

func TestDeleteUnknownFavorite(t *testing.T) {
	h := newFavoritesRouter(newFakeFavoritesStore())

	req := httptest.NewRequest(http.MethodDelete, "/api/properties/favorite/nope", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}
