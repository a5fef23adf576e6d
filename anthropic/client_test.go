package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key")
	c.baseURL = srv.URL
	return c
}

func TestCompleteReturnsFirstTextBlock(t *testing.T) {
	var gotReq struct {
		Model     string    `json:"model"`
		MaxTokens int       `json:"max_tokens"`
		Messages  []Message `json:"messages"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "Solid cash-flow candidate."}},
		})
	})

	got, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "analyze"}}, 1500)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Solid cash-flow candidate." {
		t.Fatalf("got %q", got)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 1500 {
		t.Errorf("max_tokens = %d", gotReq.MaxTokens)
	}
}

func TestCompleteNonTextFirstBlock(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "tool_use"}},
		})
	})
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	})
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestCompleteMissingKey(t *testing.T) {
	c := NewClient("")
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100)
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "invalid_request_error"}})
	})
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100)
	if err == nil {
		t.Fatal("expected error")
	}
}
