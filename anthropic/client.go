package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	// DefaultModel is pinned; analysis output quality is tuned against it.
	DefaultModel = "claude-3-sonnet-20240229"

	apiVersion = "2023-06-01"
)

var (
	// ErrNoAPIKey is returned when the client was built without a key; the
	// route layer maps it to a 500 configuration error.
	ErrNoAPIKey = errors.New("anthropic api key not configured")
	// ErrBadResponse is returned when the first content block of a
	// completion is absent or not text.
	ErrBadResponse = errors.New("unexpected response format from model")
)

// Message is one turn of a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the Anthropic Messages API.
type Client struct {
	key     string
	baseURL string
	model   string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(apiKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 60 * time.Second
	rc.Logger = nil

	return &Client{
		key:     apiKey,
		baseURL: "https://api.anthropic.com",
		model:   DefaultModel,
		http:    rc,
		// protect the provider quota: burst of 2, steady 1 req/s
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Complete sends the messages and returns the first text content block.
func (c *Client) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if c.key == "" {
		return "", ErrNoAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages":   messages,
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.key)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", fmt.Errorf("anthropic error %d: %v", resp.StatusCode, apiErr)
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 || out.Content[0].Type != "text" {
		return "", ErrBadResponse
	}
	return out.Content[0].Text, nil
}
