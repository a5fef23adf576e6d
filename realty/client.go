package realty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrInvalidInput marks a search request the filter builder rejected.
var ErrInvalidInput = errors.New("invalid search input")

// Client talks to the RapidAPI realty provider.
type Client struct {
	key     string
	host    string
	baseURL string
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 6 * time.Second
	rc.Logger = nil

	return &Client{
		key:     apiKey,
		host:    "realty-in-us.p.rapidapi.com",
		baseURL: "https://realty-in-us.p.rapidapi.com",
		http:    rc,
	}
}

// List runs a for-sale listing search.
// POST /properties/v3/list with a JSON query payload.
func (c *Client) List(ctx context.Context, q ListQuery) ([]byte, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/properties/v3/list", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/json")
	c.setAuth(req)
	return c.do(req)
}

// Detail fetches the expanded record for one property id.
// GET /properties/v3/detail?property_id=...
func (c *Client) Detail(ctx context.Context, propertyID string) ([]byte, error) {
	q := url.Values{}
	q.Set("property_id", propertyID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/properties/v3/detail?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setAuth(req)
	return c.do(req)
}

// Photos fetches the photo list for one property id and returns the hrefs.
// GET /properties/v3/get-photos?property_id=...
func (c *Client) Photos(ctx context.Context, propertyID string) ([]string, error) {
	q := url.Values{}
	q.Set("property_id", propertyID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/properties/v3/get-photos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setAuth(req)
	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return parsePhotoPayload(raw)
}

func (c *Client) setAuth(req *retryablehttp.Request) {
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-rapidapi-key", c.key)
	req.Header.Set("x-rapidapi-host", c.host)
}

func (c *Client) do(req *retryablehttp.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("realty error %d: %v", resp.StatusCode, body)
	}
	return ioReadAllLimit(resp.Body, 4<<20) // 4MB guard
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
