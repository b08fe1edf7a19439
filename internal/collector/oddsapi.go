// Package collector retrieves raw market data from The Odds API and turns it
// into domain event snapshots for the analyzer, metering requests against a
// daily credit budget.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// OddsAPIClient is the REST client for The Odds API v4.
type OddsAPIClient struct {
	baseURL    string
	apiKey     string
	regions    string
	markets    string
	httpClient *http.Client

	// remaining holds the last x-requests-remaining header value, or -1
	// before the first response.
	remaining atomic.Int64
}

// OddsAPIConfig configures the client.
type OddsAPIConfig struct {
	// BaseURL is the API root, e.g. "https://api.the-odds-api.com/v4/sports".
	BaseURL string
	APIKey  string
	// Regions is the comma-separated region list, e.g. "eu,uk".
	Regions string
	// Markets is the comma-separated market list, e.g. "h2h,h2h_lay".
	Markets string
}

// NewOddsAPIClient creates a client with a default 30-second HTTP timeout.
func NewOddsAPIClient(cfg OddsAPIConfig) *OddsAPIClient {
	c := &OddsAPIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		regions: cfg.Regions,
		markets: cfg.Markets,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	c.remaining.Store(-1)
	return c
}

// GetOdds fetches the current odds for one sport and returns the raw API
// events.
func (c *OddsAPIClient) GetOdds(ctx context.Context, sport string) ([]APIEvent, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", c.markets)
	params.Set("oddsFormat", "decimal")

	endpoint := fmt.Sprintf("%s/%s/odds?%s", c.baseURL, url.PathEscape(sport), params.Encode())

	body, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("oddsapi: get odds for %s: %w", sport, err)
	}

	var events []APIEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("oddsapi: decode odds for %s: %w", sport, err)
	}
	return events, nil
}

// APISport is one entry of the sports catalogue.
type APISport struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// GetSports fetches the catalogue of available sports.
func (c *OddsAPIClient) GetSports(ctx context.Context) ([]APISport, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	body, err := c.doGet(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("oddsapi: get sports: %w", err)
	}

	var sports []APISport
	if err := json.Unmarshal(body, &sports); err != nil {
		return nil, fmt.Errorf("oddsapi: decode sports: %w", err)
	}
	return sports, nil
}

// RemainingRequests reports the API credit balance from the most recent
// response, or -1 when no request has completed yet.
func (c *OddsAPIClient) RemainingRequests() int {
	return int(c.remaining.Load())
}

// doGet performs a GET request and returns the response body. It records the
// x-requests-remaining header when present.
func (c *OddsAPIClient) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if v := resp.Header.Get("x-requests-remaining"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			c.remaining.Store(int64(n))
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
