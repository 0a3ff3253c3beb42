// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// =============================================================================
// MBTA V3 ALERTS CLIENT
// =============================================================================

// DefaultMBTABaseURL is the public MBTA v3 API endpoint.
const DefaultMBTABaseURL = "https://api-v3.mbta.com"

const (
	mbtaTimeout   = 10 * time.Second
	maxMBTABody   = 4 << 20 // 4MB response cap
	alertPageSize = "5"
	cacheSize     = 64
)

// ErrMissingAPIKey indicates the MBTA API key was never configured.
var ErrMissingAPIKey = errors.New("MBTA API key not configured")

// Alert is the subset of an MBTA alert the assistant reports on.
type Alert struct {
	Header   string
	Severity int
	Effect   string
}

// alertsResponse mirrors the JSON:API envelope the v3 API returns.
type alertsResponse struct {
	Data []struct {
		Attributes struct {
			Header   string `json:"header"`
			Severity int    `json:"severity"`
			Effect   string `json:"effect"`
		} `json:"attributes"`
	} `json:"data"`
}

// MBTAClient fetches service alerts from the MBTA v3 API. Requests are
// rate-limited and responses cached briefly so bursts of identical
// questions don't hammer the upstream.
type MBTAClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *expirable.LRU[string, []Alert]
}

// MBTAOption configures an MBTAClient.
type MBTAOption func(*MBTAClient)

// WithMBTABaseURL overrides the API endpoint, used by tests.
func WithMBTABaseURL(u string) MBTAOption {
	return func(c *MBTAClient) { c.baseURL = u }
}

// WithMBTAHTTPClient overrides the HTTP client.
func WithMBTAHTTPClient(hc *http.Client) MBTAOption {
	return func(c *MBTAClient) { c.httpClient = hc }
}

// NewMBTAClient creates a client. requestsPerMinute bounds the upstream
// call rate; cacheTTL bounds staleness of repeated queries.
func NewMBTAClient(apiKey string, requestsPerMinute int, cacheTTL time.Duration, opts ...MBTAOption) *MBTAClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	c := &MBTAClient{
		baseURL:    DefaultMBTABaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: mbtaTimeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
		cache:      expirable.NewLRU[string, []Alert](cacheSize, nil, cacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Alerts returns current alerts, optionally filtered to a route
// (e.g. "Red", "Green-B"). Empty route means all lines.
func (c *MBTAClient) Alerts(ctx context.Context, route string) ([]Alert, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cacheKey := "route:" + route
	if alerts, ok := c.cache.Get(cacheKey); ok {
		return alerts, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("sort", "-updated_at")
	params.Set("page[limit]", alertPageSize)
	params.Set("filter[lifecycle]", "NEW,ONGOING,UPDATE")
	if route != "" {
		params.Set("filter[route]", route)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/alerts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build alerts request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mbta api returned status %d", resp.StatusCode)
	}

	var envelope alertsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxMBTABody)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode alerts response: %w", err)
	}

	alerts := make([]Alert, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		alerts = append(alerts, Alert{
			Header:   item.Attributes.Header,
			Severity: item.Attributes.Severity,
			Effect:   item.Attributes.Effect,
		})
	}

	c.cache.Add(cacheKey, alerts)
	return alerts, nil
}
