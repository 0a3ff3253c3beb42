// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway talks to the remote transit agent service and maps each
// request's outcome onto the chat log.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jeranaias/transit-tui/internal/model"
	"github.com/jeranaias/transit-tui/internal/store"
)

// ErrorFallback is the fixed assistant message shown when a prompt request
// fails for any reason. The underlying error is never surfaced to the user.
const ErrorFallback = "Sorry, I encountered an error."

// DefaultBaseURL is used when no override is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Callbacks are invoked as a Send progresses. Any of them may be nil.
type Callbacks struct {
	OnStart   func()
	OnSuccess func(response string)
	OnError   func(err error)
}

// HTTPStatusError captures a non-2xx response from the agent service.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gateway: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client issues requests to the agent service and records their outcomes in
// the message store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *store.MessageStore

	// loading counts in-flight prompt requests. Exposed as a boolean busy
	// flag; reset on every exit path.
	loading atomic.Int64

	// logErrors enables error detail logging (development builds only).
	logErrors bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds a single prompt request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithErrorLogging enables logging of raw request errors.
func WithErrorLogging(on bool) Option {
	return func(c *Client) { c.logErrors = on }
}

// New creates a gateway client for the given base URL and message store.
func New(baseURL string, st *store.MessageStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      st,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Loading reports whether any prompt request is in flight.
func (c *Client) Loading() bool {
	return c.loading.Load() > 0
}

// =============================================================================
// SEND
// =============================================================================

// Send submits a prompt to the agent service.
//
// An empty prompt (after trimming) is a silent no-op: nothing is appended
// and no callback fires. Otherwise the user message and a placeholder are
// appended as a pair, OnStart fires, and the request is issued. On success
// the placeholder is rewritten with the response (animate=true); on any
// failure it is rewritten with ErrorFallback (animate=false). The busy flag
// is reset on every exit path, including panics unwinding through here.
//
// Send blocks until the request resolves; callers run it from a goroutine
// or command.
func (c *Client) Send(ctx context.Context, prompt string, cb Callbacks) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return
	}

	placeholder := model.NewPlaceholderMessage()
	if err := c.store.Append(model.NewUserMessage(prompt), placeholder); err != nil {
		if c.logErrors {
			log.Printf("gateway: append failed: %v", err)
		}
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}

	c.loading.Add(1)
	defer c.loading.Add(-1)

	if cb.OnStart != nil {
		cb.OnStart()
	}

	response, err := c.prompt(ctx, prompt)
	if err != nil {
		if c.logErrors {
			log.Printf("gateway: prompt failed: %v", err)
		}
		// The rewrite targets this Send's own placeholder.
		c.recordReply(placeholder.ID, ErrorFallback, false)
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}

	c.recordReply(placeholder.ID, response, true)
	if cb.OnSuccess != nil {
		cb.OnSuccess(response)
	}
}

// recordReply rewrites a placeholder and reports rewrites that went
// nowhere: a persist failure, or a placeholder cleared mid-flight.
func (c *Client) recordReply(id, content string, animate bool) {
	replaced, err := c.store.Replace(id, content, animate)
	if (err != nil || !replaced) && c.logErrors {
		log.Printf("gateway: record reply failed: replaced=%t err=%v", replaced, err)
	}
}

// prompt issues the POST /agent/prompt call.
func (c *Client) prompt(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("gateway: encode request: %w", err)
	}

	url := c.baseURL + "/agent/prompt"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, URL: url, Body: strings.TrimSpace(string(data))}
	}

	var decoded struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("gateway: decode response: %w", err)
	}
	return decoded.Response, nil
}

// =============================================================================
// AUXILIARY FETCHES
// =============================================================================

// SuggestedPrompts fetches the suggested prompt list. Failures degrade to an
// empty list; they never reach the chat flow.
func (c *Client) SuggestedPrompts(ctx context.Context) []string {
	var prompts []string
	if err := c.getJSON(ctx, "/suggested-prompts", &prompts); err != nil {
		if c.logErrors {
			log.Printf("gateway: suggested prompts failed: %v", err)
		}
		return nil
	}
	return prompts
}

// About fetches service metadata. Failures degrade to a placeholder value.
func (c *Client) About(ctx context.Context) model.AboutInfo {
	var info model.AboutInfo
	if err := c.getJSON(ctx, "/about", &info); err != nil {
		if c.logErrors {
			log.Printf("gateway: about failed: %v", err)
		}
		return model.AboutInfo{App: "...", Service: "...", Version: "..."}
	}
	return info
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPStatusError{StatusCode: resp.StatusCode, URL: url, Body: strings.TrimSpace(string(data))}
	}
	return json.Unmarshal(data, out)
}
