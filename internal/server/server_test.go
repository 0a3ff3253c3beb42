// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeranaias/transit-tui/internal/agents"
)

// newTestServer builds a server whose alerts agent talks to a stubbed
// MBTA endpoint.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	mbta := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"attributes":{"header":"Red Line delays","severity":5,"effect":"DELAY"}}]}`))
	}))
	t.Cleanup(mbta.Close)

	sup := agents.NewSupervisor(agents.NewAlertsAgent(
		agents.NewMBTAClient("test-key", 600, time.Minute, agents.WithMBTABaseURL(mbta.URL))))
	return NewServer(0, sup)
}

func postPrompt(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/agent/prompt", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// =============================================================================
// PROMPT ENDPOINT
// =============================================================================

func TestHandlePrompt(t *testing.T) {
	s := newTestServer(t)

	w := postPrompt(t, s, `{"prompt":"any delays on the red line?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp PromptResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(resp.Response, "Red Line delays") {
		t.Errorf("response missing alert text: %q", resp.Response)
	}
}

func TestHandlePrompt_OffTopic(t *testing.T) {
	s := newTestServer(t)

	w := postPrompt(t, s, `{"prompt":"tell me a joke"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp PromptResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Response != agents.RefusalMessage {
		t.Errorf("got %q, want refusal", resp.Response)
	}
}

func TestHandlePrompt_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty prompt", `{"prompt":"  "}`, http.StatusBadRequest},
		{"malformed json", `{"prompt":`, http.StatusBadRequest},
		{"oversize prompt", `{"prompt":"` + strings.Repeat("x", MaxPromptLength+1) + `"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postPrompt(t, s, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandlePrompt_RecordsHistory(t *testing.T) {
	s := newTestServer(t)

	h, err := agents.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer h.Close()
	s.WithHistory(h)

	postPrompt(t, s, `{"prompt":"red line status"}`)

	n, err := h.Count(context.Background())
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1, nil", n, err)
	}
}

// =============================================================================
// SUGGESTED PROMPTS / ABOUT / HEALTH
// =============================================================================

func TestHandleSuggestedPrompts_Defaults(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/suggested-prompts", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var prompts []string
	if err := json.Unmarshal(w.Body.Bytes(), &prompts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(prompts) != len(DefaultSuggestedPrompts) {
		t.Errorf("got %d prompts, want %d", len(prompts), len(DefaultSuggestedPrompts))
	}
}

func TestHandleAbout(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var about map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &about); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if about["service"] != "transitd" {
		t.Errorf("service = %v, want transitd", about["service"])
	}
	if about["version"] != Version {
		t.Errorf("version = %v, want %s", about["version"], Version)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var health HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func TestMiddlewareChain(t *testing.T) {
	handler := Chain(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		CORSMiddleware(),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// =============================================================================
// WEBSOCKET
// =============================================================================

func TestWebSocketChat(t *testing.T) {
	s := newTestServer(t)
	// The upgrade must survive the same middleware stack Start serves,
	// which requires the logging wrapper to pass hijacking through.
	srv := httptest.NewServer(s.chainedHandler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"prompt": "red line delays?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// First frame is the routing notice.
	var notice wsOutbound
	if err := conn.ReadJSON(&notice); err != nil {
		t.Fatalf("read notice: %v", err)
	}
	if notice.Type != "system" || notice.Details["intent"] != "alerts" {
		t.Errorf("unexpected notice: %+v", notice)
	}

	// Then the answer.
	var answer wsOutbound
	if err := conn.ReadJSON(&answer); err != nil {
		t.Fatalf("read answer: %v", err)
	}
	if answer.Type != "response" || !strings.Contains(answer.Response, "Red Line delays") {
		t.Errorf("unexpected answer: %+v", answer)
	}
}

// =============================================================================
// PROMPT LIST HOT RELOAD
// =============================================================================

func TestPromptList_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")

	p, err := NewPromptList(path)
	if err != nil {
		t.Fatalf("NewPromptList: %v", err)
	}
	defer p.Close()

	// Missing file serves defaults.
	if got := p.Current(); len(got) != len(DefaultSuggestedPrompts) {
		t.Fatalf("got %d prompts, want defaults", len(got))
	}

	if err := os.WriteFile(path, []byte(`["Custom prompt"]`), 0644); err != nil {
		t.Fatalf("write prompts: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		got := p.Current()
		if len(got) == 1 && got[0] == "Custom prompt" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("prompts never reloaded, have %v", got)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestPromptList_BadFileKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	if err := os.WriteFile(path, []byte(`["Good prompt"]`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewPromptList(path)
	if err != nil {
		t.Fatalf("NewPromptList: %v", err)
	}
	defer p.Close()

	if got := p.Current(); len(got) != 1 || got[0] != "Good prompt" {
		t.Fatalf("initial load wrong: %v", got)
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	// Give the debounce a chance to fire, then confirm nothing changed.
	time.Sleep(500 * time.Millisecond)
	if got := p.Current(); len(got) != 1 || got[0] != "Good prompt" {
		t.Errorf("bad file replaced prompts: %v", got)
	}
}
