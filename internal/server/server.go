// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/transit-tui/internal/agents"
	"github.com/jeranaias/transit-tui/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the agent service.
	DefaultPort = 8000

	// MaxPromptLength bounds a single prompt to prevent abuse.
	MaxPromptLength = 10000

	// MaxRequestBodySize is the maximum request body size (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// respondTimeout bounds one supervisor round trip.
	respondTimeout = 30 * time.Second

	// Version is the service version.
	Version = "1.0.0"
)

// ============================================================================
// SERVER
// ============================================================================

// Server is the HTTP front of the transit assistant.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	supervisor *agents.Supervisor
	history    *agents.History
	prompts    *PromptList
	about      model.AboutInfo
	started    time.Time
}

// NewServer wires the service around a supervisor. If port is 0, the
// default port (8000) is used.
func NewServer(port int, supervisor *agents.Supervisor) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:       port,
		router:     http.NewServeMux(),
		supervisor: supervisor,
		about:      DefaultAboutInfo(),
		started:    time.Now(),
	}

	s.setupRoutes()
	return s
}

// WithHistory attaches a prompt history store.
func (s *Server) WithHistory(h *agents.History) *Server {
	s.history = h
	return s
}

// WithPrompts attaches a suggested-prompts source.
func (s *Server) WithPrompts(p *PromptList) *Server {
	s.prompts = p
	return s
}

// WithAbout overrides the service metadata.
func (s *Server) WithAbout(info model.AboutInfo) *Server {
	s.about = info
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// DefaultAboutInfo describes this build of the service.
func DefaultAboutInfo() model.AboutInfo {
	return model.AboutInfo{
		App:     "transit-tui",
		Service: "transitd",
		Version: Version,
		Dependencies: map[string]string{
			"mbta-api": "v3",
		},
	}
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /agent/prompt", s.handlePrompt)
	s.router.HandleFunc("GET /suggested-prompts", s.handleSuggestedPrompts)
	s.router.HandleFunc("GET /about", s.handleAbout)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ws", s.handleWS)
}

// ============================================================================
// PROMPT HANDLER
// ============================================================================

// PromptRequest is the body of POST /agent/prompt.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// PromptResponse is the reply to POST /agent/prompt.
type PromptResponse struct {
	Response string `json:"response"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", MaxRequestBodySize))
			return
		}
		log.Printf("Invalid request body: %v", err)
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		s.writeError(w, http.StatusBadRequest, "Prompt must not be empty")
		return
	}
	if len(prompt) > MaxPromptLength {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Prompt exceeds maximum length of %d", MaxPromptLength))
		return
	}

	response := s.respond(r.Context(), prompt)
	s.writeJSON(w, http.StatusOK, PromptResponse{Response: response})
}

// respond runs the supervisor under a timeout and records the exchange.
// Internal failures are logged; the caller always gets a usable reply.
func (s *Server) respond(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, respondTimeout)
	defer cancel()

	start := time.Now()
	response, err := s.supervisor.Respond(ctx, prompt)
	if err != nil {
		log.Printf("RESPOND_ERROR | error=%v latency=%dms", err, time.Since(start).Milliseconds())
	} else {
		log.Printf("RESPOND_COMPLETE | latency=%dms", time.Since(start).Milliseconds())
	}

	if s.history != nil {
		intent := agents.ClassifyIntent(prompt)
		if err := s.history.Record(ctx, prompt, response, intent); err != nil {
			log.Printf("HISTORY_ERROR | error=%v", err)
		}
	}
	return response
}

// ============================================================================
// SUGGESTED PROMPTS HANDLER
// ============================================================================

func (s *Server) handleSuggestedPrompts(w http.ResponseWriter, r *http.Request) {
	prompts := DefaultSuggestedPrompts
	if s.prompts != nil {
		prompts = s.prompts.Current()
	}
	s.writeJSON(w, http.StatusOK, prompts)
}

// ============================================================================
// ABOUT HANDLER
// ============================================================================

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.about)
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       Version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// chainedHandler wraps the router in the production middleware stack.
func (s *Server) chainedHandler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		CORSMiddleware(),
		LoggingMiddleware(log.Default()),
	)(s.router)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.chainedHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")
	return s.server.Shutdown(ctx)
}

// Handler returns the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}
