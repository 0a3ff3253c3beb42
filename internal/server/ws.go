// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeranaias/transit-tui/internal/agents"
)

// =============================================================================
// WEBSOCKET CHAT
// =============================================================================

const (
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 64 * 1024
)

// Localhost tool; the HTTP endpoints are equally open.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsInbound is a client frame on /ws.
type wsInbound struct {
	Prompt string `json:"prompt"`
}

// wsOutbound is a server frame on /ws. Type is "system" for routing
// notices, "response" for answers, "error" for failures.
type wsOutbound struct {
	Type     string            `json:"type"`
	Message  string            `json:"message,omitempty"`
	Response string            `json:"response,omitempty"`
	Error    string            `json:"error,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// handleWS runs a chat session over a websocket. Each inbound prompt
// yields a routing notice and then the assistant's answer, so a client
// can surface what the supervisor decided.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS_UPGRADE_ERROR | error=%v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	log.Printf("WS_CONNECTED | client=%s", clientIP(r))

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS_READ_ERROR | error=%v", err)
			}
			return
		}

		prompt := strings.TrimSpace(in.Prompt)
		if prompt == "" {
			if err := s.wsSend(conn, wsOutbound{Type: "error", Error: "Prompt must not be empty"}); err != nil {
				return
			}
			continue
		}

		intent := agents.ClassifyIntent(prompt)
		notice := wsOutbound{
			Type:    "system",
			Message: "Routing Decision",
			Details: map[string]string{"intent": string(intent)},
		}
		if err := s.wsSend(conn, notice); err != nil {
			return
		}

		response := s.respond(r.Context(), prompt)
		if err := s.wsSend(conn, wsOutbound{Type: "response", Response: response}); err != nil {
			return
		}
	}
}

func (s *Server) wsSend(conn *websocket.Conn, frame wsOutbound) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(frame)
}
