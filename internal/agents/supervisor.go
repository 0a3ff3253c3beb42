// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"fmt"
	"log"

	"github.com/jeranaias/transit-tui/internal/util"
)

// =============================================================================
// SUPERVISOR
// =============================================================================

// RefusalMessage is returned for prompts outside the assistant's domain.
const RefusalMessage = "I'm sorry, I cannot assist with that request. " +
	"Please ask about MBTA alerts/delays/service status."

// Messages for transit intents the assistant recognizes but cannot serve
// yet. Pointing riders at alerts beats a generic refusal.
const (
	tripPlanningMessage = "Trip planning isn't available yet. " +
		"I can tell you about current MBTA alerts, delays, and service status."
	stopInfoMessage = "Stop lookup isn't available yet. " +
		"I can tell you about current MBTA alerts, delays, and service status."
	scheduleMessage = "Schedules aren't available yet. " +
		"I can tell you about current MBTA alerts, delays, and service status."
)

// Supervisor routes prompts by intent: status questions go to the alerts
// agent, everything off-topic gets a fixed refusal.
type Supervisor struct {
	alerts *AlertsAgent
}

// NewSupervisor wires the supervisor to its downstream agent.
func NewSupervisor(alerts *AlertsAgent) *Supervisor {
	return &Supervisor{alerts: alerts}
}

// Respond classifies the prompt and produces the assistant's reply. The
// error return is reserved for internal failures the caller may want to
// log; the string reply is always usable.
func (s *Supervisor) Respond(ctx context.Context, prompt string) (string, error) {
	intent := ClassifyIntent(prompt)
	log.Printf("INTENT_CLASSIFIED | intent=%s | prompt=%q", intent, util.TruncateRunes(prompt, 60))

	switch intent {
	case IntentAlerts:
		answer, err := s.alerts.Answer(ctx, prompt)
		if err != nil {
			return "Sorry, I couldn't reach the MBTA alerts service. Please try again shortly.",
				fmt.Errorf("alerts agent: %w", err)
		}
		return answer, nil
	case IntentTripPlanning:
		return tripPlanningMessage, nil
	case IntentStopInfo:
		return stopInfoMessage, nil
	case IntentSchedule:
		return scheduleMessage, nil
	default:
		return RefusalMessage, nil
	}
}
