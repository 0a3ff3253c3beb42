// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import "strings"

// =============================================================================
// INTENTS
// =============================================================================

// Intent is a coarse category for an incoming prompt.
type Intent string

const (
	IntentAlerts       Intent = "alerts"
	IntentTripPlanning Intent = "trip_planning"
	IntentStopInfo     Intent = "stop_info"
	IntentSchedule     Intent = "schedule"
	IntentOffTopic     Intent = "off_topic"
)

// =============================================================================
// KEYWORD CLASSIFIER
// =============================================================================

// Keyword groups scored per intent. A prompt lands on the intent with the
// most hits; ties resolve in the order below so status questions win.
var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentAlerts, []string{
		"alert", "delay", "delays", "disruption", "disruptions", "status",
		"running", "problem", "problems", "issue", "issues", "outage",
		"outages", "interruption", "suspended", "shuttle", "closed",
		"wrong", "normal",
	}},
	{IntentSchedule, []string{
		"schedule", "timetable", "next train", "next bus", "arrival",
		"arrivals", "departure", "departures", "when does", "what time",
		"frequency", "how often",
	}},
	{IntentTripPlanning, []string{
		"how do i get", "how to get", "route from", "route to",
		"directions", "fastest way", "best way", "plan my trip",
		"plan a trip", "travel from", "commute", "take me to",
		"navigate", "journey",
	}},
	{IntentStopInfo, []string{
		"stop", "stops", "station", "stations", "nearest", "closest",
		"near me", "where is", "where can i board", "locate",
	}},
}

// Words that mark a prompt as transit-related even without an intent hit.
var transitMarkers = []string{
	"mbta", "subway", "train", "trains", "bus", "buses", "transit",
	"commuter rail", "ferry", "the t", "red line", "orange line",
	"blue line", "green line", "silver line",
}

// ClassifyIntent assigns an intent to a prompt using keyword scoring.
// Prompts with no transit signal at all are off-topic.
func ClassifyIntent(prompt string) Intent {
	p := strings.ToLower(prompt)

	best := IntentOffTopic
	bestScore := 0
	for _, group := range intentKeywords {
		score := 0
		for _, w := range group.words {
			if strings.Contains(p, w) {
				score++
			}
		}
		if score > bestScore {
			best = group.intent
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best
	}

	// No intent keywords. A bare transit mention ("red line?") still
	// deserves a status answer rather than a refusal.
	for _, m := range transitMarkers {
		if strings.Contains(p, m) {
			return IntentAlerts
		}
	}
	return IntentOffTopic
}
