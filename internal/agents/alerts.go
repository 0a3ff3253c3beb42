// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// ROUTE EXTRACTION
// =============================================================================

// Routes recognized in prompts, checked in order so branch names
// ("green-b") win over the bare "green". Word boundaries keep "hundred"
// from matching Red.
var knownRoutes = []struct {
	pattern *regexp.Regexp
	route   string
}{
	{regexp.MustCompile(`\bgreen[- ]b\b`), "Green-B"},
	{regexp.MustCompile(`\bgreen[- ]c\b`), "Green-C"},
	{regexp.MustCompile(`\bgreen[- ]d\b`), "Green-D"},
	{regexp.MustCompile(`\bgreen[- ]e\b`), "Green-E"},
	{regexp.MustCompile(`\bred\b`), "Red"},
	{regexp.MustCompile(`\borange\b`), "Orange"},
	{regexp.MustCompile(`\bblue\b`), "Blue"},
	{regexp.MustCompile(`\bgreen\b`), "Green"},
}

// ExtractRoute finds an MBTA route mentioned in the prompt, or "" when
// none is named.
func ExtractRoute(prompt string) string {
	p := strings.ToLower(prompt)
	for _, r := range knownRoutes {
		if r.pattern.MatchString(p) {
			return r.route
		}
	}
	return ""
}

// =============================================================================
// ALERTS AGENT
// =============================================================================

// AlertsAgent answers service-status questions from live MBTA alerts.
type AlertsAgent struct {
	client *MBTAClient
}

// NewAlertsAgent wraps an MBTA client.
func NewAlertsAgent(client *MBTAClient) *AlertsAgent {
	return &AlertsAgent{client: client}
}

// Answer fetches current alerts for any route named in the prompt and
// renders a short rider-facing summary.
func (a *AlertsAgent) Answer(ctx context.Context, prompt string) (string, error) {
	route := ExtractRoute(prompt)

	alerts, err := a.client.Alerts(ctx, route)
	if err != nil {
		return "", fmt.Errorf("get alerts: %w", err)
	}

	return FormatAlerts(route, alerts), nil
}

// FormatAlerts renders up to three alerts as markdown. An empty alert
// list reads as good news.
func FormatAlerts(route string, alerts []Alert) string {
	scope := "all lines"
	if route != "" {
		scope = "the " + route + " line"
	}

	if len(alerts) == 0 {
		if route != "" {
			return fmt.Sprintf("No current alerts for %s. Service is running normally.", scope)
		}
		return "No current alerts. Service is running normally."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Current alerts for %s:**\n\n", scope)

	shown := alerts
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, alert := range shown {
		fmt.Fprintf(&sb, "- %s", alert.Header)
		if alert.Effect != "" {
			fmt.Fprintf(&sb, " _(%s", humanizeEffect(alert.Effect))
			if alert.Severity > 0 {
				fmt.Fprintf(&sb, ", severity %d", alert.Severity)
			}
			sb.WriteString(")_")
		}
		sb.WriteString("\n")
	}

	if len(alerts) > len(shown) {
		fmt.Fprintf(&sb, "\n%d more alert(s) not shown.", len(alerts)-len(shown))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// humanizeEffect lowercases an effect code like "SERVICE_CHANGE".
func humanizeEffect(effect string) string {
	return strings.ToLower(strings.ReplaceAll(effect, "_", " "))
}
