// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph holds the static agent-graph configuration and the
// animation sequencer that drives the highlight sweep across it.
package graph

import (
	"fmt"
)

// =============================================================================
// GRAPH CONFIGURATION
// =============================================================================

// NodeType classifies a node for rendering.
type NodeType string

const (
	NodeTypeUser  NodeType = "user"
	NodeTypeAgent NodeType = "agent"
)

// Position is a logical layout coordinate. The renderer scales it by the
// current viewport fit before drawing.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the agent diagram.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Label    string   `json:"label"`
	Sublabel string   `json:"sublabel,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// Edge connects two nodes of the agent diagram.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Step is one entry of the animation sequence: the set of node and edge ids
// highlighted together for one pulse.
type Step struct {
	IDs []string `json:"ids"`
}

// Config is the static graph definition: nodes, edges and the ordered
// highlight sequence. It is immutable once built.
type Config struct {
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
	Sequence []Step `json:"sequence"`
}

// Validate checks the structural invariants of the configuration: node and
// edge ids are unique, edges reference existing nodes, and every id named
// by the animation sequence exists in the graph.
func (c *Config) Validate() error {
	ids := make(map[string]bool, len(c.Nodes)+len(c.Edges))

	for _, n := range c.Nodes {
		if n.ID == "" {
			return fmt.Errorf("graph: node with empty id")
		}
		if ids[n.ID] {
			return fmt.Errorf("graph: duplicate id %q", n.ID)
		}
		ids[n.ID] = true
	}

	nodeIDs := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		nodeIDs[n.ID] = true
	}

	for _, e := range c.Edges {
		if e.ID == "" {
			return fmt.Errorf("graph: edge with empty id")
		}
		if ids[e.ID] {
			return fmt.Errorf("graph: duplicate id %q", e.ID)
		}
		ids[e.ID] = true
		if !nodeIDs[e.Source] {
			return fmt.Errorf("graph: edge %q references unknown source %q", e.ID, e.Source)
		}
		if !nodeIDs[e.Target] {
			return fmt.Errorf("graph: edge %q references unknown target %q", e.ID, e.Target)
		}
	}

	for i, step := range c.Sequence {
		for _, id := range step.IDs {
			if !ids[id] {
				return fmt.Errorf("graph: sequence step %d references unknown id %q", i, id)
			}
		}
	}

	return nil
}

// NodeByID returns the node with the given id, or nil.
func (c *Config) NodeByID(id string) *Node {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Well-known ids of the default transit assistant graph.
const (
	NodeUser       = "user"
	NodeSupervisor = "supervisor"
	NodeAlerts     = "alerts-agent"

	EdgePrompt   = "user-supervisor"
	EdgeRoute    = "supervisor-alerts"
	EdgeResponse = "alerts-supervisor"
)

// DefaultConfig returns the transit assistant graph: the user hands a prompt
// to the supervisor, which routes transit-status questions to the alerts
// agent and relays the answer back.
func DefaultConfig() *Config {
	return &Config{
		Nodes: []Node{
			{ID: NodeUser, Type: NodeTypeUser, Position: Position{X: 0, Y: 1}, Label: "You", Icon: "@"},
			{ID: NodeSupervisor, Type: NodeTypeAgent, Position: Position{X: 1, Y: 0}, Label: "Supervisor", Sublabel: "routes queries", Icon: "#"},
			{ID: NodeAlerts, Type: NodeTypeAgent, Position: Position{X: 2, Y: 1}, Label: "Alerts Agent", Sublabel: "MBTA v3 alerts", Icon: "!"},
		},
		Edges: []Edge{
			{ID: EdgePrompt, Source: NodeUser, Target: NodeSupervisor, Label: "prompt"},
			{ID: EdgeRoute, Source: NodeSupervisor, Target: NodeAlerts, Label: "route"},
			{ID: EdgeResponse, Source: NodeAlerts, Target: NodeSupervisor, Label: "alerts"},
		},
		Sequence: []Step{
			{IDs: []string{NodeUser, EdgePrompt}},
			{IDs: []string{NodeSupervisor}},
			{IDs: []string{EdgeRoute, NodeAlerts}},
			{IDs: []string{EdgeResponse, NodeSupervisor}},
		},
	}
}
