// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/transit-tui/internal/graph"
	"github.com/jeranaias/transit-tui/internal/ui/styles"
)

// =============================================================================
// GRAPH VIEW
// =============================================================================

// detailLevel is how much annotation the diagram carries, derived from the
// fit padding tier: a cramped canvas drops labels before it drops nodes.
type detailLevel int

const (
	detailCompact detailLevel = iota // node labels only
	detailEdges                      // + edge labels
	detailFull                       // + node sublabels
)

// GraphView renders the agent diagram as text. The fit parameters produced
// after each settled resize choose the detail level and the edge length;
// zoom changes ease in over the fit transition window rather than snapping.
type GraphView struct {
	cfg   *graph.Config
	theme *styles.Theme

	fit      graph.FitParams
	prevZoom float64
	fitAt    time.Time
}

// NewGraphView creates a renderer for the given graph configuration.
func NewGraphView(cfg *graph.Config, theme *styles.Theme) *GraphView {
	g := &GraphView{cfg: cfg, theme: theme}
	g.fit = graph.ComputeFit(600, 1000, 0, false)
	g.prevZoom = g.targetZoom()
	return g
}

// SetTheme swaps the color theme.
func (g *GraphView) SetTheme(theme *styles.Theme) {
	g.theme = theme
}

// SetFit applies recomputed fit parameters after a panel resize. The
// current blended zoom is captured first so the transition continues from
// wherever the previous one left off.
func (g *GraphView) SetFit(fit graph.FitParams) {
	g.prevZoom = g.zoomAt(time.Now())
	g.fit = fit
	g.fitAt = time.Now()
}

// targetZoom clamps the neutral zoom into the fit's bounds.
func (g *GraphView) targetZoom() float64 {
	z := 1.0
	if z < g.fit.MinZoom {
		z = g.fit.MinZoom
	}
	if z > g.fit.MaxZoom {
		z = g.fit.MaxZoom
	}
	return z
}

// zoomAt interpolates from the pre-fit zoom to the target over the fit
// transition window.
func (g *GraphView) zoomAt(now time.Time) float64 {
	target := g.targetZoom()
	if g.fitAt.IsZero() {
		return target
	}
	p := float64(now.Sub(g.fitAt)) / float64(graph.FitTransition)
	if p >= 1 {
		return target
	}
	if p < 0 {
		p = 0
	}
	return g.prevZoom + (target-g.prevZoom)*p
}

// detail maps the fit padding tier to an annotation level.
func (g *GraphView) detail() detailLevel {
	switch {
	case g.fit.Padding >= 0.35:
		return detailFull
	case g.fit.Padding >= 0.25:
		return detailEdges
	default:
		return detailCompact
	}
}

// edgeDashes is the connector length at the current zoom.
func (g *GraphView) edgeDashes(now time.Time) int {
	n := int(g.zoomAt(now)*3 + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the diagram with the given ids highlighted.
func (g *GraphView) View(active map[string]bool) string {
	return g.viewAt(active, time.Now())
}

// viewAt renders at an explicit instant so the transition is testable.
func (g *GraphView) viewAt(active map[string]bool, now time.Time) string {
	nodes := append([]graph.Node(nil), g.cfg.Nodes...)
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Position.X < nodes[j].Position.X
	})

	detail := g.detail()
	dashes := g.edgeDashes(now)

	// Node boxes in left-to-right flow order.
	cells := make([]string, 0, len(nodes)*2)
	for i, n := range nodes {
		if i > 0 {
			cells = append(cells, g.renderEdge(g.forwardEdge(nodes[i-1].ID, n.ID), active, detail, dashes))
		}
		cells = append(cells, g.renderNode(n, active[n.ID], detail))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, cells...)

	lines := []string{
		g.theme.GraphTitle.Render("Agent flow"),
		"",
		row,
	}

	// Backward edges render as a return line under the flow.
	for _, e := range g.cfg.Edges {
		if g.edgeDirection(e) >= 0 {
			continue
		}
		ret := "<" + strings.Repeat("-", 4*dashes)
		if detail >= detailEdges && e.Label != "" {
			ret = "<" + strings.Repeat("-", 2*dashes) + " " + e.Label + " " + strings.Repeat("-", 2*dashes)
		}
		style := g.theme.GraphEdgeLine
		if active[e.ID] {
			style = g.theme.GraphEdgeActive
		}
		lines = append(lines, lipgloss.PlaceHorizontal(lipgloss.Width(row), lipgloss.Center, style.Render(ret)))
	}

	return g.theme.GraphPanel.Render(strings.Join(lines, "\n"))
}

// renderNode draws one node box.
func (g *GraphView) renderNode(n graph.Node, active bool, detail detailLevel) string {
	title := n.Label
	if n.Icon != "" {
		title = "[" + n.Icon + "] " + n.Label
	}
	content := title
	if detail == detailFull && n.Sublabel != "" {
		content = title + "\n" + g.theme.GraphSublabel.Render(n.Sublabel)
	}
	if active {
		return g.theme.GraphNodeActive.Render(content)
	}
	return g.theme.GraphNodeBox.Render(content)
}

// renderEdge draws the connector between two adjacent nodes.
func (g *GraphView) renderEdge(e *graph.Edge, active map[string]bool, detail detailLevel, dashes int) string {
	label := ""
	isActive := false
	if e != nil {
		isActive = active[e.ID]
		if detail >= detailEdges {
			label = e.Label
		}
	}

	dash := strings.Repeat("-", dashes)
	var arrow string
	if label != "" {
		arrow = " " + dash + label + dash + "> "
	} else {
		arrow = " " + dash + dash + "> "
	}
	if isActive {
		return g.theme.GraphEdgeActive.Render(arrow)
	}
	return g.theme.GraphEdgeLine.Render(arrow)
}

// forwardEdge finds the left-to-right edge between two nodes, or nil.
func (g *GraphView) forwardEdge(source, target string) *graph.Edge {
	for i := range g.cfg.Edges {
		e := &g.cfg.Edges[i]
		if e.Source == source && e.Target == target {
			return e
		}
	}
	return nil
}

// edgeDirection reports the horizontal direction of an edge: positive for
// left-to-right, negative for a return edge, zero for vertical.
func (g *GraphView) edgeDirection(e graph.Edge) float64 {
	src := g.cfg.NodeByID(e.Source)
	dst := g.cfg.NodeByID(e.Target)
	if src == nil || dst == nil {
		return 0
	}
	return dst.Position.X - src.Position.X
}
