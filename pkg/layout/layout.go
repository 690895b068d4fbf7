// Package layout assigns cell coordinates to the nodes and subgraphs of a
// [graph.Graph].
//
// Compute runs four steps in order: node sizing, layering, coordinate
// assignment, and subgraph bounds. It writes X, Y, Width and Height into the
// graph in place and returns warnings instead of errors; any well-typed graph
// can be laid out.
package layout

import (
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

const (
	minNodeWidth    = 5
	nodeHeight      = 3
	cylinderHeight  = 5
	minGap          = 2
	subgraphPadding = 2
)

// Compute lays out g using the spacing in opts. Missing edge endpoints are
// created first. The only warning produced is a single
// [graph.CycleDetected] when the edges contain a directed cycle.
func Compute(g *graph.Graph, opts graph.RenderOptions) []graph.Warning {
	g.EnsureEndpoints()

	for _, id := range g.SortedNodeIDs() {
		sizeNode(g.Nodes[id], opts.BorderPadding)
	}

	l := assignLayers(g)
	layers := groupLayers(g, l.layer)
	hGap, vGap := gaps(g, layers, opts)
	placeLayers(g, layers, hGap, vGap)
	computeSubgraphBounds(g)

	var warnings []graph.Warning
	if len(l.cycles) > 0 {
		warnings = append(warnings, graph.CycleDetected{Nodes: l.cycles})
	}
	return warnings
}

// Layers returns the rank of every node without touching coordinates.
// It is exposed for callers that only need the ordering.
func Layers(g *graph.Graph) map[string]int {
	return assignLayers(g).layer
}

func sizeNode(n *graph.Node, borderPadding int) {
	lines := n.Lines()
	pad := 2 * max(borderPadding, 0)
	n.Width = max(minNodeWidth, textwidth.Max(lines)+pad)
	n.Height = max(nodeHeight, len(lines)+2)

	switch n.Shape {
	case graph.Cylinder:
		n.Height = max(cylinderHeight, len(lines)+4)
	case graph.Person:
		n.Height = nodeHeight + len(lines)
	case graph.Table:
		if len(n.Fields) > 0 {
			for _, f := range n.Fields {
				n.Width = max(n.Width, textwidth.String(f.Text())+2+pad)
			}
			n.Height = nodeHeight + len(n.Fields)
		}
	}
}
