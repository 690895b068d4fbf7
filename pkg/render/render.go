package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/termdiag/pkg/canvas"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/layout"
	"github.com/matzehuels/termdiag/pkg/pathfind"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// legendTitle heads the block listing labels that did not fit inline.
const legendTitle = "Labels:"

// maxCanvasCells bounds the drawing grid. Larger diagrams are clipped.
const maxCanvasCells = 1 << 20

// Flowchart lays out g and renders it. Layout warnings come before render
// warnings.
func Flowchart(g *graph.Graph, opts graph.RenderOptions) (string, []graph.Warning) {
	warnings := layout.Compute(g, opts)
	out, more := Render(g, opts)
	return out, append(warnings, more...)
}

// Render draws a laid-out graph. It reads g without modifying it.
//
// Drawing order is fixed: subgraph frames, nodes in ID order, then edges in
// input order. Node boxes and subgraph borders are protected before any
// edge is drawn. Labels that cannot be placed inline are replaced by a
// numbered marker, listed in a trailing legend and reported as
// [graph.LabelDropped] warnings.
func Render(g *graph.Graph, opts graph.RenderOptions) (string, []graph.Warning) {
	cs := CharsetFor(opts.ASCII)
	w, h := g.Extent()
	w, h = w+2+backLabelMargin(g), h+2

	var warnings []graph.Warning
	if w*h > maxCanvasCells {
		w = min(w, maxCanvasCells)
		h = maxCanvasCells / w
		warnings = append(warnings, graph.UnsupportedFeature{
			Feature: fmt.Sprintf("diagram exceeds %d cells, output clipped to %dx%d", maxCanvasCells, w, h),
		})
	}
	c := canvas.New(w, h)

	for _, s := range g.Subgraphs {
		drawSubgraph(c, s, cs)
		if r := s.Rect(); !r.Empty() {
			tagFrame(c, r)
		}
	}

	for _, id := range g.SortedNodeIDs() {
		n := g.Nodes[id]
		drawNode(c, n, cs)
		if _, ok := g.Classes[n.Class]; ok && n.Class != "" {
			c.Tag(n.X, n.Y, n.Width, n.Height, classTag(n.Class))
		}
	}

	er := &edgeRenderer{
		c:     c,
		paths: obstacles(g, w, h),
		cs:    cs,
		dir:   g.Direction,
	}
	for _, e := range g.Edges {
		from, to := g.Node(e.From), g.Node(e.To)
		if from == nil || to == nil {
			continue
		}
		er.draw(e, from, to)
	}

	lineOpts := canvas.LineOptions{MaxWidth: opts.MaxWidth, Tail: cs.Ellipsis}
	if opts.Colors {
		lineOpts.Style = newStyler(g.Classes).style
	}
	lines := c.Lines(lineOpts)

	// Grid rows are already truncated; legend rows get the same limit.
	if len(er.dropped) > 0 {
		legend := []string{legendTitle}
		for _, d := range er.dropped {
			legend = append(legend, "  "+d.Marker+" "+d.Label)
			warnings = append(warnings, d)
		}
		for _, l := range legend {
			if opts.MaxWidth > 0 {
				l = textwidth.Truncate(l, opts.MaxWidth, cs.Ellipsis)
			}
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n"), warnings
}

// backLabelMargin is the extra width vertical diagrams need so labels on
// edges routed back around the right side can sit beside their lane.
func backLabelMargin(g *graph.Graph) int {
	if g.Direction.Horizontal() {
		return 0
	}
	margin := 0
	for _, e := range g.Edges {
		from, to := g.Node(e.From), g.Node(e.To)
		if from == nil || to == nil || from == to || !behind(g.Direction, from, to) {
			continue
		}
		margin = max(margin, textwidth.String(e.Label))
	}
	return margin
}

// obstacles blocks every node box and every subgraph border.
func obstacles(g *graph.Graph, w, h int) *pathfind.Grid {
	p := pathfind.New(w, h)
	for _, n := range g.Nodes {
		p.BlockRect(n.X, n.Y, n.Width, n.Height)
	}
	for _, s := range g.Subgraphs {
		p.BlockFrame(s.X, s.Y, s.Width, s.Height)
	}
	return p
}

func tagFrame(c *canvas.Grid, r graph.Rect) {
	c.Tag(r.X, r.Y, r.Width, 1, tagFrameName)
	c.Tag(r.X, r.Bottom()-1, r.Width, 1, tagFrameName)
	c.Tag(r.X, r.Y, 1, r.Height, tagFrameName)
	c.Tag(r.Right()-1, r.Y, 1, r.Height, tagFrameName)
}
