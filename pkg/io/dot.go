package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
)

var rankdir = map[graph.Direction]string{
	graph.LeftRight: "LR",
	graph.RightLeft: "RL",
	graph.TopBottom: "TB",
	graph.BottomTop: "BT",
}

// dotShape maps a node shape to a Graphviz shape plus extra styles.
func dotShape(s graph.Shape) (string, []string) {
	switch s {
	case graph.Rectangle, graph.Table:
		return "box", nil
	case graph.Rounded, graph.Stadium:
		return "box", []string{"rounded"}
	case graph.Circle:
		return "circle", nil
	case graph.Diamond:
		return "diamond", nil
	case graph.Cylinder:
		return "cylinder", nil
	case graph.Subroutine:
		return "box", []string{"diagonals"}
	case graph.Hexagon:
		return "hexagon", nil
	case graph.Parallelogram, graph.ParallelogramAlt:
		return "parallelogram", nil
	case graph.Trapezoid:
		return "trapezium", nil
	case graph.TrapezoidAlt:
		return "invtrapezium", nil
	case graph.Person:
		return "egg", nil
	case graph.Cloud:
		return "ellipse", nil
	case graph.Document:
		return "note", nil
	}
	return "box", nil
}

// ToDOT converts a flowchart to Graphviz DOT. Nodes are emitted in ID order
// and subgraphs become nested clusters, so the output is deterministic.
func ToDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir[g.Direction])
	buf.WriteString("  node [fontname=\"monospace\"];\n")
	buf.WriteString("\n")

	members := make(map[string][]string)
	for _, id := range g.SortedNodeIDs() {
		members[owner(g, id)] = append(members[owner(g, id)], id)
	}
	children := make(map[string][]*graph.Subgraph)
	for _, s := range g.Subgraphs {
		parent := s.Parent
		if g.Subgraph(parent) == nil {
			parent = ""
		}
		children[parent] = append(children[parent], s)
	}

	seen := make(map[string]bool)
	var cluster func(id, indent string)
	cluster = func(id, indent string) {
		for _, n := range members[id] {
			fmt.Fprintf(&buf, "%s%q [%s];\n", indent, n, strings.Join(nodeAttrs(g, g.Nodes[n]), ", "))
		}
		for _, s := range children[id] {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, "cluster_"+s.ID)
			label := s.Label
			if label == "" {
				label = s.ID
			}
			fmt.Fprintf(&buf, "%s  label=%q;\n", indent, label)
			cluster(s.ID, indent+"  ")
			fmt.Fprintf(&buf, "%s}\n", indent)
		}
	}
	cluster("", "  ")

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// owner returns the cluster a node is drawn in: its own subgraph if that
// exists, else the first subgraph listing it.
func owner(g *graph.Graph, id string) string {
	if sg := g.Nodes[id].Subgraph; sg != "" && g.Subgraph(sg) != nil {
		return sg
	}
	for _, s := range g.Subgraphs {
		if slices.Contains(s.Nodes, id) {
			return s.ID
		}
	}
	return ""
}

func nodeAttrs(g *graph.Graph, n *graph.Node) []string {
	label := n.Label
	if n.Shape == graph.Table && len(n.Fields) > 0 {
		lines := []string{label}
		for _, f := range n.Fields {
			lines = append(lines, f.Text())
		}
		label = strings.Join(lines, "\n")
	}
	shape, styles := dotShape(n.Shape)
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=" + shape}
	if c, ok := g.Classes[n.Class]; ok && n.Class != "" {
		if c.Fill != "" {
			styles = append(styles, "filled")
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c.Fill))
		}
		if c.Color != "" {
			attrs = append(attrs, fmt.Sprintf("fontcolor=%q", c.Color))
		}
		if c.Stroke != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", c.Stroke))
		}
	}
	if len(styles) > 0 {
		attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(styles, ",")))
	}
	return attrs
}

func edgeAttrs(e graph.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Style.Dotted() {
		attrs = append(attrs, "style=dotted")
	}
	if e.Style.Thick() {
		attrs = append(attrs, "penwidth=2")
	}
	if !e.Style.HasArrow() {
		attrs = append(attrs, "arrowhead=none")
	}
	return attrs
}

// WriteDOT writes the DOT encoding of g to w.
func WriteDOT(g *graph.Graph, w io.Writer) error {
	_, err := io.WriteString(w, ToDOT(g))
	return err
}

// Layout runs dot through Graphviz and returns the same graph annotated
// with node positions and edge splines.
func Layout(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, &terr.ParseError{Message: "parse DOT: " + err.Error(), Cause: err}
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
