// Package render draws laid-out diagrams as Unicode or ASCII text.
//
// # Overview
//
// [Render] turns a [graph.Graph] whose coordinates were assigned by the
// layout package into a string plus warnings. [Flowchart] runs layout and
// rendering in one call:
//
//	out, warnings := render.Flowchart(g, graph.DefaultRenderOptions())
//
// Sequence diagrams and pie charts live in the [sequence] and [pie]
// subpackages.
//
// # Drawing
//
// Everything is drawn into a [canvas.Grid] using a [Charset]. [Unicode]
// uses box-drawing glyphs; [ASCII] degrades to 7-bit characters.
//
//  1. Subgraph frames (double lines, label in the top border)
//  2. Nodes in ID order, one drawing routine per [graph.Shape]
//  3. Edges in input order
//
// Node boxes and subgraph borders are protected once drawn, so edges can
// never overwrite them.
//
// # Edge routing
//
// Edges leave and enter at the midpoints of the facing node sides. Anchors
// sharing a row or column are joined by a straight run. Otherwise A* in the
// pathfind package searches around node boxes and subgraph borders, and a
// fixed L/Z route through the midpoint is used when no path exists.
//
// # Labels
//
// An edge label is centred on the longest straight run that can hold it.
// When no run is long enough a marker such as "[1]" is drawn instead, the
// label is listed under a trailing "Labels:" legend, and a
// [graph.LabelDropped] warning is returned.
//
// [sequence]: https://pkg.go.dev/github.com/matzehuels/termdiag/pkg/render/sequence
// [pie]: https://pkg.go.dev/github.com/matzehuels/termdiag/pkg/render/pie
package render
