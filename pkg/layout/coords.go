package layout

import (
	"slices"

	"github.com/matzehuels/termdiag/pkg/graph"
)

// groupLayers buckets nodes by layer. Index i holds the IDs of layer i in
// lexicographic order; layers with no members are empty slices.
func groupLayers(g *graph.Graph, layer map[string]int) [][]*graph.Node {
	maxLayer := -1
	for _, l := range layer {
		maxLayer = max(maxLayer, l)
	}
	out := make([][]*graph.Node, maxLayer+1)
	for _, id := range g.SortedNodeIDs() {
		l := layer[id]
		out[l] = append(out[l], g.Nodes[id])
	}
	return out
}

// gaps returns the horizontal and vertical gap. Horizontal diagrams that
// would overflow MaxWidth get a narrower layer gap, never below minGap.
func gaps(g *graph.Graph, layers [][]*graph.Node, opts graph.RenderOptions) (int, int) {
	hGap, vGap := max(opts.PaddingX, 0), max(opts.PaddingY, 0)
	if opts.MaxWidth <= 0 || !g.Direction.Horizontal() || len(layers) < 2 {
		return hGap, vGap
	}

	nodeWidth := 0
	for _, members := range layers {
		w := 0
		for _, n := range members {
			w = max(w, n.Width)
		}
		nodeWidth += w
	}
	between := len(layers) - 1
	if nodeWidth+between*hGap <= opts.MaxWidth {
		return hGap, vGap
	}
	return max((max(opts.MaxWidth-nodeWidth, 0))/between, minGap), vGap
}

// placeLayers turns layers into columns (horizontal) or rows (vertical).
// Each layer is centered against the largest one along the cross axis.
func placeLayers(g *graph.Graph, layers [][]*graph.Node, hGap, vGap int) {
	horizontal := g.Direction.Horizontal()

	// main is the layer's extent along the flow axis, cross its stacked size.
	mains := make([]int, len(layers))
	crosses := make([]int, len(layers))
	maxCross := 0
	for i, members := range layers {
		for j, n := range members {
			size, gap := n.Width, hGap
			if horizontal {
				size, gap = n.Height, vGap
				mains[i] = max(mains[i], n.Width)
			} else {
				mains[i] = max(mains[i], n.Height)
			}
			crosses[i] += size
			if j > 0 {
				crosses[i] += gap
			}
		}
		maxCross = max(maxCross, crosses[i])
	}

	order := make([]int, len(layers))
	for i := range order {
		order[i] = i
	}
	if g.Direction.Reversed() {
		slices.Reverse(order)
	}

	pos := 0
	for _, l := range order {
		offset := (maxCross - crosses[l]) / 2
		for _, n := range layers[l] {
			if horizontal {
				n.X, n.Y = pos, offset
				offset += n.Height + vGap
			} else {
				n.X, n.Y = offset, pos
				offset += n.Width + hGap
			}
		}
		if horizontal {
			pos += mains[l] + hGap
		} else {
			pos += mains[l] + vGap
		}
	}
}
