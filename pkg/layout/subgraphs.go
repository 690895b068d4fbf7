package layout

import (
	"math"

	"github.com/matzehuels/termdiag/pkg/graph"
)

// containmentOrder returns subgraph indexes children first. Subgraphs whose
// parent is missing, or whose parent chain loops, are treated as roots.
func containmentOrder(subgraphs []*graph.Subgraph) (order []int, children [][]int) {
	index := make(map[string]int, len(subgraphs))
	for i, s := range subgraphs {
		if _, dup := index[s.ID]; !dup {
			index[s.ID] = i
		}
	}
	children = make([][]int, len(subgraphs))
	hasParent := make([]bool, len(subgraphs))
	for i, s := range subgraphs {
		if p, ok := index[s.Parent]; ok && s.Parent != "" && p != i {
			children[p] = append(children[p], i)
			hasParent[i] = true
		}
	}

	visited := make([]bool, len(subgraphs))
	var visit func(int)
	visit = func(i int) {
		visited[i] = true
		for _, c := range children[i] {
			if !visited[c] {
				visit(c)
			}
		}
		order = append(order, i)
	}
	for i := range subgraphs {
		if !hasParent[i] && !visited[i] {
			visit(i)
		}
	}
	// Whatever is left sits on a parent cycle.
	for i := range subgraphs {
		if !visited[i] {
			visit(i)
		}
	}
	return order, children
}

// computeSubgraphBounds sizes every subgraph frame in one bottom-up pass.
// A frame is the union of its member nodes and already computed child
// frames, padded by subgraphPadding on every side plus one label row on top.
// Subgraphs without members keep a zero box. If any frame would start left
// of or above the origin, the whole diagram is shifted to fit.
func computeSubgraphBounds(g *graph.Graph) {
	if len(g.Subgraphs) == 0 {
		return
	}
	members := make(map[string][]*graph.Node, len(g.Subgraphs))
	for _, s := range g.Subgraphs {
		for _, id := range s.Nodes {
			if n := g.Nodes[id]; n != nil {
				members[s.ID] = append(members[s.ID], n)
			}
		}
	}
	for _, id := range g.SortedNodeIDs() {
		n := g.Nodes[id]
		if n.Subgraph == "" {
			continue
		}
		if s := g.Subgraph(n.Subgraph); s != nil && !containsID(s.Nodes, id) {
			members[s.ID] = append(members[s.ID], n)
		}
	}

	order, children := containmentOrder(g.Subgraphs)
	done := make([]bool, len(g.Subgraphs))
	for _, i := range order {
		s := g.Subgraphs[i]
		minX, minY := math.MaxInt, math.MaxInt
		maxX, maxY := math.MinInt, math.MinInt
		grow := func(r graph.Rect) {
			minX, minY = min(minX, r.X), min(minY, r.Y)
			maxX, maxY = max(maxX, r.Right()), max(maxY, r.Bottom())
		}
		for _, n := range members[s.ID] {
			grow(n.Rect())
		}
		for _, c := range children[i] {
			if r := g.Subgraphs[c].Rect(); done[c] && !r.Empty() {
				grow(r)
			}
		}
		done[i] = true
		if minX == math.MaxInt {
			s.X, s.Y, s.Width, s.Height = 0, 0, 0, 0
			continue
		}
		s.X = minX - subgraphPadding
		s.Y = minY - subgraphPadding - 1
		s.Width = maxX - minX + 2*subgraphPadding
		s.Height = maxY - minY + 2*subgraphPadding + 1
	}

	shiftX, shiftY := 0, 0
	for _, s := range g.Subgraphs {
		if s.Rect().Empty() {
			continue
		}
		shiftX, shiftY = max(shiftX, -s.X), max(shiftY, -s.Y)
	}
	if shiftX == 0 && shiftY == 0 {
		return
	}
	for _, n := range g.Nodes {
		n.X += shiftX
		n.Y += shiftY
	}
	for _, s := range g.Subgraphs {
		if !s.Rect().Empty() {
			s.X += shiftX
			s.Y += shiftY
		}
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
