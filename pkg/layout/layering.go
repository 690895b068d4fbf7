package layout

import (
	"slices"

	"github.com/matzehuels/termdiag/pkg/graph"
)

// layering is the outcome of rank assignment.
type layering struct {
	layer  map[string]int
	cycles []string // sorted; empty when the graph is acyclic
}

// assignLayers ranks nodes by longest path from a source using Kahn's
// algorithm: layer[v] = max(layer[u] + 1) over processed predecessors u.
//
// Sources enter the queue in ID order and each node's successors are visited
// in ID order with duplicates collapsed. Self loops do not constrain ranking,
// but a node with one is reported as part of a cycle.
//
// When the queue drains with nodes left over, every remaining node is stuck
// behind a cycle. The stuck nodes with an edge to another stuck node are
// recorded, then the stuck node appearing earliest as an edge source (ties
// by ID) has its in-degree forced to zero and Kahn's algorithm resumes.
// Disjoint cycles are broken one at a time by this same rule.
func assignLayers(g *graph.Graph) layering {
	ids := g.SortedNodeIDs()
	succ := make(map[string][]string, len(ids))
	inDegree := make(map[string]int, len(ids))
	firstFrom := make(map[string]int, len(ids))
	seen := make(map[[2]string]bool, len(g.Edges))
	cycle := make(map[string]bool)

	for i, e := range g.Edges {
		if _, ok := firstFrom[e.From]; !ok {
			firstFrom[e.From] = i
		}
		if g.Nodes[e.From] == nil || g.Nodes[e.To] == nil {
			continue
		}
		if e.From == e.To {
			cycle[e.From] = true
			continue
		}
		if seen[[2]string{e.From, e.To}] {
			continue
		}
		seen[[2]string{e.From, e.To}] = true
		succ[e.From] = append(succ[e.From], e.To)
		inDegree[e.To]++
	}
	for _, s := range succ {
		slices.Sort(s)
	}

	layer := make(map[string]int, len(ids))
	processed := make(map[string]bool, len(ids))
	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		layer[id] = 0
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for {
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			if processed[u] {
				continue
			}
			processed[u] = true

			for _, v := range succ[u] {
				if processed[v] {
					continue
				}
				layer[v] = max(layer[v], layer[u]+1)
				inDegree[v]--
				if inDegree[v] == 0 {
					queue = append(queue, v)
				}
			}
		}

		if len(processed) == len(ids) {
			break
		}

		var stuck []string
		for _, id := range ids {
			if !processed[id] {
				stuck = append(stuck, id)
			}
		}
		for _, n := range stuck {
			for _, v := range succ[n] {
				if !processed[v] {
					cycle[n] = true
					break
				}
			}
		}

		forced := slices.MinFunc(stuck, func(a, b string) int {
			fa, fb := sourceRank(firstFrom, a), sourceRank(firstFrom, b)
			if fa != fb {
				return fa - fb
			}
			if a < b {
				return -1
			}
			if a > b {
				return 1
			}
			return 0
		})
		inDegree[forced] = 0
		queue = append(queue, forced)
	}

	out := layering{layer: layer}
	for id := range cycle {
		out.cycles = append(out.cycles, id)
	}
	slices.Sort(out.cycles)
	return out
}

func sourceRank(firstFrom map[string]int, id string) int {
	if i, ok := firstFrom[id]; ok {
		return i
	}
	return int(^uint(0) >> 1)
}
