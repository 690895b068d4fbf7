// Package pathfind routes edges around obstacles on an integer cell grid.
//
// A [Grid] is a blocked-cell map sized to the render canvas. [Grid.FindPath]
// runs A* with 4-directional moves and a Manhattan heuristic. Open-set ties
// are broken by insertion order, so identical grids always yield identical
// paths.
package pathfind

import "container/heap"

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Grid is an obstacle map. The zero value is an empty 0×0 grid.
type Grid struct {
	width, height int
	blocked       []bool
}

// New returns a width×height grid with no obstacles.
func New(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	return &Grid{width: width, height: height, blocked: make([]bool, width*height)}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) { return g.width, g.height }

func (g *Grid) inBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Block marks a single cell as an obstacle. Out-of-range cells are ignored.
func (g *Grid) Block(p Point) {
	if g.inBounds(p) {
		g.blocked[p.Y*g.width+p.X] = true
	}
}

// BlockRect marks every cell of the w×h rectangle at (x, y) as an obstacle.
func (g *Grid) BlockRect(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.Block(Point{x + dx, y + dy})
		}
	}
}

// BlockFrame marks the four border lines of the w×h rectangle at (x, y).
func (g *Grid) BlockFrame(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	g.BlockRect(x, y, w, 1)
	g.BlockRect(x, y+h-1, w, 1)
	g.BlockRect(x, y, 1, h)
	g.BlockRect(x+w-1, y, 1, h)
}

// Unblock clears the obstacle at p.
func (g *Grid) Unblock(p Point) {
	if g.inBounds(p) {
		g.blocked[p.Y*g.width+p.X] = false
	}
}

// Walkable reports whether p is inside the grid and not blocked.
func (g *Grid) Walkable(p Point) bool {
	return g.inBounds(p) && !g.blocked[p.Y*g.width+p.X]
}

// Neighbor order is part of the determinism contract: right, left, down, up.
var moves = [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// FindPath returns a shortest 4-connected path from start to goal,
// including both endpoints. It reports false when either endpoint is not
// walkable or the goal cannot be reached.
func (g *Grid) FindPath(start, goal Point) ([]Point, bool) {
	if !g.Walkable(start) || !g.Walkable(goal) {
		return nil, false
	}
	if start == goal {
		return []Point{start}, true
	}

	idx := func(p Point) int { return p.Y*g.width + p.X }
	n := g.width * g.height
	gScore := make([]int, n)
	for i := range gScore {
		gScore[i] = -1
	}
	parent := make([]int, n)
	closed := make([]bool, n)

	pq := &openSet{}
	heap.Init(pq)
	gScore[idx(start)] = 0
	heap.Push(pq, &openItem{pos: start, f: manhattan(start, goal)})
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*openItem)
		ci := idx(cur.pos)
		if closed[ci] {
			continue
		}
		if cur.pos == goal {
			return g.reconstruct(parent, start, goal), true
		}
		closed[ci] = true

		for _, m := range moves {
			next := Point{cur.pos.X + m.X, cur.pos.Y + m.Y}
			if !g.Walkable(next) {
				continue
			}
			ni := idx(next)
			if closed[ni] {
				continue
			}
			tentative := gScore[ci] + 1
			if gScore[ni] >= 0 && tentative >= gScore[ni] {
				continue
			}
			gScore[ni] = tentative
			parent[ni] = ci
			heap.Push(pq, &openItem{pos: next, f: tentative + manhattan(next, goal), seq: seq})
			seq++
		}
	}
	return nil, false
}

func (g *Grid) reconstruct(parent []int, start, goal Point) []Point {
	path := []Point{goal}
	si := start.Y*g.width + start.X
	for i := goal.Y*g.width + goal.X; i != si; {
		i = parent[i]
		path = append(path, Point{i % g.width, i / g.width})
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// openItem is an A* frontier entry. Stale entries are skipped on pop
// rather than decreased in place.
type openItem struct {
	pos Point
	f   int
	seq int
}

// openSet implements heap.Interface ordered by f, then insertion order.
type openSet []*openItem

func (pq openSet) Len() int { return len(pq) }
func (pq openSet) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}
func (pq openSet) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *openSet) Push(x interface{}) {
	*pq = append(*pq, x.(*openItem))
}
func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}
