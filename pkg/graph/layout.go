package graph

// Rect is an axis-aligned cell rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Rect returns the laid-out bounding box of the node.
func (n *Node) Rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// CenterX returns the middle column of the node.
func (n *Node) CenterX() int { return n.X + n.Width/2 }

// CenterY returns the middle row of the node.
func (n *Node) CenterY() int { return n.Y + n.Height/2 }

// Rect returns the laid-out frame of the subgraph.
func (s *Subgraph) Rect() Rect {
	return Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Extent returns the smallest grid size covering every laid-out node and
// subgraph.
func (g *Graph) Extent() (width, height int) {
	grow := func(r Rect) {
		if r.Empty() {
			return
		}
		width = max(width, r.Right())
		height = max(height, r.Bottom())
	}
	for _, n := range g.Nodes {
		grow(n.Rect())
	}
	for _, s := range g.Subgraphs {
		grow(s.Rect())
	}
	return width, height
}
