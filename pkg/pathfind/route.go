package pathfind

// Route is the outcome of a routing attempt. It is either [PathFound] or
// [UseManualRouting].
type Route interface {
	route()
}

// PathFound carries the cells of a successful search, endpoints included.
type PathFound struct {
	Cells []Point
}

// UseManualRouting tells the caller to fall back to a fixed L/Z route.
type UseManualRouting struct{}

func (PathFound) route()        {}
func (UseManualRouting) route() {}

// Plan decides how an edge from start to goal should be drawn. Anchors that
// share a row or column never need a search and go straight to manual
// routing, which draws them as a single run.
func (g *Grid) Plan(start, goal Point) Route {
	if start.X == goal.X || start.Y == goal.Y {
		return UseManualRouting{}
	}
	if cells, ok := g.FindPath(start, goal); ok {
		return PathFound{Cells: cells}
	}
	return UseManualRouting{}
}
