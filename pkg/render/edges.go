package render

import (
	"fmt"
	"sort"

	"github.com/matzehuels/termdiag/pkg/canvas"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/pathfind"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// edgeGlyphs is the glyph set for one edge style.
type edgeGlyphs struct {
	h, v    rune
	corners [4]rune
	arrow   bool
}

func (cs *Charset) edgeGlyphs(style graph.EdgeStyle) edgeGlyphs {
	var gl edgeGlyphs
	switch style {
	case graph.Arrow, graph.Line:
		gl = edgeGlyphs{h: cs.H, v: cs.V, corners: [4]rune{cs.TL, cs.TR, cs.BL, cs.BR}}
	case graph.DottedArrow, graph.DottedLine:
		gl = edgeGlyphs{h: cs.Dot, v: cs.DotV, corners: [4]rune{cs.Dot, cs.Dot, cs.Dot, cs.Dot}}
	case graph.ThickArrow, graph.ThickLine:
		gl = edgeGlyphs{h: cs.DH, v: cs.DV, corners: [4]rune{cs.DTL, cs.DTR, cs.DBL, cs.DBR}}
	default:
		gl = edgeGlyphs{h: cs.H, v: cs.V, corners: [4]rune{cs.TL, cs.TR, cs.BL, cs.BR}}
	}
	gl.arrow = style.HasArrow()
	return gl
}

// edgeRenderer draws edges onto a canvas whose nodes and subgraphs are
// already in place, collecting labels that did not fit.
type edgeRenderer struct {
	c       *canvas.Grid
	paths   *pathfind.Grid
	cs      *Charset
	dir     graph.Direction
	dropped []graph.LabelDropped
}

// anchors returns the exterior cells next to the midpoints of the facing
// node sides. Edges leave from start and the arrowhead lands on end.
func anchors(d graph.Direction, from, to *graph.Node) (start, end pathfind.Point) {
	switch d {
	case graph.RightLeft:
		return pathfind.Point{X: from.X - 1, Y: from.CenterY()},
			pathfind.Point{X: to.X + to.Width, Y: to.CenterY()}
	case graph.TopBottom:
		return pathfind.Point{X: from.CenterX(), Y: from.Y + from.Height},
			pathfind.Point{X: to.CenterX(), Y: to.Y - 1}
	case graph.BottomTop:
		return pathfind.Point{X: from.CenterX(), Y: from.Y - 1},
			pathfind.Point{X: to.CenterX(), Y: to.Y + to.Height}
	default:
		return pathfind.Point{X: from.X + from.Width, Y: from.CenterY()},
			pathfind.Point{X: to.X - 1, Y: to.CenterY()}
	}
}

// behind reports whether to lies entirely before from on the flow axis, so
// an edge between them runs against the flow.
func behind(d graph.Direction, from, to *graph.Node) bool {
	switch d {
	case graph.RightLeft:
		return to.X >= from.X+from.Width
	case graph.TopBottom:
		return to.Y+to.Height <= from.Y
	case graph.BottomTop:
		return to.Y >= from.Y+from.Height
	default:
		return to.X+to.Width <= from.X
	}
}

func (cs *Charset) forwardArrow(d graph.Direction) rune {
	switch d {
	case graph.RightLeft:
		return cs.ArrowLeft
	case graph.TopBottom:
		return cs.ArrowDown
	case graph.BottomTop:
		return cs.ArrowUp
	default:
		return cs.ArrowRight
	}
}

// draw routes and draws one edge, then places its label.
func (er *edgeRenderer) draw(e graph.Edge, from, to *graph.Node) {
	var cells []pathfind.Point
	var head rune
	switch {
	case from == to:
		cells = loopRoute(from)
		head = er.cs.ArrowUp
	case behind(er.dir, from, to):
		cells = er.backRoute(from, to)
		head = er.cs.ArrowFor(cells[len(cells)-2], cells[len(cells)-1])
	default:
		start, end := anchors(er.dir, from, to)
		switch r := er.paths.Plan(start, end).(type) {
		case pathfind.PathFound:
			cells = r.Cells
		case pathfind.UseManualRouting:
			cells = manualRoute(start, end, er.dir.Horizontal())
		}
		head = er.cs.forwardArrow(er.dir)
		if n := len(cells); n > 1 {
			head = er.cs.ArrowFor(cells[n-2], cells[n-1])
		}
	}

	gl := er.cs.edgeGlyphs(e.Style)
	er.drawCells(cells, gl, head)
	if e.Label != "" {
		er.placeLabel(e, straightRuns(cells, gl.arrow))
	}
}

// backRoute takes an edge running against the flow around the outside of
// the diagram. Horizontal diagrams leave the bottom of from and enter the
// bottom of to; vertical ones use the right sides. The return leg runs on
// the nearest lane clear of obstacles, falling back to a searched path and
// then to the outermost lane.
func (er *edgeRenderer) backRoute(from, to *graph.Node) []pathfind.Point {
	w, h := er.paths.Size()
	var start, end pathfind.Point
	var u func(lane int) []pathfind.Point
	var first, last int
	if er.dir.Horizontal() {
		start = pathfind.Point{X: from.CenterX(), Y: from.Y + from.Height}
		end = pathfind.Point{X: to.CenterX(), Y: to.Y + to.Height}
		u = func(lane int) []pathfind.Point {
			return expand([]pathfind.Point{start, {X: start.X, Y: lane}, {X: end.X, Y: lane}, end})
		}
		first, last = max(start.Y, end.Y)+1, h-1
	} else {
		start = pathfind.Point{X: from.X + from.Width, Y: from.CenterY()}
		end = pathfind.Point{X: to.X + to.Width, Y: to.CenterY()}
		u = func(lane int) []pathfind.Point {
			return expand([]pathfind.Point{start, {X: lane, Y: start.Y}, {X: lane, Y: end.Y}, end})
		}
		first, last = max(start.X, end.X)+1, w-1
	}

	for lane := first; lane <= last; lane++ {
		if cells := u(lane); er.clear(cells) {
			return cells
		}
	}
	if cells, ok := er.paths.FindPath(start, end); ok && len(cells) > 1 {
		return cells
	}
	return u(last)
}

// clear reports whether every cell of a route is walkable.
func (er *edgeRenderer) clear(cells []pathfind.Point) bool {
	for _, p := range cells {
		if !er.paths.Walkable(p) {
			return false
		}
	}
	return true
}

// loopRoute leaves the right side of n, drops below it and comes back up
// into the middle of its bottom side.
func loopRoute(n *graph.Node) []pathfind.Point {
	right, below := n.X+n.Width, n.Y+n.Height
	return expand([]pathfind.Point{
		{X: right, Y: n.CenterY()},
		{X: right + 1, Y: n.CenterY()},
		{X: right + 1, Y: below},
		{X: n.CenterX(), Y: below},
	})
}

// manualRoute is a single straight run when the anchors share an axis and
// an L/Z route bending at the midpoint of the primary axis otherwise.
func manualRoute(start, end pathfind.Point, horizontal bool) []pathfind.Point {
	switch {
	case start.X == end.X || start.Y == end.Y:
		return expand([]pathfind.Point{start, end})
	case horizontal:
		mid := start.X + (end.X-start.X)/2
		return expand([]pathfind.Point{start, {X: mid, Y: start.Y}, {X: mid, Y: end.Y}, end})
	default:
		mid := start.Y + (end.Y-start.Y)/2
		return expand([]pathfind.Point{start, {X: start.X, Y: mid}, {X: end.X, Y: mid}, end})
	}
}

// expand turns axis-aligned waypoints into the cells between them.
func expand(bends []pathfind.Point) []pathfind.Point {
	cells := []pathfind.Point{bends[0]}
	for _, b := range bends[1:] {
		cur := cells[len(cells)-1]
		dx, dy := sign(b.X-cur.X), sign(b.Y-cur.Y)
		for cur != b {
			cur = pathfind.Point{X: cur.X + dx, Y: cur.Y + dy}
			cells = append(cells, cur)
		}
	}
	return cells
}

func isTurn(prev, curr, next pathfind.Point) bool {
	return (prev.Y == curr.Y) != (curr.Y == next.Y)
}

// horizontalAt reports the orientation of the segment through cells[i].
func horizontalAt(cells []pathfind.Point, i int, fallback bool) bool {
	switch {
	case i+1 < len(cells):
		return cells[i+1].Y == cells[i].Y
	case i > 0:
		return cells[i-1].Y == cells[i].Y
	}
	return fallback
}

func (er *edgeRenderer) drawCells(cells []pathfind.Point, gl edgeGlyphs, head rune) {
	j := er.cs.junctions()
	last := len(cells) - 1
	for i, p := range cells {
		var ok bool
		switch {
		case i == last && gl.arrow:
			ok = er.c.SetGlyph(p.X, p.Y, head)
		case i > 0 && i < last && isTurn(cells[i-1], p, cells[i+1]):
			ok = er.c.SetCorner(p.X, p.Y, pickCorner(cells[i-1], p, cells[i+1], gl.corners, er.cs.Cross), j)
		default:
			h := horizontalAt(cells, i, er.dir.Horizontal())
			r := gl.v
			if h {
				r = gl.h
			}
			ok = er.c.SetLine(p.X, p.Y, r, h, j)
		}
		if ok {
			er.c.Tag(p.X, p.Y, 1, 1, tagEdge)
		}
	}
}

// run is a straight stretch of an edge between turns, excluding corner and
// arrowhead cells. (x, y) is its top-left cell.
type run struct {
	x, y, length int
	horizontal   bool
}

// straightRuns splits a route into runs ordered longest first. Runs of
// equal length keep route order.
func straightRuns(cells []pathfind.Point, arrow bool) []run {
	var runs []run
	last := len(cells) - 1
	open := false
	for i, p := range cells {
		if (i == last && arrow) || (i > 0 && i < last && isTurn(cells[i-1], p, cells[i+1])) {
			open = false
			continue
		}
		h := horizontalAt(cells, i, true)
		if open {
			cur := &runs[len(runs)-1]
			if cur.horizontal == h {
				cur.x, cur.y = min(cur.x, p.X), min(cur.y, p.Y)
				cur.length++
				continue
			}
		}
		runs = append(runs, run{x: p.X, y: p.Y, length: 1, horizontal: h})
		open = true
	}
	sort.SliceStable(runs, func(a, b int) bool { return runs[a].length > runs[b].length })
	return runs
}

// placeLabel writes the label on the first run it fits. Otherwise it writes
// a numbered marker where that fits and records the label for the legend.
func (er *edgeRenderer) placeLabel(e graph.Edge, runs []run) {
	if er.placeText(runs, e.Label) {
		return
	}
	marker := fmt.Sprintf("[%d]", len(er.dropped)+1)
	er.placeText(runs, marker)
	er.dropped = append(er.dropped, graph.LabelDropped{
		Marker:   marker,
		EdgeFrom: e.From,
		EdgeTo:   e.To,
		Label:    e.Label,
	})
}

// placeText centres text on a horizontal run, or writes it to the right of
// the middle cell of a vertical run. Placed text is protected from later
// edges and blocks their routes.
func (er *edgeRenderer) placeText(runs []run, text string) bool {
	w := textwidth.String(text)
	for _, r := range runs {
		if w > r.length {
			continue
		}
		x, y := r.x+1, r.y+r.length/2
		if r.horizontal {
			x, y = r.x+(r.length-w)/2, r.y
		}
		if !er.writable(x, y, w) {
			continue
		}
		er.c.SetText(x, y, text)
		er.c.ProtectRect(x, y, w, 1)
		er.paths.BlockRect(x, y, w, 1)
		return true
	}
	return false
}

func (er *edgeRenderer) writable(x, y, w int) bool {
	for i := 0; i < w; i++ {
		if !er.c.Writable(x+i, y) {
			return false
		}
	}
	return true
}
