package render

import (
	"github.com/matzehuels/termdiag/pkg/canvas"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// drawNode draws n with the glyph pattern of its shape and then protects
// its whole bounding box.
func drawNode(c *canvas.Grid, n *graph.Node, cs *Charset) {
	r := n.Rect()
	if r.Empty() {
		return
	}
	box := [4]rune{cs.TL, cs.TR, cs.BL, cs.BR}
	round := [4]rune{cs.RTL, cs.RTR, cs.RBL, cs.RBR}

	labelled := true
	switch n.Shape {
	case graph.Rectangle:
		outline(c, r, box, cs.H, cs.V, cs.V)
	case graph.Rounded:
		outline(c, r, round, cs.H, cs.V, cs.V)
	case graph.Circle:
		drawCircle(c, r, cs)
	case graph.Diamond:
		drawDiamond(c, r, cs)
	case graph.Cylinder:
		drawCylinder(c, r, cs)
	case graph.Stadium:
		outline(c, r, [4]rune{'(', ')', '(', ')'}, cs.H, '(', ')')
	case graph.Subroutine:
		drawSubroutine(c, r, cs)
	case graph.Hexagon:
		outline(c, r, [4]rune{'/', '\\', '\\', '/'}, cs.H, '<', '>')
	case graph.Parallelogram:
		outline(c, r, [4]rune{cs.TL, '/', '\\', cs.BR}, cs.H, '/', '/')
	case graph.ParallelogramAlt:
		outline(c, r, [4]rune{'\\', cs.TR, cs.BL, '/'}, cs.H, '\\', '\\')
	case graph.Trapezoid:
		outline(c, r, [4]rune{cs.TL, cs.TR, '\\', '/'}, cs.H, cs.V, cs.V)
	case graph.TrapezoidAlt:
		outline(c, r, [4]rune{'\\', '/', cs.BL, cs.BR}, cs.H, '\\', '/')
	case graph.Table:
		if len(n.Fields) > 0 {
			drawTable(c, n, cs)
			labelled = false
		} else {
			outline(c, r, [4]rune{cs.DTL, cs.DTR, cs.DBL, cs.DBR}, cs.DH, cs.DV, cs.DV)
		}
	case graph.Person:
		drawPerson(c, n)
		labelled = false
	case graph.Cloud:
		drawCloud(c, r)
	case graph.Document:
		drawDocument(c, r, cs)
	}
	if labelled {
		drawLabel(c, n)
	}
	c.ProtectRect(r.X, r.Y, r.Width, r.Height)
}

// outline draws a box with the given corners (top-left, top-right,
// bottom-left, bottom-right), horizontal edge rune and side runes.
func outline(c *canvas.Grid, r graph.Rect, corners [4]rune, h, left, right rune) {
	x, y, w, ht := r.X, r.Y, r.Width, r.Height
	hrow(c, x+1, x+w-1, y, h)
	hrow(c, x+1, x+w-1, y+ht-1, h)
	vcol(c, x, y+1, y+ht-1, left)
	vcol(c, x+w-1, y+1, y+ht-1, right)
	c.SetIfEmpty(x, y, corners[0])
	c.SetIfEmpty(x+w-1, y, corners[1])
	c.SetIfEmpty(x, y+ht-1, corners[2])
	c.SetIfEmpty(x+w-1, y+ht-1, corners[3])
}

func hrow(c *canvas.Grid, x0, x1, y int, r rune) {
	for x := x0; x < x1; x++ {
		c.SetIfEmpty(x, y, r)
	}
}

func vcol(c *canvas.Grid, x, y0, y1 int, r rune) {
	for y := y0; y < y1; y++ {
		c.SetIfEmpty(x, y, r)
	}
}

func drawCircle(c *canvas.Grid, r graph.Rect, cs *Charset) {
	outline(c, r, [4]rune{'(', ')', '(', ')'}, cs.H, '(', ')')
	top, bottom := r.Y, r.Bottom()-1
	c.SetIfEmpty(r.X+1, top, cs.RTL)
	c.SetIfEmpty(r.X+1, bottom, cs.RBL)
	c.SetIfEmpty(r.Right()-2, top, cs.RTR)
	c.SetIfEmpty(r.Right()-2, bottom, cs.RBR)
}

// drawDiamond draws the points at the top and bottom centre with a
// horizontal rule through the middle row.
func drawDiamond(c *canvas.Grid, r graph.Rect, cs *Charset) {
	mid := r.X + r.Width/2
	top, bottom := r.Y, r.Bottom()-1
	c.SetIfEmpty(mid, top, '/')
	c.SetIfEmpty(mid, bottom, '\\')
	if mid+1 < r.Right() {
		c.SetIfEmpty(mid+1, top, '\\')
		c.SetIfEmpty(mid+1, bottom, '/')
	}
	vcol(c, r.X, r.Y+1, bottom, '<')
	vcol(c, r.Right()-1, r.Y+1, bottom, '>')
	hrow(c, r.X+1, r.Right()-1, r.Y+r.Height/2, cs.H)
}

// drawCylinder draws five or more rows: top curve, separator, body,
// separator, bottom curve.
func drawCylinder(c *canvas.Grid, r graph.Rect, cs *Charset) {
	outline(c, r, [4]rune{cs.RTL, cs.RTR, cs.RBL, cs.RBR}, cs.H, cs.V, cs.V)
	for _, y := range [2]int{r.Y + 1, r.Bottom() - 2} {
		c.Set(r.X, y, cs.ML)
		hrow(c, r.X+1, r.Right()-1, y, cs.H)
		c.Set(r.Right()-1, y, cs.MR)
	}
}

func drawSubroutine(c *canvas.Grid, r graph.Rect, cs *Charset) {
	outline(c, r, [4]rune{cs.TL, cs.TR, cs.BL, cs.BR}, cs.H, cs.V, cs.V)
	inL, inR := r.X+1, r.Right()-2
	bottom := r.Bottom() - 1
	c.Set(inL, r.Y, cs.TL)
	c.Set(inR, r.Y, cs.TR)
	c.Set(inL, bottom, cs.BL)
	c.Set(inR, bottom, cs.BR)
	vcol(c, inL, r.Y+1, bottom, cs.V)
	vcol(c, inR, r.Y+1, bottom, cs.V)
}

// drawTable draws the header label in the top border, a separator, one
// row per field and the bottom border.
func drawTable(c *canvas.Grid, n *graph.Node, cs *Charset) {
	r := n.Rect()
	x, w := r.X, r.Width
	outline(c, r, [4]rune{cs.DTL, cs.DTR, cs.DBL, cs.DBR}, cs.DH, cs.DV, cs.DV)

	header := n.Lines()[0]
	hx := x + max(w-textwidth.String(header), 0)/2
	for i := 0; i < textwidth.String(header); i++ {
		c.Set(hx+i, r.Y, ' ')
	}
	c.SetText(hx, r.Y, header)

	sep := r.Y + 1
	c.Set(x, sep, cs.ML)
	for i := x + 1; i < x+w-1; i++ {
		c.Set(i, sep, cs.H)
	}
	c.Set(x+w-1, sep, cs.MR)

	for i, f := range n.Fields {
		row := sep + 1 + i
		if row >= r.Bottom()-1 {
			break
		}
		c.SetText(x+2, row, textwidth.Clip(f.Text(), max(w-4, 0)))
	}
}

// drawPerson draws a stick figure over the first three rows with the label
// centred below it.
func drawPerson(c *canvas.Grid, n *graph.Node) {
	mid := n.CenterX()
	c.SetIfEmpty(mid, n.Y, 'O')
	c.SetIfEmpty(mid-1, n.Y+1, '/')
	c.SetIfEmpty(mid, n.Y+1, '|')
	c.SetIfEmpty(mid+1, n.Y+1, '\\')
	c.SetIfEmpty(mid-1, n.Y+2, '/')
	c.SetIfEmpty(mid+1, n.Y+2, '\\')

	for i, line := range n.Lines() {
		y := n.Y + 3 + i
		if y >= n.Y+n.Height {
			break
		}
		c.SetText(n.X+max(n.Width-textwidth.String(line), 0)/2, y, line)
	}
}

// drawCloud draws bumpy top and bottom borders between round sides.
func drawCloud(c *canvas.Grid, r graph.Rect) {
	x, w := r.X, r.Width
	top, bottom := r.Y, r.Bottom()-1

	c.SetIfEmpty(x+1, top, '.')
	c.SetIfEmpty(x+2, top, '-')
	hrow(c, x+3, x+w-3, top, '~')
	c.SetIfEmpty(x+w-3, top, '-')
	c.SetIfEmpty(x+w-2, top, '.')

	c.SetIfEmpty(x+1, bottom, '`')
	c.SetIfEmpty(x+2, bottom, '~')
	hrow(c, x+3, x+w-3, bottom, '-')
	c.SetIfEmpty(x+w-3, bottom, '~')
	c.SetIfEmpty(x+w-2, bottom, '\'')

	vcol(c, x, top+1, bottom, '(')
	vcol(c, x+w-1, top+1, bottom, ')')
}

// drawDocument is a rectangle whose bottom edge waves every third cell.
func drawDocument(c *canvas.Grid, r graph.Rect, cs *Charset) {
	outline(c, r, [4]rune{cs.TL, cs.TR, cs.BL, cs.BR}, cs.H, cs.V, cs.V)
	bottom := r.Bottom() - 1
	for i := 1; i < r.Width-1; i += 3 {
		c.Set(r.X+i, bottom, '~')
	}
}

// drawLabel centres the label block vertically and each line horizontally
// by display width.
func drawLabel(c *canvas.Grid, n *graph.Node) {
	lines := n.Lines()
	top := n.Y + max(n.Height-len(lines), 0)/2
	for i, line := range lines {
		x := n.X + max(n.Width-textwidth.String(line), 0)/2
		c.SetText(x, top+i, line)
	}
}
