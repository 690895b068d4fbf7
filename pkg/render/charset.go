package render

import (
	"github.com/matzehuels/termdiag/pkg/canvas"
	"github.com/matzehuels/termdiag/pkg/pathfind"
)

// Charset is the glyph table used by every drawing routine.
type Charset struct {
	TL, TR, BL, BR rune // corners
	H, V           rune // lines

	ArrowRight, ArrowLeft, ArrowDown, ArrowUp rune
	ArrowDownRight, ArrowDownLeft             rune
	ArrowUpRight, ArrowUpLeft                 rune

	RTL, RTR, RBL, RBR rune // rounded corners
	ML, MR             rune // T-junctions opening right and left

	DH, DV             rune // double lines
	DTL, DTR, DBL, DBR rune // double corners

	Cross, TeeUp, TeeDown rune

	Dot, DotV rune // dotted edge glyphs
	Ellipsis  string
}

// Unicode draws with box-drawing characters.
var Unicode = Charset{
	TL: '┌', TR: '┐', BL: '└', BR: '┘',
	H: '─', V: '│',
	ArrowRight: '▶', ArrowLeft: '◀', ArrowDown: '▼', ArrowUp: '▲',
	ArrowDownRight: '◢', ArrowDownLeft: '◣',
	ArrowUpRight: '◥', ArrowUpLeft: '◤',
	RTL: '╭', RTR: '╮', RBL: '╰', RBR: '╯',
	ML: '├', MR: '┤',
	DH: '═', DV: '║',
	DTL: '╔', DTR: '╗', DBL: '╚', DBR: '╝',
	Cross: '┼', TeeUp: '┴', TeeDown: '┬',
	Dot: '·', DotV: '·',
	Ellipsis: "…",
}

// ASCII draws with 7-bit characters only.
var ASCII = Charset{
	TL: '+', TR: '+', BL: '+', BR: '+',
	H: '-', V: '|',
	ArrowRight: '>', ArrowLeft: '<', ArrowDown: 'v', ArrowUp: '^',
	ArrowDownRight: '\\', ArrowDownLeft: '/',
	ArrowUpRight: '/', ArrowUpLeft: '\\',
	RTL: '+', RTR: '+', RBL: '+', RBR: '+',
	ML: '+', MR: '+',
	DH: '=', DV: '#',
	DTL: '#', DTR: '#', DBL: '#', DBR: '#',
	Cross: '+', TeeUp: '+', TeeDown: '+',
	Dot: '.', DotV: ':',
	Ellipsis: "...",
}

// CharsetFor picks the glyph table for the ascii flag.
func CharsetFor(ascii bool) *Charset {
	if ascii {
		return &ASCII
	}
	return &Unicode
}

func (cs *Charset) junctions() canvas.Junctions {
	return canvas.Junctions{Cross: cs.Cross}
}

// ArrowFor returns the arrowhead for a step from one cell to another.
// Diagonal steps map to the four corner triangles.
func (cs *Charset) ArrowFor(from, to pathfind.Point) rune {
	dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)
	switch {
	case dx == 1 && dy == 0:
		return cs.ArrowRight
	case dx == -1 && dy == 0:
		return cs.ArrowLeft
	case dx == 0 && dy == 1:
		return cs.ArrowDown
	case dx == 0 && dy == -1:
		return cs.ArrowUp
	case dx == 1 && dy == 1:
		return cs.ArrowDownRight
	case dx == -1 && dy == 1:
		return cs.ArrowDownLeft
	case dx == 1 && dy == -1:
		return cs.ArrowUpRight
	case dx == -1 && dy == -1:
		return cs.ArrowUpLeft
	}
	return cs.ArrowRight
}

// Corner returns the glyph joining the segment arriving from prev with the
// segment leaving toward next, both measured from curr.
func (cs *Charset) Corner(prev, curr, next pathfind.Point) rune {
	return pickCorner(prev, curr, next, [4]rune{cs.TL, cs.TR, cs.BL, cs.BR}, cs.Cross)
}

// pickCorner selects from corners ordered top-left, top-right, bottom-left,
// bottom-right by the two directions leaving curr. Anything that is not a
// clean right-angle turn gets cross.
func pickCorner(prev, curr, next pathfind.Point, corners [4]rune, cross rune) rune {
	up := prev.Y < curr.Y || next.Y < curr.Y
	down := prev.Y > curr.Y || next.Y > curr.Y
	left := prev.X < curr.X || next.X < curr.X
	right := prev.X > curr.X || next.X > curr.X
	switch {
	case down && right && !up && !left:
		return corners[0]
	case down && left && !up && !right:
		return corners[1]
	case up && right && !down && !left:
		return corners[2]
	case up && left && !down && !right:
		return corners[3]
	}
	return cross
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
