// Package canvas is a mutable character buffer for text diagrams.
//
// Besides the rune in each cell a [Grid] tracks three pieces of metadata:
//   - a protected flag; protected cells ignore every write except [Grid.Set]
//   - line flags recording whether a horizontal and/or vertical line passes
//     through the cell, so crossing lines merge into a junction glyph
//   - an optional style tag used when serializing with colors
//
// Wide runes (CJK, emoji) occupy two cells. The second cell holds a
// continuation marker and is skipped on output.
package canvas

import (
	"strings"

	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// continuation marks the trailing half of a wide rune.
const continuation rune = -1

type cellKind uint8

const (
	lineH cellKind = 1 << iota
	lineV
	corner
)

// Grid is a width×height character buffer. Coordinates outside the grid
// are silently ignored by every method.
type Grid struct {
	width, height int
	cells         []rune
	protected     []bool
	kinds         []cellKind
	tags          []string
}

// New returns a grid filled with spaces.
func New(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	n := width * height
	g := &Grid{
		width:     width,
		height:    height,
		cells:     make([]rune, n),
		protected: make([]bool, n),
		kinds:     make([]cellKind, n),
		tags:      make([]string, n),
	}
	for i := range g.cells {
		g.cells[i] = ' '
	}
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) { return g.width, g.height }

func (g *Grid) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0, false
	}
	return y*g.width + x, true
}

// Get returns the rune at (x, y). The trailing half of a wide rune and
// out-of-range cells read as a space.
func (g *Grid) Get(x, y int) rune {
	i, ok := g.index(x, y)
	if !ok || g.cells[i] == continuation {
		return ' '
	}
	return g.cells[i]
}

// IsProtected reports whether (x, y) is protected.
func (g *Grid) IsProtected(x, y int) bool {
	i, ok := g.index(x, y)
	return ok && g.protected[i]
}

// Writable reports whether (x, y) is inside the grid and unprotected.
func (g *Grid) Writable(x, y int) bool {
	i, ok := g.index(x, y)
	return ok && !g.protected[i]
}

// MarkProtected protects (x, y) against later writes.
func (g *Grid) MarkProtected(x, y int) {
	if i, ok := g.index(x, y); ok {
		g.protected[i] = true
	}
}

// ProtectRect protects every cell of the w×h rectangle at (x, y).
func (g *Grid) ProtectRect(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.MarkProtected(x+dx, y+dy)
		}
	}
}

// Set writes r at (x, y) regardless of protection.
func (g *Grid) Set(x, y int, r rune) {
	i, ok := g.index(x, y)
	if !ok {
		return
	}
	g.put(i, x, r)
	g.kinds[i] = 0
}

// SetIfEmpty writes r at (x, y) unless the cell is protected. It reports
// whether the write happened.
func (g *Grid) SetIfEmpty(x, y int, r rune) bool {
	i, ok := g.index(x, y)
	if !ok || g.protected[i] {
		return false
	}
	g.put(i, x, r)
	g.kinds[i] = 0
	return true
}

// SetGlyph writes r at (x, y) when the cell is unprotected and holds either
// nothing or a line. Text already on the grid is kept. It reports whether
// the write happened.
func (g *Grid) SetGlyph(x, y int, r rune) bool {
	i, ok := g.index(x, y)
	if !ok || g.protected[i] || g.holdsText(i) {
		return false
	}
	g.put(i, x, r)
	g.kinds[i] = 0
	return true
}

// holdsText reports whether cell i carries something other than a line.
func (g *Grid) holdsText(i int) bool {
	return g.kinds[i] == 0 && g.cells[i] != ' '
}

// SetText writes s starting at (x, y) with SetIfEmpty semantics, advancing
// by each rune's display width. It returns the column after the text.
func (g *Grid) SetText(x, y int, s string) int {
	for _, r := range s {
		w := textwidth.Rune(r)
		if w == 0 {
			continue
		}
		g.SetIfEmpty(x, y, r)
		x += w
	}
	return x
}

// put stores r and keeps wide-rune pairs consistent.
func (g *Grid) put(i, x int, r rune) {
	if g.cells[i] == continuation && x > 0 {
		g.cells[i-1] = ' '
	}
	if x+1 < g.width && g.cells[i+1] == continuation && g.cells[i] != continuation {
		g.cells[i+1] = ' '
	}
	g.cells[i] = r
	if textwidth.Rune(r) == 2 {
		j := i + 1
		if x+1 >= g.width || g.protected[j] {
			g.cells[i] = ' '
			return
		}
		g.cells[j] = continuation
		g.kinds[j] = 0
	}
}

// Junctions supplies the glyph drawn where lines meet.
type Junctions struct {
	Cross rune
}

// SetLine draws a horizontal or vertical line segment at (x, y). If a
// perpendicular line or a corner already occupies the cell, the cell becomes
// j.Cross. Protected cells and cells holding other text are left untouched.
// It reports whether the cell now carries the line.
func (g *Grid) SetLine(x, y int, r rune, horizontal bool, j Junctions) bool {
	i, ok := g.index(x, y)
	if !ok || g.protected[i] {
		return false
	}
	dir := lineV
	if horizontal {
		dir = lineH
	}
	k := g.kinds[i]
	switch {
	case k&corner != 0:
		g.put(i, x, j.Cross)
		g.kinds[i] = lineH | lineV
	case k&(lineH|lineV) != 0:
		k |= dir
		g.kinds[i] = k
		if k == lineH|lineV {
			g.put(i, x, j.Cross)
		} else {
			g.put(i, x, r)
		}
	case !g.holdsText(i):
		g.put(i, x, r)
		g.kinds[i] = dir
	default:
		return false
	}
	return true
}

// SetCorner draws a path corner at (x, y). A corner landing on an existing
// line or corner becomes j.Cross. Protected cells and cells holding text are
// left untouched.
func (g *Grid) SetCorner(x, y int, r rune, j Junctions) bool {
	i, ok := g.index(x, y)
	if !ok || g.protected[i] || g.holdsText(i) {
		return false
	}
	if g.kinds[i] != 0 {
		g.put(i, x, j.Cross)
		g.kinds[i] = lineH | lineV
		return true
	}
	g.put(i, x, r)
	g.kinds[i] = corner
	return true
}

// IsLine reports whether a line or corner glyph occupies (x, y).
func (g *Grid) IsLine(x, y int) bool {
	i, ok := g.index(x, y)
	return ok && g.kinds[i] != 0
}

// Tag assigns a style tag to every cell of the w×h rectangle at (x, y).
func (g *Grid) Tag(x, y, w, h int, tag string) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if i, ok := g.index(x+dx, y+dy); ok {
				g.tags[i] = tag
			}
		}
	}
}

// String serializes the grid with trailing spaces and blank rows removed.
func (g *Grid) String() string {
	return strings.Join(g.Lines(LineOptions{}), "\n")
}
