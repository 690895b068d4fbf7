package render

import (
	"github.com/matzehuels/termdiag/pkg/canvas"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// drawSubgraph draws a double-line frame with the label centred in the top
// border, then protects the four border lines. The interior stays writable
// so nodes and edges can be drawn inside.
func drawSubgraph(c *canvas.Grid, s *graph.Subgraph, cs *Charset) {
	r := s.Rect()
	if r.Empty() {
		return
	}
	x, y, w, h := r.X, r.Y, r.Width, r.Height
	for i := x + 1; i < x+w-1; i++ {
		c.Set(i, y, cs.DH)
		c.Set(i, y+h-1, cs.DH)
	}
	for j := y + 1; j < y+h-1; j++ {
		c.Set(x, j, cs.DV)
		c.Set(x+w-1, j, cs.DV)
	}
	c.Set(x, y, cs.DTL)
	c.Set(x+w-1, y, cs.DTR)
	c.Set(x, y+h-1, cs.DBL)
	c.Set(x+w-1, y+h-1, cs.DBR)

	if lw := textwidth.String(s.Label); s.Label != "" && w > lw+2 {
		lx := x + (w-lw)/2
		for _, ch := range s.Label {
			c.Set(lx, y, ch)
			lx += textwidth.Rune(ch)
		}
	}

	c.ProtectRect(x, y, w, 1)
	c.ProtectRect(x, y+h-1, w, 1)
	c.ProtectRect(x, y, 1, h)
	c.ProtectRect(x+w-1, y, 1, h)
}
