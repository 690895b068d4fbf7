// Package pie renders pie charts as horizontal bar charts.
//
// Each slice gets one row: the label, a fixed-width bar whose fill glyph
// gets denser as the share grows, and the percentage. A total row closes
// the chart.
package pie

import (
	"fmt"
	"strings"

	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/render"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// BarWidth is the number of cells a 100% slice fills.
const BarWidth = 30

// NoData is the output for a chart whose values sum to zero.
const NoData = "No data"

type density struct {
	unicode, ascii rune
	from           float64
}

// Fill glyphs by share, densest first.
var densities = []density{
	{'█', '#', 50},
	{'▓', '=', 25},
	{'▒', '+', 10},
	{'░', '-', 0},
}

// Glyph returns the bar glyph for a slice holding pct percent.
func Glyph(pct float64, ascii bool) rune {
	for _, d := range densities {
		if pct >= d.from {
			if ascii {
				return d.ascii
			}
			return d.unicode
		}
	}
	last := densities[len(densities)-1]
	if ascii {
		return last.ascii
	}
	return last.unicode
}

// Render draws c. Values are printed only when ShowData is set.
func Render(c graph.PieChart, opts graph.RenderOptions) string {
	total := c.Total()
	if total == 0 {
		return NoData
	}
	cs := render.CharsetFor(opts.ASCII)

	var lines []string
	if c.Title != "" {
		lines = append(lines,
			"  "+c.Title,
			"  "+strings.Repeat(string(cs.H), textwidth.String(c.Title)),
			"")
	}

	labelWidth := 0
	for _, s := range c.Slices {
		labelWidth = max(labelWidth, textwidth.String(s.Label))
	}

	for _, s := range c.Slices {
		pct := s.Value / total * 100
		n := min(max(int(pct/100*BarWidth+0.5), 0), BarWidth)
		bar := strings.Repeat(string(Glyph(pct, opts.ASCII)), n) + strings.Repeat(" ", BarWidth-n)

		var b strings.Builder
		b.WriteString("  ")
		b.WriteString(pad(s.Label, labelWidth))
		b.WriteString("  ")
		b.WriteRune(cs.V)
		b.WriteString(bar)
		b.WriteRune(cs.V)
		if c.ShowData {
			fmt.Fprintf(&b, " %.0f (%.1f%%)", s.Value, pct)
		} else {
			fmt.Fprintf(&b, " %.1f%%", pct)
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, "", fmt.Sprintf("  %s  Total: %.0f", pad("", labelWidth), total))

	if opts.MaxWidth > 0 {
		for i, l := range lines {
			lines[i] = textwidth.Truncate(l, opts.MaxWidth, cs.Ellipsis)
		}
	}
	return strings.Join(lines, "\n")
}

// pad right-pads s with spaces to w display cells.
func pad(s string, w int) string {
	return s + strings.Repeat(" ", max(w-textwidth.String(s), 0))
}
