package canvas

import (
	"strings"

	"github.com/matzehuels/termdiag/pkg/textwidth"
)

// LineOptions controls serialization.
type LineOptions struct {
	// MaxWidth truncates rows wider than this many cells. Zero disables it.
	MaxWidth int

	// Tail is appended to truncated rows, within MaxWidth.
	Tail string

	// Style, when set, wraps each run of cells sharing a non-empty tag.
	Style func(tag, text string) string
}

type span struct {
	tag  string
	text strings.Builder
}

// Lines returns the rows of the grid with trailing spaces trimmed and
// trailing blank rows dropped.
func (g *Grid) Lines(opts LineOptions) []string {
	rows := make([]string, 0, g.height)
	last := -1
	for y := 0; y < g.height; y++ {
		row := g.row(y, opts)
		if row != "" {
			last = y
		}
		rows = append(rows, row)
	}
	return rows[:last+1]
}

type cell struct {
	r   rune
	w   int
	tag string
}

func (g *Grid) row(y int, opts LineOptions) string {
	cells := make([]cell, 0, g.width)
	for x := 0; x < g.width; x++ {
		i := y*g.width + x
		r := g.cells[i]
		if r == continuation {
			if x > 0 && g.cells[i-1] != continuation && textwidth.Rune(g.cells[i-1]) == 2 {
				continue
			}
			r = ' '
		}
		cells = append(cells, cell{r: r, w: max(textwidth.Rune(r), 1), tag: g.tags[i]})
	}

	end := len(cells)
	for end > 0 && cells[end-1].r == ' ' {
		end--
	}
	cells = cells[:end]

	tail := ""
	if opts.MaxWidth > 0 {
		total := 0
		for _, c := range cells {
			total += c.w
		}
		if total > opts.MaxWidth {
			cells, tail = truncateCells(cells, opts.MaxWidth, opts.Tail)
		}
	}

	var out strings.Builder
	var spans []*span
	for _, c := range cells {
		if len(spans) == 0 || spans[len(spans)-1].tag != c.tag {
			spans = append(spans, &span{tag: c.tag})
		}
		spans[len(spans)-1].text.WriteRune(c.r)
	}
	for _, s := range spans {
		if s.tag != "" && opts.Style != nil {
			out.WriteString(opts.Style(s.tag, s.text.String()))
		} else {
			out.WriteString(s.text.String())
		}
	}
	out.WriteString(tail)
	return out.String()
}

func truncateCells(cells []cell, maxWidth int, tail string) ([]cell, string) {
	tw := textwidth.String(tail)
	if tw >= maxWidth {
		return nil, textwidth.Clip(tail, maxWidth)
	}
	budget := maxWidth - tw
	used, n := 0, 0
	for n < len(cells) && used+cells[n].w <= budget {
		used += cells[n].w
		n++
	}
	return cells[:n], tail
}
