// Package sequence renders sequence diagrams as text.
//
// Participants are drawn as boxes in declaration order, each owning a
// column with a lifeline at its centre. Every message takes its own rows
// below the boxes; labels follow the arrow on the same row.
package sequence

import (
	"fmt"
	"strings"

	"github.com/matzehuels/termdiag/pkg/canvas"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/render"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

const (
	minColumnWidth = 12
	loopWidth      = 4
)

// NoParticipants is the output for a diagram without participants.
const NoParticipants = "No participants"

// layout holds the column geometry of a diagram.
type layout struct {
	centers []int
	index   map[string]int
	width   int
}

func columns(ps []graph.Participant) layout {
	l := layout{index: make(map[string]int, len(ps))}
	for i, p := range ps {
		w := max(textwidth.String(p.DisplayLabel())+4, minColumnWidth)
		l.centers = append(l.centers, l.width+w/2)
		l.width += w
		if _, dup := l.index[p.ID]; !dup {
			l.index[p.ID] = i
		}
	}
	return l
}

// Render draws d. Message endpoints without a participant declaration get
// one appended in first-reference order; d itself is not modified.
func Render(d graph.SequenceDiagram, opts graph.RenderOptions) string {
	d.Participants = append([]graph.Participant(nil), d.Participants...)
	d.EnsureParticipants()
	if len(d.Participants) == 0 {
		return NoParticipants
	}
	cs := render.CharsetFor(opts.ASCII)
	l := columns(d.Participants)

	labels := make([]string, len(d.Messages))
	labelWidth := 0
	for i, m := range d.Messages {
		labels[i] = messageLabel(d, i, m)
		labelWidth = max(labelWidth, textwidth.String(labels[i]))
	}

	height := 3 + 3*len(d.Messages) + 1
	if d.Title != "" {
		height += 3
	}
	c := canvas.New(l.width+loopWidth+4+labelWidth, height)

	y := 0
	if d.Title != "" {
		tw := textwidth.String(d.Title)
		x := max(l.width-tw, 0) / 2
		c.SetText(x, y, d.Title)
		for i := 0; i < tw; i++ {
			c.Set(x+i, y+1, cs.H)
		}
		y += 3
	}

	drawBoxes(c, cs, d.Participants, l, y)
	y += 3

	for i, m := range d.Messages {
		from, to := l.index[m.From], l.index[m.To]
		if from == to {
			drawSelf(c, cs, l, y, l.centers[from], labels[i])
			y += 3
			continue
		}
		lifelines(c, cs, l, y)
		lifelines(c, cs, l, y+1)
		drawArrow(c, cs, m.Style, l.centers[from], l.centers[to], y+1)
		if labels[i] != "" {
			c.SetText(l.width+2, y+1, labels[i])
		}
		y += 2
	}
	lifelines(c, cs, l, y)

	return strings.Join(c.Lines(canvas.LineOptions{MaxWidth: opts.MaxWidth, Tail: cs.Ellipsis}), "\n")
}

func messageLabel(d graph.SequenceDiagram, i int, m graph.Message) string {
	if d.Autonumber {
		return strings.TrimSpace(fmt.Sprintf("%d. %s", i+1, m.Label))
	}
	return m.Label
}

func drawBoxes(c *canvas.Grid, cs *render.Charset, ps []graph.Participant, l layout, y int) {
	for i, p := range ps {
		label := p.DisplayLabel()
		w := textwidth.String(label) + 2
		x := max(l.centers[i]-w/2, 0)
		c.Set(x, y, cs.TL)
		c.Set(x, y+1, cs.V)
		c.Set(x, y+2, cs.BL)
		for j := x + 1; j < x+w-1; j++ {
			c.Set(j, y, cs.H)
			c.Set(j, y+2, cs.H)
		}
		c.Set(x+w-1, y, cs.TR)
		c.Set(x+w-1, y+1, cs.V)
		c.Set(x+w-1, y+2, cs.BR)
		c.SetText(x+1, y+1, label)
	}
}

func lifelines(c *canvas.Grid, cs *render.Charset, l layout, y int) {
	for _, x := range l.centers {
		c.Set(x, y, cs.V)
	}
}

func drawArrow(c *canvas.Grid, cs *render.Charset, style graph.ArrowStyle, fromX, toX, y int) {
	line := cs.H
	if style.Dotted() {
		line = cs.Dot
	}
	lo, hi := min(fromX, toX), max(fromX, toX)
	for x := lo + 1; x < hi; x++ {
		c.Set(x, y, line)
	}

	switch style {
	case graph.SolidArrow, graph.DottedArrowHead, graph.AsyncArrow:
		if toX > fromX {
			c.Set(hi-1, y, cs.ArrowRight)
		} else {
			c.Set(lo+1, y, cs.ArrowLeft)
		}
	case graph.SolidOpen, graph.DottedOpen:
	}
}

// drawSelf draws a three-row loop to the right of the lifeline at x with
// the arrow returning on the bottom row.
func drawSelf(c *canvas.Grid, cs *render.Charset, l layout, y, x int, label string) {
	for dy := 0; dy < 3; dy++ {
		lifelines(c, cs, l, y+dy)
	}
	left, right := x+1, x+loopWidth+1
	c.Set(left, y, cs.RTL)
	c.Set(right, y, cs.RTR)
	c.Set(left, y+1, cs.V)
	c.Set(right, y+1, cs.V)
	c.Set(left, y+2, cs.RBL)
	c.Set(right, y+2, cs.RBR)
	for i := left + 1; i < right; i++ {
		c.Set(i, y, cs.H)
		c.Set(i, y+2, cs.H)
	}
	c.Set(left+1, y+2, cs.ArrowLeft)
	if label != "" {
		c.SetText(max(l.centers[len(l.centers)-1]+1, right+1)+2, y+1, label)
	}
}
