package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/matzehuels/termdiag/pkg/graph"
)

// Cell tags set while drawing.
const (
	tagEdge      = "edge"
	tagFrameName = "subgraph"
	classPrefix  = "class:"
)

var (
	colorEdge  = lipgloss.Color("245") // Gray
	colorFrame = lipgloss.Color("36")  // Teal
)

func classTag(name string) string { return classPrefix + name }

// styler maps cell tags to lipgloss styles. It renders against a fixed
// true-color profile so output does not depend on the terminal.
type styler struct {
	styles map[string]lipgloss.Style
}

func newStyler(classes map[string]graph.StyleClass) *styler {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)

	s := &styler{styles: map[string]lipgloss.Style{
		tagEdge:      r.NewStyle().Foreground(colorEdge),
		tagFrameName: r.NewStyle().Foreground(colorFrame),
	}}
	for name, c := range classes {
		st := r.NewStyle()
		switch {
		case c.Color != "":
			st = st.Foreground(lipgloss.Color(c.Color))
		case c.Stroke != "":
			st = st.Foreground(lipgloss.Color(c.Stroke))
		}
		if c.Fill != "" {
			st = st.Background(lipgloss.Color(c.Fill))
		}
		s.styles[classTag(name)] = st
	}
	return s
}

func (s *styler) style(tag, text string) string {
	st, ok := s.styles[tag]
	if !ok {
		return text
	}
	return st.Render(text)
}
