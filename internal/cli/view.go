package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/termdiag/pkg/textwidth"
)

var (
	pagerStatusStyle = lipgloss.NewStyle().Foreground(colorGray).Background(lipgloss.Color("236"))
	pagerHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Render a diagram into an interactive pager",
		Long: `Render a diagram and browse it in a full-screen pager.

Use the arrow keys or h/j/k/l to scroll, PgUp/PgDn to page, g/G to jump to
the top or bottom and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, results, err := c.renderInputs(cmd.Context(), cmd, &flags, args)
			if err != nil {
				return err
			}
			res := results[0]

			m := NewPagerModel(names[0], res.Output)
			m.Warnings = len(res.Warnings)
			popts := []tea.ProgramOption{
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if names[0] == stdinName {
				// The document came from stdin; keys come from the terminal.
				popts = append(popts, tea.WithInputTTY())
			}
			p := tea.NewProgram(m, popts...)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("pager: %w", err)
			}
			printWarnings("", res)
			return nil
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

// =============================================================================
// PagerModel - Scrollable diagram viewer
// =============================================================================

// PagerModel is the bubbletea model for the diagram pager.
type PagerModel struct {
	Title    string
	Lines    []string
	Warnings int

	Width   int
	Height  int
	Top     int
	Left    int
	maxLine int
}

// NewPagerModel creates a pager over a rendered diagram.
func NewPagerModel(title, output string) PagerModel {
	lines := textwidth.Lines(output)
	return PagerModel{
		Title:   title,
		Lines:   lines,
		Width:   80,
		Height:  24,
		maxLine: textwidth.Max(lines),
	}
}

func (m PagerModel) Init() tea.Cmd {
	return nil
}

// bodyHeight is the number of diagram rows on screen.
func (m PagerModel) bodyHeight() int {
	return max(m.Height-2, 1)
}

func (m PagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Top--
		case "down", "j":
			m.Top++
		case "left", "h":
			m.Left -= 4
		case "right", "l":
			m.Left += 4
		case "pgup", "b":
			m.Top -= m.bodyHeight()
		case "pgdown", "f", " ":
			m.Top += m.bodyHeight()
		case "home", "g":
			m.Top = 0
		case "end", "G":
			m.Top = len(m.Lines)
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	m.clamp()
	return m, nil
}

func (m *PagerModel) clamp() {
	m.Top = min(m.Top, max(len(m.Lines)-m.bodyHeight(), 0))
	m.Top = max(m.Top, 0)
	m.Left = min(m.Left, max(m.maxLine-m.Width, 0))
	m.Left = max(m.Left, 0)
}

func (m PagerModel) View() string {
	var b strings.Builder

	end := min(m.Top+m.bodyHeight(), len(m.Lines))
	for i := m.Top; i < end; i++ {
		b.WriteString(textwidth.Clip(textwidth.Skip(m.Lines[i], m.Left), m.Width))
		b.WriteString("\n")
	}
	for i := end - m.Top; i < m.bodyHeight(); i++ {
		b.WriteString("\n")
	}

	b.WriteString(pagerStatusStyle.Width(m.Width).Render(textwidth.Clip(m.status(), m.Width)))
	b.WriteString("\n")
	b.WriteString(pagerHelpStyle.Render("↑/↓/←/→ scroll  PgUp/PgDn page  g/G top/bottom  q quit"))
	return b.String()
}

func (m PagerModel) status() string {
	s := fmt.Sprintf(" %s  lines %d-%d/%d", m.Title, min(m.Top+1, len(m.Lines)), min(m.Top+m.bodyHeight(), len(m.Lines)), len(m.Lines))
	if m.Left > 0 {
		s += fmt.Sprintf("  col %d", m.Left+1)
	}
	if m.Warnings > 0 {
		s += fmt.Sprintf("  %d warning(s)", m.Warnings)
	}
	return s
}
