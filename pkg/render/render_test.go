package render

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/pathfind"
	"github.com/matzehuels/termdiag/pkg/textwidth"
)

func pointAt(x, y int) pathfind.Point { return pathfind.Point{X: x, Y: y} }

func chain(d graph.Direction, edges ...graph.Edge) *graph.Graph {
	g := graph.New(d)
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

func TestFlowchart_LeftRight(t *testing.T) {
	g := chain(graph.LeftRight, graph.Edge{From: "A", To: "B"})
	out, warnings := Flowchart(g, graph.DefaultRenderOptions())
	want := strings.Join([]string{
		"┌───┐        ┌───┐",
		"│ A │───────▶│ B │",
		"└───┘        └───┘",
	}, "\n")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestFlowchart_TopBottom(t *testing.T) {
	g := chain(graph.TopBottom, graph.Edge{From: "A", To: "B"})
	out, _ := Flowchart(g, graph.DefaultRenderOptions())
	want := strings.Join([]string{
		"┌───┐",
		"│ A │",
		"└───┘",
		"  │",
		"  │",
		"  │",
		"  ▼",
		"┌───┐",
		"│ B │",
		"└───┘",
	}, "\n")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestFlowchart_ReversedDirections(t *testing.T) {
	tests := []struct {
		dir   graph.Direction
		arrow string
	}{
		{graph.RightLeft, "◀"},
		{graph.BottomTop, "▲"},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			out, _ := Flowchart(chain(tt.dir, graph.Edge{From: "A", To: "B"}), graph.DefaultRenderOptions())
			if !strings.Contains(out, tt.arrow) {
				t.Errorf("output missing %s:\n%s", tt.arrow, out)
			}
		})
	}
}

func TestFlowchart_ASCII(t *testing.T) {
	opts := graph.DefaultRenderOptions()
	opts.ASCII = true
	out, _ := Flowchart(chain(graph.LeftRight, graph.Edge{From: "A", To: "B"}), opts)
	if !strings.Contains(out, "+---+") || !strings.Contains(out, ">") {
		t.Errorf("ASCII output missing box or arrow:\n%s", out)
	}
	for _, r := range out {
		if r > 127 {
			t.Fatalf("ASCII output contains %q:\n%s", r, out)
		}
	}
}

func TestFlowchart_InlineLabel(t *testing.T) {
	g := chain(graph.LeftRight, graph.Edge{From: "A", To: "B", Label: "go"})
	out, warnings := Flowchart(g, graph.DefaultRenderOptions())
	if !strings.Contains(out, "│ A │───go──▶│ B │") {
		t.Errorf("label not centred on the run:\n%s", out)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if strings.Contains(out, legendTitle) {
		t.Errorf("unexpected legend:\n%s", out)
	}
}

func TestFlowchart_VerticalLabel(t *testing.T) {
	g := chain(graph.TopBottom, graph.Edge{From: "A", To: "B", Label: "yes"})
	out, warnings := Flowchart(g, graph.DefaultRenderOptions())
	lines := strings.Split(out, "\n")
	if lines[4] != "  │yes" {
		t.Errorf("row 4 = %q, want label beside the line\n%s", lines[4], out)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestFlowchart_DroppedLabel(t *testing.T) {
	g := chain(graph.LeftRight, graph.Edge{From: "A", To: "B", Label: "a very long label"})
	out, warnings := Flowchart(g, graph.DefaultRenderOptions())

	want := []graph.Warning{graph.LabelDropped{Marker: "[1]", EdgeFrom: "A", EdgeTo: "B", Label: "a very long label"}}
	if !reflect.DeepEqual(warnings, want) {
		t.Fatalf("warnings = %v, want %v", warnings, want)
	}
	if !strings.Contains(out, "│ A │──[1]──▶│ B │") {
		t.Errorf("marker not drawn inline:\n%s", out)
	}
	if !strings.HasSuffix(out, "\nLabels:\n  [1] a very long label") {
		t.Errorf("legend missing:\n%s", out)
	}
}

func TestFlowchart_MarkersIncrease(t *testing.T) {
	g := chain(graph.LeftRight,
		graph.Edge{From: "A", To: "B", Label: "first label that is long"},
		graph.Edge{From: "B", To: "C", Label: "x"},
		graph.Edge{From: "C", To: "D", Label: "second label that is long"},
	)
	_, warnings := Flowchart(g, graph.DefaultRenderOptions())
	var markers []string
	for _, w := range warnings {
		if ld, ok := w.(graph.LabelDropped); ok {
			markers = append(markers, ld.Marker)
		}
	}
	if want := []string{"[1]", "[2]"}; !reflect.DeepEqual(markers, want) {
		t.Errorf("markers = %v, want %v", markers, want)
	}
}

func TestFlowchart_CycleWarningFirst(t *testing.T) {
	g := chain(graph.LeftRight,
		graph.Edge{From: "A", To: "B", Label: "this label cannot fit"},
		graph.Edge{From: "B", To: "A"},
	)
	_, warnings := Flowchart(g, graph.DefaultRenderOptions())
	if len(warnings) < 2 {
		t.Fatalf("warnings = %v, want cycle and dropped label", warnings)
	}
	if _, ok := warnings[0].(graph.CycleDetected); !ok {
		t.Errorf("warnings[0] = %T, want CycleDetected", warnings[0])
	}
	if _, ok := warnings[1].(graph.LabelDropped); !ok {
		t.Errorf("warnings[1] = %T, want LabelDropped", warnings[1])
	}
}

func TestFlowchart_MaxWidth(t *testing.T) {
	opts := graph.DefaultRenderOptions()
	opts.MaxWidth = 10
	g := chain(graph.LeftRight, graph.Edge{From: "Start", To: "End", Label: "a label far too long to fit"})
	out, _ := Flowchart(g, opts)

	truncated := false
	for _, line := range strings.Split(out, "\n") {
		if w := textwidth.String(line); w > opts.MaxWidth {
			t.Errorf("line %q is %d cells wide, limit %d", line, w, opts.MaxWidth)
		}
		if strings.HasSuffix(line, "…") {
			truncated = true
		}
	}
	if !truncated {
		t.Errorf("no line ends with an ellipsis:\n%s", out)
	}
}

func TestFlowchart_MaxWidthNoTruncation(t *testing.T) {
	opts := graph.DefaultRenderOptions()
	opts.MaxWidth = 100
	out, _ := Flowchart(chain(graph.LeftRight, graph.Edge{From: "A", To: "B"}), opts)
	if strings.Contains(out, "…") {
		t.Errorf("unexpected ellipsis:\n%s", out)
	}
}

// cellsIn extracts the ASCII rectangle r from rendered lines.
func cellsIn(lines []string, r graph.Rect) []string {
	var out []string
	for y := r.Y; y < r.Bottom(); y++ {
		row := ""
		if y < len(lines) {
			row = lines[y]
		}
		row += strings.Repeat(" ", max(r.Right()-len(row), 0))
		out = append(out, row[r.X:r.Right()])
	}
	return out
}

func TestRender_EdgesNeverOverwriteNodes(t *testing.T) {
	opts := graph.DefaultRenderOptions()
	opts.ASCII = true
	build := func() *graph.Graph {
		g := chain(graph.LeftRight,
			graph.Edge{From: "A", To: "B"},
			graph.Edge{From: "B", To: "C"},
			graph.Edge{From: "C", To: "A", Label: "back"},
			graph.Edge{From: "A", To: "C"},
		)
		_ = g.AddNode(graph.Node{ID: "D", Shape: graph.Cylinder})
		g.AddEdge(graph.Edge{From: "D", To: "B"})
		Flowchart(g, opts)
		return g
	}

	full := build()
	bare := build()
	bare.Edges = nil

	withEdges, _ := Render(full, opts)
	nodesOnly, _ := Render(bare, opts)
	a, b := strings.Split(withEdges, "\n"), strings.Split(nodesOnly, "\n")
	for _, id := range full.SortedNodeIDs() {
		r := full.Node(id).Rect()
		if got, want := cellsIn(a, r), cellsIn(b, r); !reflect.DeepEqual(got, want) {
			t.Errorf("node %s changed by edges:\ngot  %q\nwant %q", id, got, want)
		}
	}
}

func TestFlowchart_RoutedEdgeEndsInArrow(t *testing.T) {
	g := chain(graph.TopBottom, graph.Edge{From: "A", To: "B"}, graph.Edge{From: "A", To: "C"})
	out, warnings := Flowchart(g, graph.DefaultRenderOptions())
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	lines := strings.Split(out, "\n")
	arrows := "▶◀▼▲◢◣◥◤"
	for _, id := range []string{"B", "C"} {
		n := g.Node(id)
		row := []rune(lines[n.Y-1])
		if x := n.CenterX(); x >= len(row) || !strings.ContainsRune(arrows, row[x]) {
			t.Errorf("no arrowhead above %s:\n%s", id, out)
		}
	}
}

func TestFlowchart_SelfLoop(t *testing.T) {
	g := chain(graph.LeftRight, graph.Edge{From: "A", To: "A", Label: "again"})
	out, warnings := Flowchart(g, graph.DefaultRenderOptions())
	if !strings.Contains(out, "▲") {
		t.Errorf("self loop missing arrow:\n%s", out)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want cycle and dropped label", warnings)
	}
	if cd, ok := warnings[0].(graph.CycleDetected); !ok || !reflect.DeepEqual(cd.Nodes, []string{"A"}) {
		t.Errorf("warnings[0] = %v, want CycleDetected{[A]}", warnings[0])
	}
}

func TestFlowchart_LabelsSurviveLaterEdges(t *testing.T) {
	for _, format := range []string{"lbl%d", "a label wider than any run %d"} {
		t.Run(format, func(t *testing.T) {
			g := graph.New(graph.TopBottom)
			for i := range 5 {
				g.AddEdge(graph.Edge{From: "R", To: fmt.Sprintf("N%d", i), Label: fmt.Sprintf(format, i)})
			}
			out, warnings := Flowchart(g, graph.DefaultRenderOptions())
			body, legend, _ := strings.Cut(out, "\n"+legendTitle+"\n")

			dropped := make(map[string]string)
			for _, w := range warnings {
				if ld, ok := w.(graph.LabelDropped); ok {
					dropped[ld.Label] = ld.Marker
				}
			}
			for i := range 5 {
				label := fmt.Sprintf(format, i)
				marker, ok := dropped[label]
				if !ok {
					if n := strings.Count(body, label); n != 1 {
						t.Errorf("%q drawn inline %d times, want 1:\n%s", label, n, out)
					}
					continue
				}
				if !strings.Contains(legend, "  "+marker+" "+label) {
					t.Errorf("legend missing %s %q:\n%s", marker, label, out)
				}
				if n := strings.Count(body, marker); n > 1 {
					t.Errorf("marker %s drawn %d times:\n%s", marker, n, out)
				}
			}
			intact := regexp.MustCompile(`\[\d+\]`).FindAllString(body, -1)
			if n := strings.Count(body, "["); n != len(intact) {
				t.Errorf("%d marker openings but %d intact markers:\n%s", n, len(intact), out)
			}
		})
	}
}

func TestFlowchart_BackEdgeEntersTarget(t *testing.T) {
	below := func(n *graph.Node) (int, int) { return n.CenterX(), n.Y + n.Height }
	right := func(n *graph.Node) (int, int) { return n.X + n.Width, n.CenterY() }
	tests := []struct {
		dir   graph.Direction
		arrow rune
		at    func(*graph.Node) (int, int)
	}{
		{graph.LeftRight, '▲', below},
		{graph.RightLeft, '▲', below},
		{graph.TopBottom, '◀', right},
		{graph.BottomTop, '◀', right},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			g := chain(tt.dir,
				graph.Edge{From: "A", To: "B"},
				graph.Edge{From: "B", To: "C"},
				graph.Edge{From: "C", To: "A", Label: "back again"},
			)
			out, warnings := Flowchart(g, graph.DefaultRenderOptions())
			for _, w := range warnings {
				if _, ok := w.(graph.LabelDropped); ok {
					t.Errorf("label dropped: %v\n%s", w, out)
				}
			}
			if !strings.Contains(out, "back again") {
				t.Errorf("label missing:\n%s", out)
			}

			lines := strings.Split(out, "\n")
			x, y := tt.at(g.Node("A"))
			var got rune
			if y < len(lines) {
				if row := []rune(lines[y]); x < len(row) {
					got = row[x]
				}
			}
			if got != tt.arrow {
				t.Errorf("cell (%d,%d) = %q, want %q entering A:\n%s", x, y, got, tt.arrow, out)
			}
		})
	}
}

func TestRender_ClipsOversizedCanvas(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "far"})
	n := g.Node("far")
	n.X, n.Y, n.Width, n.Height = 4000, 4000, 5, 3

	_, warnings := Render(g, graph.DefaultRenderOptions())
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one clip warning", warnings)
	}
	if _, ok := warnings[0].(graph.UnsupportedFeature); !ok {
		t.Errorf("warnings[0] = %T, want UnsupportedFeature", warnings[0])
	}
}

func TestFlowchart_Shapes(t *testing.T) {
	for _, s := range graph.Shapes() {
		t.Run(s.String(), func(t *testing.T) {
			g := graph.New(graph.LeftRight)
			_ = g.AddNode(graph.Node{ID: "n", Label: "Label", Shape: s})
			for _, ascii := range []bool{false, true} {
				opts := graph.DefaultRenderOptions()
				opts.ASCII = ascii
				out, _ := Flowchart(g, opts)
				if !strings.Contains(out, "Label") {
					t.Errorf("ascii=%v: label missing:\n%s", ascii, out)
				}
			}
		})
	}
}

func TestFlowchart_Cylinder(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "db", Label: "Users", Shape: graph.Cylinder})
	out, _ := Flowchart(g, graph.DefaultRenderOptions())
	want := strings.Join([]string{
		"╭─────╮",
		"├─────┤",
		"│Users│",
		"├─────┤",
		"╰─────╯",
	}, "\n")
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestFlowchart_Table(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "users", Shape: graph.Table, Fields: []graph.TableField{
		{Name: "id", Type: "int", Constraint: "primary_key"},
		{Name: "email", Type: "text"},
	}})
	out, _ := Flowchart(g, graph.DefaultRenderOptions())
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d rows, want 5:\n%s", len(lines), out)
	}
	for i, want := range []string{"users", "├", "id: int [PK]", "email: text", "╚"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("row %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestFlowchart_Person(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "u", Label: "User", Shape: graph.Person})
	out, _ := Flowchart(g, graph.DefaultRenderOptions())
	lines := strings.Split(out, "\n")
	if len(lines) != 4 || !strings.Contains(lines[0], "O") || !strings.Contains(lines[3], "User") {
		t.Errorf("person layout wrong:\n%s", out)
	}
}

func TestFlowchart_WideLabels(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "n", Label: "数据"})
	out, _ := Flowchart(g, graph.DefaultRenderOptions())
	lines := strings.Split(out, "\n")
	if w0, w1 := textwidth.String(lines[0]), textwidth.String(lines[1]); w0 != w1 {
		t.Errorf("border width %d != label row width %d:\n%s", w0, w1, out)
	}
}

func TestFlowchart_Subgraph(t *testing.T) {
	g := chain(graph.LeftRight, graph.Edge{From: "A", To: "B"})
	g.AddSubgraph(graph.Subgraph{ID: "grp", Label: "Group", Nodes: []string{"A"}})
	out, _ := Flowchart(g, graph.DefaultRenderOptions())
	for _, want := range []string{"╔", "╝", "Group"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFlowchart_EdgeStyles(t *testing.T) {
	tests := []struct {
		style graph.EdgeStyle
		glyph string
		arrow bool
	}{
		{graph.Line, "─", false},
		{graph.DottedArrow, "·", true},
		{graph.DottedLine, "·", false},
		{graph.ThickArrow, "═", true},
		{graph.ThickLine, "═", false},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			out, _ := Flowchart(chain(graph.LeftRight, graph.Edge{From: "A", To: "B", Style: tt.style}), graph.DefaultRenderOptions())
			row := strings.Split(out, "\n")[1]
			if !strings.Contains(row, tt.glyph) {
				t.Errorf("row %q missing %q", row, tt.glyph)
			}
			if got := strings.Contains(row, "▶"); got != tt.arrow {
				t.Errorf("arrowhead = %v, want %v in %q", got, tt.arrow, row)
			}
		})
	}
}

func TestFlowchart_Colors(t *testing.T) {
	build := func() *graph.Graph {
		g := chain(graph.LeftRight, graph.Edge{From: "A", To: "B"})
		g.Node("A").Class = "hot"
		g.Classes = map[string]graph.StyleClass{"hot": {Color: "#ff0000", Fill: "#220000"}}
		return g
	}
	opts := graph.DefaultRenderOptions()
	plain, _ := Flowchart(build(), opts)
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("escape codes without Colors:\n%q", plain)
	}
	opts.Colors = true
	colored, _ := Flowchart(build(), opts)
	if !strings.Contains(colored, "\x1b[") {
		t.Errorf("no escape codes with Colors:\n%q", colored)
	}
}

func richGraph() *graph.Graph {
	g := chain(graph.TopBottom,
		graph.Edge{From: "start", To: "check", Label: "begin"},
		graph.Edge{From: "check", To: "ok", Label: "yes", Style: graph.ThickArrow},
		graph.Edge{From: "check", To: "fail", Label: "no, and a long reason", Style: graph.DottedArrow},
		graph.Edge{From: "fail", To: "start"},
		graph.Edge{From: "ok", To: "ok"},
		graph.Edge{From: "ok", To: "db"},
	)
	g.Node("check").Shape = graph.Diamond
	g.Node("db").Shape = graph.Cylinder
	g.Node("ok").Label = "All\ngood"
	g.AddSubgraph(graph.Subgraph{ID: "inner", Label: "Inner", Nodes: []string{"ok", "db"}, Parent: "outer"})
	g.AddSubgraph(graph.Subgraph{ID: "outer", Label: "Outer", Nodes: []string{"fail"}})
	return g
}

func TestFlowchart_Deterministic(t *testing.T) {
	for _, ascii := range []bool{false, true} {
		opts := graph.DefaultRenderOptions()
		opts.ASCII = ascii
		first, firstWarnings := Flowchart(richGraph(), opts)
		for i := 0; i < 20; i++ {
			out, warnings := Flowchart(richGraph(), opts)
			if out != first {
				t.Fatalf("run %d differs:\n%s\nfirst:\n%s", i, out, first)
			}
			if !reflect.DeepEqual(warnings, firstWarnings) {
				t.Fatalf("run %d warnings = %v, first %v", i, warnings, firstWarnings)
			}
		}
	}
}

func TestFlowchart_MalformedGraphs(t *testing.T) {
	graphs := map[string]*graph.Graph{
		"empty":      graph.New(graph.LeftRight),
		"empty id":   chain(graph.LeftRight, graph.Edge{From: "", To: ""}),
		"duplicates": chain(graph.TopBottom, graph.Edge{From: "a", To: "b"}, graph.Edge{From: "a", To: "b"}),
		"disconnected": chain(graph.RightLeft,
			graph.Edge{From: "a", To: "b"}, graph.Edge{From: "c", To: "d"}),
	}
	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			Flowchart(g, graph.DefaultRenderOptions())
		})
	}
}

func TestArrowFor(t *testing.T) {
	cs := &Unicode
	tests := []struct {
		dx, dy int
		want   rune
	}{
		{1, 0, '▶'}, {-1, 0, '◀'}, {0, 1, '▼'}, {0, -1, '▲'},
		{1, 1, '◢'}, {-1, 1, '◣'}, {1, -1, '◥'}, {-1, -1, '◤'},
	}
	for _, tt := range tests {
		from := pointAt(1, 1)
		to := pointAt(1+tt.dx, 1+tt.dy)
		if got := cs.ArrowFor(from, to); got != tt.want {
			t.Errorf("ArrowFor(%+v -> %+v) = %q, want %q", from, to, got, tt.want)
		}
	}
}

func TestStraightRunsLongestFirst(t *testing.T) {
	// Right 3, corner, down 4, corner, right 2, arrow.
	cells := manualRoute(pointAt(0, 0), pointAt(6, 5), true)
	runs := straightRuns(cells, true)
	if len(runs) == 0 {
		t.Fatal("no runs")
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].length > runs[i-1].length {
			t.Errorf("runs not sorted: %+v", runs)
		}
	}
	if runs[0].horizontal || runs[0].length != 4 {
		t.Errorf("longest run = %+v, want the vertical run of 4", runs[0])
	}
}
