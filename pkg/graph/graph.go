package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrUnknownVariant is returned when a direction, shape, or edge style
	// name is not recognized.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrDuplicateNode is returned by AddNode for an ID already present.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownSubgraph is reported by Validate for dangling subgraph references.
	ErrUnknownSubgraph = errors.New("unknown subgraph")

	// ErrNodeNotFound is reported by Validate for members that do not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrSubgraphCycle is reported by Validate when parent links loop.
	ErrSubgraphCycle = errors.New("subgraph containment cycle")
)

// TableField is one row of a table-shaped node.
type TableField struct {
	Name       string `json:"name" toml:"name"`
	Type       string `json:"type,omitempty" toml:"type,omitempty"`
	Constraint string `json:"constraint,omitempty" toml:"constraint,omitempty"`
}

// Text formats the field as "name: type [ABBR]".
func (f TableField) Text() string {
	var b strings.Builder
	b.WriteString(f.Name)
	if f.Type != "" {
		b.WriteString(": ")
		b.WriteString(f.Type)
	}
	if f.Constraint != "" {
		b.WriteString(" [")
		b.WriteString(constraintAbbrev(f.Constraint))
		b.WriteString("]")
	}
	return b.String()
}

func constraintAbbrev(c string) string {
	switch c {
	case "primary_key":
		return "PK"
	case "foreign_key":
		return "FK"
	case "unique":
		return "UQ"
	case "not_null":
		return "NN"
	}
	return c
}

// Node is a diagram vertex. X, Y, Width and Height are only meaningful
// after layout has run.
type Node struct {
	ID       string       `json:"id" toml:"id"`
	Label    string       `json:"label,omitempty" toml:"label,omitempty"`
	Shape    Shape        `json:"shape,omitempty" toml:"shape,omitempty"`
	Subgraph string       `json:"subgraph,omitempty" toml:"subgraph,omitempty"`
	Fields   []TableField `json:"fields,omitempty" toml:"fields,omitempty"`
	Class    string       `json:"class,omitempty" toml:"class,omitempty"`

	X      int `json:"-" toml:"-"`
	Y      int `json:"-" toml:"-"`
	Width  int `json:"-" toml:"-"`
	Height int `json:"-" toml:"-"`
}

// Lines splits the label on explicit line breaks.
func (n *Node) Lines() []string {
	return strings.Split(n.Label, "\n")
}

// Edge connects two nodes. Self loops and duplicates are allowed.
type Edge struct {
	From  string    `json:"from" toml:"from"`
	To    string    `json:"to" toml:"to"`
	Label string    `json:"label,omitempty" toml:"label,omitempty"`
	Style EdgeStyle `json:"style,omitempty" toml:"style,omitempty"`
}

// Subgraph groups nodes inside a labelled frame. Parent links form a forest.
type Subgraph struct {
	ID     string   `json:"id" toml:"id"`
	Label  string   `json:"label,omitempty" toml:"label,omitempty"`
	Nodes  []string `json:"nodes,omitempty" toml:"nodes,omitempty"`
	Parent string   `json:"parent,omitempty" toml:"parent,omitempty"`

	X      int `json:"-" toml:"-"`
	Y      int `json:"-" toml:"-"`
	Width  int `json:"-" toml:"-"`
	Height int `json:"-" toml:"-"`
}

// StyleClass holds colors applied to nodes that name the class.
// Values are anything lipgloss accepts as a color ("#ff0000", "196").
type StyleClass struct {
	Fill   string `json:"fill,omitempty" toml:"fill,omitempty"`
	Color  string `json:"color,omitempty" toml:"color,omitempty"`
	Stroke string `json:"stroke,omitempty" toml:"stroke,omitempty"`
}

// Graph is the intermediate representation shared by layout and rendering.
// A zero Direction means [LeftRight]; use [New] to pick one explicitly.
type Graph struct {
	Direction Direction
	Nodes     map[string]*Node
	Edges     []Edge
	Subgraphs []*Subgraph
	Classes   map[string]StyleClass
}

// New returns an empty graph flowing in direction d.
func New(d Direction) *Graph {
	return &Graph{Direction: d, Nodes: make(map[string]*Node)}
}

// AddNode inserts n. An empty label defaults to the ID.
func (g *Graph) AddNode(n Node) error {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	if _, ok := g.Nodes[n.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	g.Nodes[n.ID] = &n
	return nil
}

// AddEdge appends e. Endpoints are not required to exist yet.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// AddSubgraph appends s.
func (g *Graph) AddSubgraph(s Subgraph) {
	g.Subgraphs = append(g.Subgraphs, &s)
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.Nodes[id]
}

// SortedNodeIDs returns all node IDs in lexicographic order.
func (g *Graph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EnsureEndpoints creates a rectangle node labelled with its own ID for
// every edge endpoint that is missing from Nodes.
func (g *Graph) EnsureEndpoints() {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	for _, e := range g.Edges {
		for _, id := range [2]string{e.From, e.To} {
			if _, ok := g.Nodes[id]; !ok {
				g.Nodes[id] = &Node{ID: id, Label: id}
			}
		}
	}
}

// Subgraph returns the subgraph with the given ID, or nil.
func (g *Graph) Subgraph(id string) *Subgraph {
	for _, s := range g.Subgraphs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Validate reports structural problems that the renderer tolerates but a
// producer most likely did not intend. All problems are combined into a
// single error.
func (g *Graph) Validate() error {
	var err error
	ids := make(map[string]bool, len(g.Subgraphs))
	for _, s := range g.Subgraphs {
		ids[s.ID] = true
	}
	for _, s := range g.Subgraphs {
		if s.Parent != "" && !ids[s.Parent] {
			err = multierr.Append(err, fmt.Errorf("subgraph %q: parent %q: %w", s.ID, s.Parent, ErrUnknownSubgraph))
		}
		for _, n := range s.Nodes {
			if _, ok := g.Nodes[n]; !ok {
				err = multierr.Append(err, fmt.Errorf("subgraph %q: node %q: %w", s.ID, n, ErrNodeNotFound))
			}
		}
	}
	for _, id := range g.SortedNodeIDs() {
		if sg := g.Nodes[id].Subgraph; sg != "" && !ids[sg] {
			err = multierr.Append(err, fmt.Errorf("node %q: %w %q", id, ErrUnknownSubgraph, sg))
		}
	}
	for _, s := range g.Subgraphs {
		if g.inParentCycle(s) {
			err = multierr.Append(err, fmt.Errorf("subgraph %q: %w", s.ID, ErrSubgraphCycle))
		}
	}
	return err
}

func (g *Graph) inParentCycle(s *Subgraph) bool {
	seen := map[string]bool{s.ID: true}
	for p := g.Subgraph(s.Parent); p != nil; p = g.Subgraph(p.Parent) {
		if p.ID == s.ID {
			return true
		}
		if seen[p.ID] {
			return false
		}
		seen[p.ID] = true
	}
	return false
}
