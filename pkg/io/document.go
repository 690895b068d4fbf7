package io

import (
	"path/filepath"
	"strings"

	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
)

// Kind names the diagram type of a document.
type Kind string

// Document kinds.
const (
	KindFlowchart Kind = "flowchart"
	KindSequence  Kind = "sequence"
	KindPie       Kind = "pie"
)

// Kinds lists every document kind.
func Kinds() []Kind { return []Kind{KindFlowchart, KindSequence, KindPie} }

// ParseKind resolves a kind name. "graph", "state" and "d2" are flowchart
// aliases since those front ends all produce a Graph.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flowchart", "graph", "state", "d2":
		return KindFlowchart, nil
	case "sequence":
		return KindSequence, nil
	case "pie":
		return KindPie, nil
	}
	return "", terr.New(terr.ErrCodeInvalidFormat, "unknown document type %q", s)
}

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension. Unknown extensions
// are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	}
	return FormatJSON
}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	if err := terr.ValidateFormat(s, string(FormatJSON), string(FormatTOML)); err != nil {
		return "", err
	}
	return Format(strings.ToLower(s)), nil
}

// Document is one decoded diagram. Exactly one of Flowchart, Sequence and
// Pie is set, matching Kind.
type Document struct {
	Kind      Kind
	Flowchart *graph.Graph
	Sequence  *graph.SequenceDiagram
	Pie       *graph.PieChart

	// Warnings collects decoder diagnostics such as unknown keys.
	Warnings []graph.Warning
}

// wireDocument is the union of every document kind's fields.
type wireDocument struct {
	Type string `json:"type,omitempty" toml:"type"`

	Direction *graph.Direction            `json:"direction,omitempty" toml:"direction"`
	Nodes     []graph.Node                `json:"nodes,omitempty" toml:"nodes"`
	Edges     []graph.Edge                `json:"edges,omitempty" toml:"edges"`
	Subgraphs []graph.Subgraph            `json:"subgraphs,omitempty" toml:"subgraphs"`
	Classes   map[string]graph.StyleClass `json:"classes,omitempty" toml:"classes"`

	Title        string              `json:"title,omitempty" toml:"title"`
	Participants []graph.Participant `json:"participants,omitempty" toml:"participants"`
	Messages     []graph.Message     `json:"messages,omitempty" toml:"messages"`
	Autonumber   bool                `json:"autonumber,omitempty" toml:"autonumber"`

	Slices   []graph.PieSlice `json:"slices,omitempty" toml:"slices"`
	ShowData bool             `json:"show_data,omitempty" toml:"show_data"`
}

// toDocument builds the typed document and validates flowchart structure.
func (w *wireDocument) toDocument() (*Document, error) {
	kind, err := ParseKind(w.Type)
	if err != nil {
		return nil, err
	}
	doc := &Document{Kind: kind}
	switch kind {
	case KindFlowchart:
		dir := graph.DefaultDirection
		if w.Direction != nil {
			dir = *w.Direction
		}
		g := graph.New(dir)
		for _, n := range w.Nodes {
			if err := g.AddNode(n); err != nil {
				return nil, terr.Wrap(terr.ErrCodeInvalidGraph, err, "node %q", n.ID)
			}
		}
		g.Edges = w.Edges
		for _, s := range w.Subgraphs {
			g.AddSubgraph(s)
		}
		g.Classes = w.Classes
		g.EnsureEndpoints()
		if err := g.Validate(); err != nil {
			return nil, terr.Wrap(terr.ErrCodeInvalidGraph, err, "invalid flowchart")
		}
		doc.Flowchart = g
	case KindSequence:
		doc.Sequence = &graph.SequenceDiagram{
			Title:        w.Title,
			Participants: w.Participants,
			Messages:     w.Messages,
			Autonumber:   w.Autonumber,
		}
	case KindPie:
		for _, s := range w.Slices {
			if s.Value < 0 {
				return nil, terr.New(terr.ErrCodeInvalidInput, "slice %q: negative value %g", s.Label, s.Value)
			}
		}
		doc.Pie = &graph.PieChart{Title: w.Title, Slices: w.Slices, ShowData: w.ShowData}
	}
	return doc, nil
}

// fromDocument is the inverse of toDocument.
func fromDocument(doc *Document) wireDocument {
	w := wireDocument{Type: string(doc.Kind)}
	switch doc.Kind {
	case KindFlowchart:
		g := doc.Flowchart
		dir := g.Direction
		w.Direction = &dir
		for _, id := range g.SortedNodeIDs() {
			w.Nodes = append(w.Nodes, *g.Nodes[id])
		}
		w.Edges = g.Edges
		for _, s := range g.Subgraphs {
			w.Subgraphs = append(w.Subgraphs, *s)
		}
		w.Classes = g.Classes
	case KindSequence:
		d := doc.Sequence
		w.Title, w.Participants, w.Messages, w.Autonumber = d.Title, d.Participants, d.Messages, d.Autonumber
	case KindPie:
		c := doc.Pie
		w.Title, w.Slices, w.ShowData = c.Title, c.Slices, c.ShowData
	}
	return w
}
