package graph

import (
	"fmt"
	"strings"
)

// =============================================================================
// Direction
// =============================================================================

// Direction is the primary flow axis of a diagram.
//
// The zero value is LeftRight, so a Graph literal without a Direction flows
// left to right. Parsed input that names no direction gets
// [DefaultDirection] instead.
type Direction int

const (
	LeftRight Direction = iota // LR
	RightLeft                  // RL
	TopBottom                  // TB (alias TD)
	BottomTop                  // BT
)

// DefaultDirection applies when a document or mnemonic leaves the direction
// empty.
const DefaultDirection = TopBottom

var directionNames = [...]string{"LR", "RL", "TB", "BT"}

// String returns the two-letter mnemonic ("LR", "RL", "TB", "BT").
func (d Direction) String() string {
	if d < LeftRight || d > BottomTop {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Horizontal reports whether layers are laid out as columns.
func (d Direction) Horizontal() bool { return d == LeftRight || d == RightLeft }

// Reversed reports whether layers are placed in decreasing order.
func (d Direction) Reversed() bool { return d == RightLeft || d == BottomTop }

// ParseDirection parses a direction mnemonic, case-insensitively.
// "TD" is accepted as an alias for "TB" and the empty string yields
// [DefaultDirection].
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LR":
		return LeftRight, nil
	case "RL":
		return RightLeft, nil
	case "":
		return DefaultDirection, nil
	case "TB", "TD":
		return TopBottom, nil
	case "BT":
		return BottomTop, nil
	}
	return DefaultDirection, fmt.Errorf("%w: direction %q", ErrUnknownVariant, s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// =============================================================================
// Shape
// =============================================================================

// Shape is the closed set of node outlines the renderer can draw.
type Shape int

const (
	Rectangle Shape = iota
	Rounded
	Circle
	Diamond
	Cylinder
	Stadium
	Subroutine
	Hexagon
	Parallelogram
	ParallelogramAlt
	Trapezoid
	TrapezoidAlt
	Table
	Person
	Cloud
	Document
)

var shapeNames = [...]string{
	"rectangle", "rounded", "circle", "diamond", "cylinder", "stadium",
	"subroutine", "hexagon", "parallelogram", "parallelogram_alt",
	"trapezoid", "trapezoid_alt", "table", "person", "cloud", "document",
}

// Shapes lists every shape in declaration order.
func Shapes() []Shape {
	out := make([]Shape, len(shapeNames))
	for i := range out {
		out[i] = Shape(i)
	}
	return out
}

func (s Shape) String() string {
	if s < Rectangle || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape resolves a shape name. The empty string is a rectangle.
func ParseShape(s string) (Shape, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "rect" {
		return Rectangle, nil
	}
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	switch name {
	case "sql_table":
		return Table, nil
	case "database", "db":
		return Cylinder, nil
	case "page":
		return Document, nil
	}
	return Rectangle, fmt.Errorf("%w: shape %q", ErrUnknownVariant, s)
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// =============================================================================
// EdgeStyle
// =============================================================================

// EdgeStyle selects the line glyphs of an edge and whether it ends in an arrow.
type EdgeStyle int

const (
	Arrow EdgeStyle = iota
	Line
	DottedArrow
	DottedLine
	ThickArrow
	ThickLine
)

var edgeStyleNames = [...]string{
	"arrow", "line", "dotted_arrow", "dotted_line", "thick_arrow", "thick_line",
}

func (s EdgeStyle) String() string {
	if s < Arrow || int(s) >= len(edgeStyleNames) {
		return fmt.Sprintf("EdgeStyle(%d)", int(s))
	}
	return edgeStyleNames[s]
}

// HasArrow reports whether the edge ends in an arrowhead.
func (s EdgeStyle) HasArrow() bool {
	return s == Arrow || s == DottedArrow || s == ThickArrow
}

// Dotted reports whether the edge uses dotted line glyphs.
func (s EdgeStyle) Dotted() bool { return s == DottedArrow || s == DottedLine }

// Thick reports whether the edge uses doubled line glyphs.
func (s EdgeStyle) Thick() bool { return s == ThickArrow || s == ThickLine }

// ParseEdgeStyle resolves an edge style name. The empty string is an arrow.
func ParseEdgeStyle(s string) (EdgeStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Arrow, nil
	}
	for i, n := range edgeStyleNames {
		if n == name {
			return EdgeStyle(i), nil
		}
	}
	return Arrow, fmt.Errorf("%w: edge style %q", ErrUnknownVariant, s)
}

func (s EdgeStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *EdgeStyle) UnmarshalText(b []byte) error {
	v, err := ParseEdgeStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
