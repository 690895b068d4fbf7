package graph

import (
	"fmt"
	"strings"
)

// =============================================================================
// Sequence diagrams
// =============================================================================

// ArrowStyle is the line and head style of a sequence message.
type ArrowStyle int

const (
	SolidArrow       ArrowStyle = iota // ->>
	DottedArrowHead                    // -->>
	SolidOpen                          // ->
	DottedOpen                         // -->
	AsyncArrow                         // -)
)

var arrowStyleNames = [...]string{"solid", "dotted", "solid_line", "dotted_line", "async"}

func (s ArrowStyle) String() string {
	if s < SolidArrow || int(s) >= len(arrowStyleNames) {
		return fmt.Sprintf("ArrowStyle(%d)", int(s))
	}
	return arrowStyleNames[s]
}

// Dotted reports whether the message line is dotted.
func (s ArrowStyle) Dotted() bool { return s == DottedArrowHead || s == DottedOpen }

// ParseArrowStyle resolves an arrow style name. The empty string is solid.
func ParseArrowStyle(s string) (ArrowStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return SolidArrow, nil
	}
	for i, n := range arrowStyleNames {
		if n == name {
			return ArrowStyle(i), nil
		}
	}
	return SolidArrow, fmt.Errorf("%w: arrow style %q", ErrUnknownVariant, s)
}

func (s ArrowStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ArrowStyle) UnmarshalText(b []byte) error {
	v, err := ParseArrowStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Participant is a lifeline owner in a sequence diagram.
type Participant struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label,omitempty" toml:"label,omitempty"`
}

// DisplayLabel returns the label, falling back to the ID.
func (p Participant) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// Message is one arrow between two participants, in diagram order.
type Message struct {
	From  string     `json:"from" toml:"from"`
	To    string     `json:"to" toml:"to"`
	Label string     `json:"label,omitempty" toml:"label,omitempty"`
	Style ArrowStyle `json:"style,omitempty" toml:"style,omitempty"`
}

// SequenceDiagram is the intermediate representation of a sequence diagram.
type SequenceDiagram struct {
	Title        string        `json:"title,omitempty" toml:"title,omitempty"`
	Participants []Participant `json:"participants,omitempty" toml:"participants,omitempty"`
	Messages     []Message     `json:"messages,omitempty" toml:"messages,omitempty"`
	Autonumber   bool          `json:"autonumber,omitempty" toml:"autonumber,omitempty"`
}

// EnsureParticipants appends a participant for every message endpoint that
// is not declared, in first-reference order.
func (d *SequenceDiagram) EnsureParticipants() {
	seen := make(map[string]bool, len(d.Participants))
	for _, p := range d.Participants {
		seen[p.ID] = true
	}
	for _, m := range d.Messages {
		for _, id := range [2]string{m.From, m.To} {
			if !seen[id] {
				seen[id] = true
				d.Participants = append(d.Participants, Participant{ID: id, Label: id})
			}
		}
	}
}

// =============================================================================
// Pie charts
// =============================================================================

// PieSlice is one labelled value of a pie chart.
type PieSlice struct {
	Label string  `json:"label" toml:"label"`
	Value float64 `json:"value" toml:"value"`
}

// PieChart is the intermediate representation of a pie chart.
type PieChart struct {
	Title    string     `json:"title,omitempty" toml:"title,omitempty"`
	Slices   []PieSlice `json:"slices,omitempty" toml:"slices,omitempty"`
	ShowData bool       `json:"show_data,omitempty" toml:"show_data,omitempty"`
}

// Total returns the sum of all slice values.
func (c *PieChart) Total() float64 {
	var t float64
	for _, s := range c.Slices {
		t += s.Value
	}
	return t
}
