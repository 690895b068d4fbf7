package graph

import "fmt"

// Default spacing values.
const (
	DefaultPaddingX      = 8
	DefaultPaddingY      = 4
	DefaultBorderPadding = 1
)

// Upper bounds accepted by Validate.
const (
	MaxPadding   = 1024
	MaxLineWidth = 4096
)

// RenderOptions controls layout spacing and output encoding.
type RenderOptions struct {
	// ASCII replaces box-drawing glyphs with plain ASCII.
	ASCII bool `json:"ascii,omitempty" toml:"ascii"`

	// MaxWidth limits every output line to this display width.
	// Zero means unlimited. In horizontal diagrams it also shrinks the
	// gap between layers.
	MaxWidth int `json:"max_width,omitempty" toml:"max_width"`

	// PaddingX is the gap between layers (horizontal diagrams) or between
	// siblings in a layer (vertical diagrams).
	PaddingX int `json:"padding_x" toml:"padding_x"`

	// PaddingY is the vertical counterpart of PaddingX.
	PaddingY int `json:"padding_y" toml:"padding_y"`

	// BorderPadding is the space between a label and the node border.
	BorderPadding int `json:"border_padding" toml:"border_padding"`

	// Colors styles nodes that reference a style class with ANSI colors.
	Colors bool `json:"colors,omitempty" toml:"colors"`
}

// DefaultRenderOptions returns the documented defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		PaddingX:      DefaultPaddingX,
		PaddingY:      DefaultPaddingY,
		BorderPadding: DefaultBorderPadding,
	}
}

// Validate rejects negative sizes, paddings above [MaxPadding] and a max
// width above [MaxLineWidth].
func (o RenderOptions) Validate() error {
	if err := bounded("max width", o.MaxWidth, MaxLineWidth); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"padding x", o.PaddingX},
		{"padding y", o.PaddingY},
		{"border padding", o.BorderPadding},
	} {
		if err := bounded(f.name, f.v, MaxPadding); err != nil {
			return err
		}
	}
	return nil
}

func bounded(name string, v, limit int) error {
	switch {
	case v < 0:
		return fmt.Errorf("%s must not be negative, got %d", name, v)
	case v > limit:
		return fmt.Errorf("%s must be at most %d, got %d", name, limit, v)
	}
	return nil
}
